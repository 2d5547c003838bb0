package http

import (
	"intent-audit/internal/model"
	"intent-audit/internal/runindex"
	"intent-audit/internal/runindex/repository"
)

type listResp struct {
	Entries    []model.RunIndexEntry      `json:"entries"`
	Duplicates map[string][]int           `json:"duplicates"`
	Malformed  []repository.MalformedLine `json:"malformed"`
}

type compareResp struct {
	Fingerprint string                `json:"fingerprint"`
	Runs        []model.RunIndexEntry `json:"runs"`
	Count       int                   `json:"count"`
}

type groupsResp struct {
	Groups []repository.FingerprintGroup `json:"groups"`
}

func newListResp(o runindex.ListOutput) listResp {
	resp := listResp{Entries: o.Entries, Duplicates: o.Duplicates, Malformed: o.Malformed}
	if resp.Entries == nil {
		resp.Entries = []model.RunIndexEntry{}
	}
	if resp.Duplicates == nil {
		resp.Duplicates = map[string][]int{}
	}
	if resp.Malformed == nil {
		resp.Malformed = []repository.MalformedLine{}
	}
	return resp
}

func newCompareResp(o runindex.CompareOutput) compareResp {
	runs := o.Runs
	if runs == nil {
		runs = []model.RunIndexEntry{}
	}
	return compareResp{Fingerprint: o.Fingerprint, Runs: runs, Count: len(runs)}
}

func newGroupsResp(o runindex.GroupsOutput) groupsResp {
	groups := o.Groups
	if groups == nil {
		groups = []repository.FingerprintGroup{}
	}
	return groupsResp{Groups: groups}
}
