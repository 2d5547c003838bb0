package runindex

import (
	"intent-audit/internal/model"
	"intent-audit/internal/runindex/repository"
)

// ListOutput is the full log plus what looked wrong in it.
type ListOutput struct {
	Entries    []model.RunIndexEntry
	Duplicates map[string][]int // run_id -> line numbers, only for ids seen more than once
	Malformed  []repository.MalformedLine
}

// CompareInput selects the runs to compare.
type CompareInput struct {
	Fingerprint string
}

// CompareOutput lists comparable runs in log order.
type CompareOutput struct {
	Fingerprint string
	Runs        []model.RunIndexEntry
}

// GroupsOutput lists fingerprints in order of first appearance.
type GroupsOutput struct {
	Groups []repository.FingerprintGroup
}
