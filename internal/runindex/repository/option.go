package repository

import "intent-audit/internal/model"

// Record is one parsed log line. Line numbers start at 1.
type Record struct {
	Line  int
	Entry model.RunIndexEntry
}

// MalformedLine is a log line that could not be parsed.
type MalformedLine struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ReadOutput is the parsed log.
type ReadOutput struct {
	Records   []Record
	Malformed []MalformedLine
}

// FingerprintGroup is every run recorded under one fingerprint.
type FingerprintGroup struct {
	Fingerprint string   `json:"fingerprint"`
	RunIDs      []string `json:"run_ids"`
}
