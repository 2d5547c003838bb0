package jsonl

import (
	"fmt"

	"intent-audit/internal/runindex/repository"
	"intent-audit/pkg/log"
)

type implRepository struct {
	path string
	l    log.Logger
}

// New returns a LogRepository backed by the JSON Lines file at path. The
// file and its parent directory are created on first append.
func New(path string, l log.Logger) repository.LogRepository {
	if path == "" {
		panic("runindex/repository/jsonl: path is required")
	}
	return &implRepository{path: path, l: l}
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("runindex/repository/jsonl.%s", method)
}
