package audit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrArtifactIncomplete = errors.New("run artifacts incomplete")
	ErrNoSamples          = errors.New("input has no samples")
	ErrRunExists          = errors.New("run directory already exists and is not empty")
	ErrInvalidRunInput    = errors.New("invalid run input")
)

// ArtifactIncompleteError lists the artifacts of a run that are missing or
// do not parse.
type ArtifactIncompleteError struct {
	RunID   string
	Missing []string
	Invalid []string // "<file>: <reason>"
}

func (e *ArtifactIncompleteError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, "; "))
	}
	return fmt.Sprintf("run %s: %s", e.RunID, strings.Join(parts, "; "))
}

func (e *ArtifactIncompleteError) Unwrap() error {
	return ErrArtifactIncomplete
}
