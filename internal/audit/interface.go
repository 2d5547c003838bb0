package audit

import (
	"context"

	"intent-audit/internal/model"
)

// UseCase runs audited inference and checks existing runs.
type UseCase interface {
	// Run predicts every sample, writes the six artifacts, validates them
	// and indexes the run. A run that fails validation is not indexed.
	Run(ctx context.Context, input RunInput) (RunOutput, error)

	// Report re-validates an existing run directory.
	Report(ctx context.Context, runDir string) (ReportOutput, error)
}

// Indexer records a completed run.
type Indexer interface {
	Append(ctx context.Context, entry model.RunIndexEntry) error
}
