package usecase

import (
	"context"
	"fmt"
	"strings"

	"intent-audit/internal/model"
	"intent-audit/internal/runindex"
)

// Append validates and appends one entry.
func (uc *implUseCase) Append(ctx context.Context, entry model.RunIndexEntry) error {
	if strings.TrimSpace(entry.RunID) == "" {
		return fmt.Errorf("%w: run_id is empty", runindex.ErrInvalidEntry)
	}
	if strings.TrimSpace(entry.ConfigFingerprint) == "" {
		return fmt.Errorf("%w: config_fingerprint is empty", runindex.ErrInvalidEntry)
	}
	if entry.KeyMetrics == nil {
		entry.KeyMetrics = map[string]any{}
	}

	if err := uc.log.Append(ctx, entry); err != nil {
		uc.l.Errorf(ctx, "runindex.usecase.Append: %v", err)
		return err
	}
	uc.l.Infof(ctx, "Indexed run %s (fingerprint %s)", entry.RunID, entry.ConfigFingerprint)
	return nil
}
