package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"intent-audit/internal/model"
	"intent-audit/internal/runindex/repository"
	"intent-audit/internal/runindex/repository/sqlite"
	"intent-audit/pkg/log"
)

func records() []repository.Record {
	mk := func(line int, id, fp string) repository.Record {
		return repository.Record{Line: line, Entry: model.RunIndexEntry{
			RunID:             id,
			Datetime:          "2026-01-01T00:00:00Z",
			Mode:              model.ModeRulePredict,
			ConfigFingerprint: fp,
			KeyMetrics:        map[string]any{"coverage_rate": 0.5},
		}}
	}
	return []repository.Record{
		mk(1, "run-a", "fp1"),
		mk(2, "run-b", "fp2"),
		mk(3, "run-c", "fp1"),
		mk(5, "run-a", "fp1"), // duplicate run id on a later line
	}
}

func TestMirror(t *testing.T) {
	ctx := context.Background()
	for name, path := range map[string]string{
		"Memory": ":memory:",
		"File":   filepath.Join(t.TempDir(), "mirror", "index.db"),
	} {
		t.Run(name, func(t *testing.T) {
			repo, err := sqlite.New(ctx, path, log.NewNop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer repo.Close()

			n, err := repo.Sync(ctx, records())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != 4 {
				t.Errorf("expected 4 inserted rows, got %d", n)
			}

			// Re-syncing is a no-op.
			n, err = repo.Sync(ctx, records())
			if err != nil || n != 0 {
				t.Errorf("expected 0 rows on re-sync, got %d (%v)", n, err)
			}

			runs, err := repo.ByFingerprint(ctx, "fp1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(runs) != 3 || runs[0].RunID != "run-a" || runs[1].RunID != "run-c" {
				t.Errorf("unexpected runs %+v", runs)
			}
			if runs[0].KeyMetrics["coverage_rate"] != 0.5 {
				t.Errorf("expected key metrics to round-trip, got %v", runs[0].KeyMetrics)
			}

			none, err := repo.ByFingerprint(ctx, "missing")
			if err != nil || len(none) != 0 {
				t.Errorf("expected no runs, got %v (%v)", none, err)
			}

			groups, err := repo.Fingerprints(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(groups) != 2 || groups[0].Fingerprint != "fp1" || len(groups[0].RunIDs) != 3 {
				t.Errorf("unexpected groups %+v", groups)
			}
		})
	}
}
