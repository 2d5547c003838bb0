package audit_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"intent-audit/internal/audit"
	"intent-audit/pkg/log"
)

func completedRun(t *testing.T) (string, string) {
	t.Helper()
	in := runInput(t, t.TempDir(), plainJSONL)
	out, err := audit.New(log.NewNop(), &mockIndexer{}).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.RunDir, in.Fingerprint
}

func TestValidateCompleteRun(t *testing.T) {
	dir, fp := completedRun(t)

	v, err := audit.Validate(dir, fp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Complete() || v.Mismatch != nil {
		t.Errorf("expected a clean validation, got %+v", v)
	}
	if len(v.Fingerprints) != 3 {
		t.Errorf("expected 3 recorded fingerprints, got %v", v.Fingerprints)
	}
}

func TestValidateDetectsMissingArtifact(t *testing.T) {
	for _, name := range audit.RequiredArtifacts {
		t.Run(name, func(t *testing.T) {
			dir, fp := completedRun(t)
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				t.Fatal(err)
			}

			v, err := audit.Validate(dir, fp)
			if !errors.Is(err, audit.ErrArtifactIncomplete) {
				t.Fatalf("expected ErrArtifactIncomplete, got %v", err)
			}
			var incomplete *audit.ArtifactIncompleteError
			if !errors.As(err, &incomplete) {
				t.Fatalf("expected *ArtifactIncompleteError, got %T", err)
			}
			if len(v.Missing) != 1 || v.Missing[0] != name {
				t.Errorf("expected missing [%s], got %v", name, v.Missing)
			}
		})
	}
}

func TestValidateDetectsEmptyAndCorruptArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"Empty summary", audit.SummaryFile, "  \n"},
		{"Corrupt metrics", audit.MetricsFile, "{not json"},
		{"Corrupt per-sample line", audit.PerSampleFile, "{\"id\": 1}\n{oops\n"},
		{"Per-sample count mismatch", audit.PerSampleFile, "{\"id\": \"p1\"}\n"},
		{"Snapshot without config", audit.SnapshotFile, "audit:\n  config_fingerprint: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, fp := completedRun(t)
			if err := os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			v, err := audit.Validate(dir, fp)
			if !errors.Is(err, audit.ErrArtifactIncomplete) {
				t.Fatalf("expected ErrArtifactIncomplete, got %v", err)
			}
			if len(v.Invalid) == 0 || !strings.HasPrefix(v.Invalid[0], tt.file) {
				t.Errorf("expected %s to be reported invalid, got %v", tt.file, v.Invalid)
			}
		})
	}
}

func TestValidateDetectsFingerprintMismatch(t *testing.T) {
	dir, fp := completedRun(t)
	path := filepath.Join(dir, audit.MetricsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	forged := strings.Repeat("0", 64)
	if err := os.WriteFile(path, []byte(strings.ReplaceAll(string(data), fp, forged)), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := audit.Validate(dir, fp)
	if err != nil {
		t.Fatalf("expected a mismatch to be a warning, got error %v", err)
	}
	if v.Mismatch == nil {
		t.Fatalf("expected a mismatch warning")
	}
	if v.Mismatch.Found[audit.MetricsFile] != forged {
		t.Errorf("expected metrics to be reported with %q, got %v", forged, v.Mismatch.Found)
	}
}

func TestReport(t *testing.T) {
	dir, _ := completedRun(t)
	uc := audit.New(log.NewNop(), &mockIndexer{})

	out, err := uc.Report(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Metrics == nil || out.Metrics.Overall.NSamples != 2 {
		t.Errorf("expected metrics for 2 samples, got %+v", out.Metrics)
	}

	if err := os.Remove(filepath.Join(dir, audit.RunLogFile)); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Report(context.Background(), dir); !errors.Is(err, audit.ErrArtifactIncomplete) {
		t.Errorf("expected ErrArtifactIncomplete, got %v", err)
	}
}
