package jsonl_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"intent-audit/internal/model"
	"intent-audit/internal/runindex/repository/jsonl"
	"intent-audit/pkg/log"
)

func entry(id, fp string) model.RunIndexEntry {
	return model.RunIndexEntry{
		RunID:             id,
		Datetime:          "2026-01-02T03:04:05Z",
		Mode:              model.ModeRulePredict,
		ConfigFingerprint: fp,
		InputPath:         "data/test.jsonl",
		InputHash:         "abc",
		KeyMetrics:        map[string]any{"ambiguous_rate": 0.25, "macro_f1": nil},
	}
}

func TestAppendTwiceAddsTwoLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "_index", "index.jsonl")
	repo := jsonl.New(path, log.NewNop())
	ctx := context.Background()

	// Identical entries are still two lines: the log never dedupes.
	for i := 0; i < 2; i++ {
		if err := repo.Append(ctx, entry("run-1", "fp")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	if lines[0] != lines[1] {
		t.Errorf("expected identical lines, got %q and %q", lines[0], lines[1])
	}

	out, err := repo.Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Records) != 2 || out.Records[0].Line != 1 || out.Records[1].Line != 2 {
		t.Errorf("unexpected records %+v", out.Records)
	}
}

func TestAppendPreservesEarlierLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.jsonl")
	repo := jsonl.New(path, log.NewNop())
	ctx := context.Background()

	if err := repo.Append(ctx, entry("a", "fp1")); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(path)
	if err := repo.Append(ctx, entry("b", "fp2")); err != nil {
		t.Fatal(err)
	}
	after, _ := os.ReadFile(path)

	if !strings.HasPrefix(string(after), string(before)) {
		t.Errorf("expected earlier content to be a prefix of the new content")
	}
}

func TestConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.jsonl")
	repo := jsonl.New(path, log.NewNop())
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := repo.Append(ctx, entry(fmt.Sprintf("run-%d", i), "fp")); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	out, err := repo.Read(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Records) != n || len(out.Malformed) != 0 {
		t.Errorf("expected %d clean records, got %d records and %d malformed", n, len(out.Records), len(out.Malformed))
	}
}

func TestReadReportsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.jsonl")
	content := `{"run_id":"a","config_fingerprint":"fp"}
not json

{"mode":"report"}
{"run_id":"b","config_fingerprint":"fp"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := jsonl.New(path, log.NewNop()).Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Records) != 2 || out.Records[1].Line != 5 {
		t.Errorf("unexpected records %+v", out.Records)
	}
	if len(out.Malformed) != 2 || out.Malformed[0].Line != 2 || out.Malformed[1].Line != 4 {
		t.Errorf("unexpected malformed report %+v", out.Malformed)
	}
}

func TestReadMissingFile(t *testing.T) {
	out, err := jsonl.New(filepath.Join(t.TempDir(), "none.jsonl"), log.NewNop()).Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Records) != 0 {
		t.Errorf("expected empty log, got %+v", out.Records)
	}
}
