package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"intent-audit/internal/model"
	"intent-audit/internal/runindex/repository"
)

const maxLineSize = 1 << 20

// Append writes entry as exactly one line. The file is opened with
// O_APPEND and held under an exclusive lock for the single write and fsync,
// so concurrent writers from other processes never interleave.
func (r *implRepository) Append(ctx context.Context, entry model.RunIndexEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		r.l.Errorf(ctx, "%s: marshal: %v", r.dsn("Append"), err)
		return fmt.Errorf("%w: %v", repository.ErrFailedToAppend, err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		r.l.Errorf(ctx, "%s: mkdir: %v", r.dsn("Append"), err)
		return fmt.Errorf("%w: %v", repository.ErrFailedToAppend, err)
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.l.Errorf(ctx, "%s: open: %v", r.dsn("Append"), err)
		return fmt.Errorf("%w: %v", repository.ErrFailedToAppend, err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		r.l.Errorf(ctx, "%s: lock: %v", r.dsn("Append"), err)
		return fmt.Errorf("%w: %v", repository.ErrFailedToAppend, err)
	}
	defer unlockFile(f)

	if _, err := f.Write(line); err != nil {
		r.l.Errorf(ctx, "%s: write: %v", r.dsn("Append"), err)
		return fmt.Errorf("%w: %v", repository.ErrFailedToAppend, err)
	}
	if err := f.Sync(); err != nil {
		r.l.Errorf(ctx, "%s: fsync: %v", r.dsn("Append"), err)
		return fmt.Errorf("%w: %v", repository.ErrFailedToAppend, err)
	}
	return nil
}

// Read parses every line in order. Lines that fail to parse, or parse to an
// entry without a run_id, are reported instead of failing the read. A
// missing file is an empty log.
func (r *implRepository) Read(ctx context.Context) (repository.ReadOutput, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return repository.ReadOutput{Records: []repository.Record{}}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: open: %v", r.dsn("Read"), err)
		return repository.ReadOutput{}, fmt.Errorf("%w: %v", repository.ErrFailedToRead, err)
	}
	defer f.Close()

	out := repository.ReadOutput{Records: []repository.Record{}}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Bytes()
		if len(text) == 0 {
			continue
		}

		var entry model.RunIndexEntry
		if err := json.Unmarshal(text, &entry); err != nil {
			out.Malformed = append(out.Malformed, repository.MalformedLine{Line: line, Reason: err.Error()})
			continue
		}
		if entry.RunID == "" {
			out.Malformed = append(out.Malformed, repository.MalformedLine{Line: line, Reason: "missing run_id"})
			continue
		}
		out.Records = append(out.Records, repository.Record{Line: line, Entry: entry})
	}
	if err := sc.Err(); err != nil {
		r.l.Errorf(ctx, "%s: scan: %v", r.dsn("Read"), err)
		return repository.ReadOutput{}, fmt.Errorf("%w: line %d: %v", repository.ErrFailedToRead, line+1, err)
	}

	if len(out.Malformed) > 0 {
		r.l.Warnf(ctx, "%s: %d malformed lines in %s", r.dsn("Read"), len(out.Malformed), r.path)
	}
	return out, nil
}
