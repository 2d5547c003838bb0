package usecase

import (
	"context"

	"intent-audit/internal/model"
	"intent-audit/internal/runindex"
)

// List reads the whole log. Duplicate run ids are reported, never dropped.
func (uc *implUseCase) List(ctx context.Context) (runindex.ListOutput, error) {
	out, err := uc.log.Read(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "runindex.usecase.List: %v", err)
		return runindex.ListOutput{}, err
	}

	entries := make([]model.RunIndexEntry, 0, len(out.Records))
	lines := make(map[string][]int)
	for _, rec := range out.Records {
		entries = append(entries, rec.Entry)
		lines[rec.Entry.RunID] = append(lines[rec.Entry.RunID], rec.Line)
	}

	dups := make(map[string][]int)
	for id, ls := range lines {
		if len(ls) > 1 {
			dups[id] = ls
		}
	}
	if len(dups) > 0 {
		uc.l.Warnf(ctx, "runindex.usecase.List: %d run ids appear more than once", len(dups))
	}

	return runindex.ListOutput{
		Entries:    entries,
		Duplicates: dups,
		Malformed:  out.Malformed,
	}, nil
}
