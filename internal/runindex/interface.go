package runindex

import (
	"context"

	"intent-audit/internal/model"
)

// UseCase is the cross-run index. The append-only log is the source of
// truth; queries by fingerprint go through a rebuildable mirror.
type UseCase interface {
	// Append adds one entry to the log. It is the only write path.
	Append(ctx context.Context, entry model.RunIndexEntry) error

	// List returns every entry in log order, with duplicate run ids reported.
	List(ctx context.Context) (ListOutput, error)

	// Compare returns the runs that share a config fingerprint.
	Compare(ctx context.Context, input CompareInput) (CompareOutput, error)

	// Groups returns every fingerprint with the runs recorded under it.
	Groups(ctx context.Context) (GroupsOutput, error)
}
