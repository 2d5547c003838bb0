package repository

import (
	"context"

	"intent-audit/internal/model"
)

// LogRepository is the append-only run log.
type LogRepository interface {
	Append(ctx context.Context, entry model.RunIndexEntry) error
	Read(ctx context.Context) (ReadOutput, error)
}

// MirrorRepository is a query copy of the log. It can always be rebuilt
// from the log and is never written to by anything else.
type MirrorRepository interface {
	Sync(ctx context.Context, records []Record) (int, error)
	ByFingerprint(ctx context.Context, fingerprint string) ([]model.RunIndexEntry, error)
	Fingerprints(ctx context.Context) ([]FingerprintGroup, error)
	Close() error
}
