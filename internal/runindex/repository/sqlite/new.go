// Package sqlite mirrors the run index log into SQLite for fingerprint
// queries.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"intent-audit/internal/runindex/repository"
	"intent-audit/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
	mu sync.Mutex // serializes Sync
}

// New opens (or creates) the mirror database at path. ":memory:" gives a
// private in-memory mirror.
func New(ctx context.Context, path string, l log.Logger) (repository.MirrorRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create mirror dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	r := &implRepository{db: db, l: l}
	if err := r.createTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return r, nil
}

func (r *implRepository) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS runs (
			line               INTEGER PRIMARY KEY,
			run_id             TEXT NOT NULL,
			datetime           TEXT NOT NULL,
			mode               TEXT NOT NULL,
			config_fingerprint TEXT NOT NULL,
			input_path         TEXT NOT NULL,
			input_hash         TEXT NOT NULL,
			key_metrics        TEXT NOT NULL,
			notes              TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(config_fingerprint);
		CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Close releases the database.
func (r *implRepository) Close() error {
	return r.db.Close()
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("runindex/repository/sqlite.%s", method)
}
