package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"intent-audit/internal/model"
	"intent-audit/internal/runindex/repository"
)

// Sync inserts log records not yet mirrored. Rows are keyed by log line
// and never updated, so re-syncing the same log is a no-op. It returns the
// number of rows inserted.
func (r *implRepository) Sync(ctx context.Context, records []repository.Record) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s: begin: %v", r.dsn("Sync"), err)
		return 0, fmt.Errorf("%w: %v", repository.ErrFailedToSync, err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR IGNORE INTO runs
			(line, run_id, datetime, mode, config_fingerprint, input_path, input_hash, key_metrics, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		r.l.Errorf(ctx, "%s: prepare: %v", r.dsn("Sync"), err)
		return 0, fmt.Errorf("%w: %v", repository.ErrFailedToSync, err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		metrics, err := json.Marshal(rec.Entry.KeyMetrics)
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: %v", repository.ErrFailedToSync, rec.Line, err)
		}
		e := rec.Entry
		res, err := stmt.ExecContext(ctx, rec.Line, e.RunID, e.Datetime, e.Mode, e.ConfigFingerprint,
			e.InputPath, e.InputHash, string(metrics), e.Notes)
		if err != nil {
			r.l.Errorf(ctx, "%s: insert line %d: %v", r.dsn("Sync"), rec.Line, err)
			return 0, fmt.Errorf("%w: line %d: %v", repository.ErrFailedToSync, rec.Line, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s: commit: %v", r.dsn("Sync"), err)
		return 0, fmt.Errorf("%w: %v", repository.ErrFailedToSync, err)
	}
	return inserted, nil
}

// ByFingerprint returns the mirrored runs with the given fingerprint in log order.
func (r *implRepository) ByFingerprint(ctx context.Context, fingerprint string) ([]model.RunIndexEntry, error) {
	const query = `
		SELECT run_id, datetime, mode, config_fingerprint, input_path, input_hash, key_metrics, notes
		FROM runs
		WHERE config_fingerprint = ?
		ORDER BY line`

	rows, err := r.db.QueryContext(ctx, query, fingerprint)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ByFingerprint"), err)
		return nil, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}
	defer rows.Close()

	entries := []model.RunIndexEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			r.l.Errorf(ctx, "%s: scan: %v", r.dsn("ByFingerprint"), err)
			return nil, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}
	return entries, nil
}

// Fingerprints groups run ids by fingerprint, ordered by first appearance.
func (r *implRepository) Fingerprints(ctx context.Context) ([]repository.FingerprintGroup, error) {
	const query = `
		SELECT config_fingerprint, run_id
		FROM runs
		ORDER BY line`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Fingerprints"), err)
		return nil, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}
	defer rows.Close()

	groups := []repository.FingerprintGroup{}
	pos := make(map[string]int)
	for rows.Next() {
		var fp, runID string
		if err := rows.Scan(&fp, &runID); err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
		}
		i, ok := pos[fp]
		if !ok {
			i = len(groups)
			pos[fp] = i
			groups = append(groups, repository.FingerprintGroup{Fingerprint: fp})
		}
		groups[i].RunIDs = append(groups[i].RunIDs, runID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}
	return groups, nil
}

func scanEntry(rows *sql.Rows) (model.RunIndexEntry, error) {
	var e model.RunIndexEntry
	var metrics string
	if err := rows.Scan(&e.RunID, &e.Datetime, &e.Mode, &e.ConfigFingerprint,
		&e.InputPath, &e.InputHash, &metrics, &e.Notes); err != nil {
		return model.RunIndexEntry{}, err
	}
	if err := json.Unmarshal([]byte(metrics), &e.KeyMetrics); err != nil {
		return model.RunIndexEntry{}, err
	}
	return e, nil
}
