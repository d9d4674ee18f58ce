package postgres

import (
	"context"
	"fmt"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// ColumnDriftStore implements storage.ColumnDriftStore using PostgreSQL.
type ColumnDriftStore struct {
	pool *Pool
}

// NewColumnDriftStore creates a new ColumnDriftStore.
func NewColumnDriftStore(pool *Pool) *ColumnDriftStore {
	return &ColumnDriftStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ColumnDriftStore = (*ColumnDriftStore)(nil)

// Upsert writes per-column drift records atomically. Re-running a day
// refreshes every non-key field of existing (timestamp, column) rows.
func (s *ColumnDriftStore) Upsert(ctx context.Context, records []*domain.ColumnDriftRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO column_drift (timestamp, column_name, drift_score, is_drift)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (timestamp, column_name) DO UPDATE SET
			drift_score = EXCLUDED.drift_score,
			is_drift = EXCLUDED.is_drift
	`

	for _, r := range records {
		if _, err := tx.Exec(ctx, query, r.Timestamp, r.ColumnName, r.DriftScore, r.IsDrift); err != nil {
			return fmt.Errorf("upsert column drift: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByTimestamp retrieves every column record of one day, ordered by
// column name ASC.
func (s *ColumnDriftStore) GetByTimestamp(ctx context.Context, ts time.Time) ([]*domain.ColumnDriftRecord, error) {
	query := `
		SELECT timestamp, column_name, drift_score, is_drift
		FROM column_drift
		WHERE timestamp = $1
		ORDER BY column_name ASC
	`

	rows, err := s.pool.Query(ctx, query, ts)
	if err != nil {
		return nil, fmt.Errorf("get column drift by timestamp: %w", err)
	}
	defer rows.Close()

	var records []*domain.ColumnDriftRecord
	for rows.Next() {
		var r domain.ColumnDriftRecord
		if err := rows.Scan(&r.Timestamp, &r.ColumnName, &r.DriftScore, &r.IsDrift); err != nil {
			return nil, fmt.Errorf("scan column drift row: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column drift rows: %w", err)
	}

	return records, nil
}
