package postgres

import (
	"context"
	"fmt"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// DatasetSummaryStore implements storage.DatasetSummaryStore using PostgreSQL.
type DatasetSummaryStore struct {
	pool *Pool
}

// NewDatasetSummaryStore creates a new DatasetSummaryStore.
func NewDatasetSummaryStore(pool *Pool) *DatasetSummaryStore {
	return &DatasetSummaryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DatasetSummaryStore = (*DatasetSummaryStore)(nil)

// Upsert writes the day's dataset summary. Re-running a day refreshes every
// non-key field of an existing row.
func (s *DatasetSummaryStore) Upsert(ctx context.Context, record *domain.DatasetSummaryRecord) error {
	query := `
		INSERT INTO dataset_summary (
			timestamp, number_of_drifted_columns, share_of_drifted_columns, dataset_drift
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (timestamp) DO UPDATE SET
			number_of_drifted_columns = EXCLUDED.number_of_drifted_columns,
			share_of_drifted_columns = EXCLUDED.share_of_drifted_columns,
			dataset_drift = EXCLUDED.dataset_drift
	`

	_, err := s.pool.Exec(ctx, query,
		record.Timestamp,
		record.NumberOfDriftedColumns,
		record.ShareOfDriftedColumns,
		record.DatasetDrift,
	)
	if err != nil {
		return fmt.Errorf("upsert dataset summary: %w", err)
	}
	return nil
}

// GetByTimestamp retrieves one day's summary. Returns ErrNotFound when the
// day has not been backfilled.
func (s *DatasetSummaryStore) GetByTimestamp(ctx context.Context, ts time.Time) (*domain.DatasetSummaryRecord, error) {
	query := `
		SELECT timestamp, number_of_drifted_columns, share_of_drifted_columns, dataset_drift
		FROM dataset_summary
		WHERE timestamp = $1
	`

	var r domain.DatasetSummaryRecord
	err := s.pool.QueryRow(ctx, query, ts).Scan(
		&r.Timestamp,
		&r.NumberOfDriftedColumns,
		&r.ShareOfDriftedColumns,
		&r.DatasetDrift,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get dataset summary: %w", err)
	}

	return &r, nil
}
