package postgres

import (
	"context"
	"fmt"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// ModelPerformanceStore implements storage.ModelPerformanceStore using PostgreSQL.
type ModelPerformanceStore struct {
	pool *Pool
}

// NewModelPerformanceStore creates a new ModelPerformanceStore.
func NewModelPerformanceStore(pool *Pool) *ModelPerformanceStore {
	return &ModelPerformanceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ModelPerformanceStore = (*ModelPerformanceStore)(nil)

// Upsert writes the day's model performance metrics. Re-running a day
// refreshes every non-key field of an existing row.
func (s *ModelPerformanceStore) Upsert(ctx context.Context, record *domain.ModelPerformanceRecord) error {
	query := `
		INSERT INTO model_performance (timestamp, rmse, mae, abs_error_max)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (timestamp) DO UPDATE SET
			rmse = EXCLUDED.rmse,
			mae = EXCLUDED.mae,
			abs_error_max = EXCLUDED.abs_error_max
	`

	_, err := s.pool.Exec(ctx, query, record.Timestamp, record.RMSE, record.MAE, record.AbsErrorMax)
	if err != nil {
		return fmt.Errorf("upsert model performance: %w", err)
	}
	return nil
}

// GetByTimestamp retrieves one day's performance metrics. Returns
// ErrNotFound when the day has not been backfilled.
func (s *ModelPerformanceStore) GetByTimestamp(ctx context.Context, ts time.Time) (*domain.ModelPerformanceRecord, error) {
	query := `
		SELECT timestamp, rmse, mae, abs_error_max
		FROM model_performance
		WHERE timestamp = $1
	`

	var r domain.ModelPerformanceRecord
	err := s.pool.QueryRow(ctx, query, ts).Scan(&r.Timestamp, &r.RMSE, &r.MAE, &r.AbsErrorMax)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get model performance: %w", err)
	}

	return &r, nil
}
