package storage

import (
	"context"
	"time"

	"bike-stock-lab/internal/domain"
)

// ColumnDriftStore provides access to column_drift storage.
// Writes are idempotent upserts keyed by (timestamp, column_name);
// re-running a day refreshes the score and flag without duplicating rows.
type ColumnDriftStore interface {
	// Upsert inserts or refreshes per-column drift rows.
	Upsert(ctx context.Context, records []*domain.ColumnDriftRecord) error

	// GetByTimestamp retrieves all rows for a day, ordered by column name.
	GetByTimestamp(ctx context.Context, ts time.Time) ([]*domain.ColumnDriftRecord, error)
}

// DatasetSummaryStore provides access to dataset_summary storage.
// Writes are idempotent upserts keyed by timestamp.
type DatasetSummaryStore interface {
	// Upsert inserts or refreshes the summary row for a day.
	Upsert(ctx context.Context, record *domain.DatasetSummaryRecord) error

	// GetByTimestamp retrieves the summary for a day. Returns ErrNotFound
	// if not exists.
	GetByTimestamp(ctx context.Context, ts time.Time) (*domain.DatasetSummaryRecord, error)
}

// ModelPerformanceStore provides access to model_performance storage.
// Writes are idempotent upserts keyed by timestamp.
type ModelPerformanceStore interface {
	// Upsert inserts or refreshes the performance row for a day.
	Upsert(ctx context.Context, record *domain.ModelPerformanceRecord) error

	// GetByTimestamp retrieves the row for a day. Returns ErrNotFound if
	// not exists.
	GetByTimestamp(ctx context.Context, ts time.Time) (*domain.ModelPerformanceRecord, error)
}

// TripStore provides access to the raw trips landing table.
type TripStore interface {
	// CopyIn bulk-loads raw events. Returns the number of rows written.
	CopyIn(ctx context.Context, events []*domain.RawEvent) (int64, error)

	// GetAll retrieves every stored raw event.
	GetAll(ctx context.Context) ([]*domain.RawEvent, error)
}

// StockTimeseriesStore provides access to stock_timeseries storage.
type StockTimeseriesStore interface {
	// InsertBulk adds multiple points. Fails the entire batch on an
	// intra-batch duplicate (station, rideable_type, time).
	InsertBulk(ctx context.Context, points []*domain.StockPoint) error

	// GetByKey retrieves all points for one series dimension, ordered by
	// time ASC.
	GetByKey(ctx context.Context, key domain.SeriesKey) ([]*domain.StockPoint, error)
}

// FeatureRowStore provides access to feature_rows storage.
type FeatureRowStore interface {
	// InsertBulk adds multiple rows. Fails the entire batch on an
	// intra-batch duplicate (station, rideable_type, time).
	InsertBulk(ctx context.Context, rows []*domain.FeatureRow) error

	// GetByKey retrieves all rows for one series dimension, ordered by
	// time ASC.
	GetByKey(ctx context.Context, key domain.SeriesKey) ([]*domain.FeatureRow, error)
}
