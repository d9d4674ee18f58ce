package clickhouse

import (
	"context"
	"fmt"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// StockTimeseriesStore implements storage.StockTimeseriesStore using ClickHouse.
type StockTimeseriesStore struct {
	conn *Conn
}

// NewStockTimeseriesStore creates a new StockTimeseriesStore.
func NewStockTimeseriesStore(conn *Conn) *StockTimeseriesStore {
	return &StockTimeseriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.StockTimeseriesStore = (*StockTimeseriesStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (station, rideable_type, time). MergeTree does not enforce uniqueness, so
// duplicates are checked explicitly before the batch is sent.
func (s *StockTimeseriesStore) InsertBulk(ctx context.Context, points []*domain.StockPoint) error {
	if len(points) == 0 {
		return nil
	}

	type key struct {
		station      string
		rideableType string
		ts           int64
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		k := key{p.Station, p.RideableType, p.Time.UnixMilli()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, p := range points {
		exists, err := s.exists(ctx, p.Station, p.RideableType, p.Time)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO stock_timeseries (station, rideable_type, time, stock)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.Station, p.RideableType, p.Time, p.Stock); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByKey retrieves all points of one (station, vehicle type) series,
// ordered by time ASC.
func (s *StockTimeseriesStore) GetByKey(ctx context.Context, key domain.SeriesKey) ([]*domain.StockPoint, error) {
	query := `
		SELECT station, rideable_type, time, stock
		FROM stock_timeseries
		WHERE station = ? AND rideable_type = ?
		ORDER BY time ASC
	`

	rows, err := s.conn.Query(ctx, query, key.Station, key.RideableType)
	if err != nil {
		return nil, fmt.Errorf("query by series key: %w", err)
	}
	defer rows.Close()

	return scanStockPoints(rows)
}

// exists checks if a point with the given key exists.
func (s *StockTimeseriesStore) exists(ctx context.Context, station, rideableType string, ts time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM stock_timeseries
		WHERE station = ? AND rideable_type = ? AND time = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, station, rideableType, ts).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanStockPoints scans multiple rows.
func scanStockPoints(rows chRows) ([]*domain.StockPoint, error) {
	var points []*domain.StockPoint

	for rows.Next() {
		var p domain.StockPoint
		if err := rows.Scan(&p.Station, &p.RideableType, &p.Time, &p.Stock); err != nil {
			return nil, fmt.Errorf("scan stock point row: %w", err)
		}
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock point rows: %w", err)
	}

	return points, nil
}
