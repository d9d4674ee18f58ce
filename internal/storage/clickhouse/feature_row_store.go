package clickhouse

import (
	"context"
	"fmt"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// FeatureRowStore implements storage.FeatureRowStore using ClickHouse.
type FeatureRowStore struct {
	conn *Conn
}

// NewFeatureRowStore creates a new FeatureRowStore.
func NewFeatureRowStore(conn *Conn) *FeatureRowStore {
	return &FeatureRowStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureRowStore = (*FeatureRowStore)(nil)

// InsertBulk adds multiple feature rows. Fails entire batch on duplicate
// (station, rideable_type, time).
func (s *FeatureRowStore) InsertBulk(ctx context.Context, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	type key struct {
		station      string
		rideableType string
		ts           int64
	}
	seen := make(map[key]struct{}, len(rows))
	for _, r := range rows {
		k := key{r.Station, r.RideableType, r.Time.UnixMilli()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, r := range rows {
		exists, err := s.exists(ctx, r.Station, r.RideableType, r.Time)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO feature_rows (
			station, rideable_type, time, stock, hour, dayofweek, is_rush_hour,
			lag_15m_stock, lag_30m_stock, lag_45m_stock, lag_60m_stock,
			target_next_stock, date, predict
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		err := batch.Append(
			r.Station, r.RideableType, r.Time,
			r.Stock, r.Hour, uint8(r.DayOfWeek), uint8(r.IsRushHour),
			r.Lag15mStock, r.Lag30mStock, r.Lag45mStock, r.Lag60mStock,
			r.TargetNextStock, r.Date, r.Prediction,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByKey retrieves all rows of one (station, vehicle type) series,
// ordered by time ASC.
func (s *FeatureRowStore) GetByKey(ctx context.Context, key domain.SeriesKey) ([]*domain.FeatureRow, error) {
	query := `
		SELECT station, rideable_type, time, stock, hour, dayofweek, is_rush_hour,
			lag_15m_stock, lag_30m_stock, lag_45m_stock, lag_60m_stock,
			target_next_stock, date, predict
		FROM feature_rows
		WHERE station = ? AND rideable_type = ?
		ORDER BY time ASC
	`

	rows, err := s.conn.Query(ctx, query, key.Station, key.RideableType)
	if err != nil {
		return nil, fmt.Errorf("query by series key: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// exists checks if a row with the given key exists.
func (s *FeatureRowStore) exists(ctx context.Context, station, rideableType string, ts time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM feature_rows
		WHERE station = ? AND rideable_type = ? AND time = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, station, rideableType, ts).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanFeatureRows scans multiple rows.
func scanFeatureRows(rows chRows) ([]*domain.FeatureRow, error) {
	var result []*domain.FeatureRow

	for rows.Next() {
		var r domain.FeatureRow
		var dayOfWeek, isRushHour uint8

		err := rows.Scan(
			&r.Station, &r.RideableType, &r.Time,
			&r.Stock, &r.Hour, &dayOfWeek, &isRushHour,
			&r.Lag15mStock, &r.Lag30mStock, &r.Lag45mStock, &r.Lag60mStock,
			&r.TargetNextStock, &r.Date, &r.Prediction,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}

		r.DayOfWeek = int(dayOfWeek)
		r.IsRushHour = int(isRushHour)
		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature rows: %w", err)
	}

	return result, nil
}
