package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// TripStore implements storage.TripStore using PostgreSQL.
type TripStore struct {
	pool *Pool
}

// NewTripStore creates a new TripStore.
func NewTripStore(pool *Pool) *TripStore {
	return &TripStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TripStore = (*TripStore)(nil)

var tripColumns = []string{
	"ride_id", "rideable_type", "started_at", "ended_at",
	"start_station_name", "end_station_name",
	"start_station_id", "end_station_id",
	"start_lat", "start_lng", "end_lat", "end_lng",
	"member_casual",
}

// CopyIn bulk-loads raw trip rows using the COPY protocol. Returns the
// number of rows written. Rows are stored as-is; cleaning happens later.
func (s *TripStore) CopyIn(ctx context.Context, events []*domain.RawEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"trips"},
		tripColumns,
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			return []any{
				e.RideID, e.RideableType, e.StartedAt, e.EndedAt,
				e.StartStation, e.EndStation,
				e.StartStationID, e.EndStationID,
				e.StartLat, e.StartLng, e.EndLat, e.EndLng,
				e.MemberCasual,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy trips: %w", err)
	}

	return n, nil
}

// GetAll retrieves every stored trip row in insertion order.
func (s *TripStore) GetAll(ctx context.Context) ([]*domain.RawEvent, error) {
	query := `
		SELECT ride_id, rideable_type, started_at, ended_at,
			start_station_name, end_station_name,
			start_station_id, end_station_id,
			start_lat, start_lng, end_lat, end_lng,
			member_casual
		FROM trips
		ORDER BY id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all trips: %w", err)
	}
	defer rows.Close()

	var events []*domain.RawEvent
	for rows.Next() {
		var e domain.RawEvent
		err := rows.Scan(
			&e.RideID, &e.RideableType, &e.StartedAt, &e.EndedAt,
			&e.StartStation, &e.EndStation,
			&e.StartStationID, &e.EndStationID,
			&e.StartLat, &e.StartLng, &e.EndLat, &e.EndLng,
			&e.MemberCasual,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trip row: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trip rows: %w", err)
	}

	return events, nil
}
