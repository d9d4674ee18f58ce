package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// StockTimeseriesStore is an in-memory implementation of storage.StockTimeseriesStore.
type StockTimeseriesStore struct {
	mu   sync.RWMutex
	data map[string]*domain.StockPoint // keyed by (station, rideable_type, time)
}

// NewStockTimeseriesStore creates a new in-memory stock timeseries store.
func NewStockTimeseriesStore() *StockTimeseriesStore {
	return &StockTimeseriesStore{
		data: make(map[string]*domain.StockPoint),
	}
}

var _ storage.StockTimeseriesStore = (*StockTimeseriesStore)(nil)

func stockKey(station, rideableType string, unixNano int64) string {
	return fmt.Sprintf("%s|%s|%d", station, rideableType, unixNano)
}

// InsertBulk adds multiple points. Fails the entire batch on a duplicate.
func (s *StockTimeseriesStore) InsertBulk(_ context.Context, points []*domain.StockPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Station == "" {
			return storage.ErrInvalidInput
		}
		key := stockKey(p.Station, p.RideableType, p.Time.UnixNano())
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		pointCopy := *p
		s.data[stockKey(p.Station, p.RideableType, p.Time.UnixNano())] = &pointCopy
	}
	return nil
}

// GetByKey retrieves all points for one series dimension, ordered by time ASC.
func (s *StockTimeseriesStore) GetByKey(_ context.Context, key domain.SeriesKey) ([]*domain.StockPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StockPoint
	for _, p := range s.data {
		if p.Station == key.Station && p.RideableType == key.RideableType {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Time.Before(result[j].Time)
	})
	return result, nil
}
