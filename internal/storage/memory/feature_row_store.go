package memory

import (
	"context"
	"sort"
	"sync"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// FeatureRowStore is an in-memory implementation of storage.FeatureRowStore.
type FeatureRowStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FeatureRow // keyed by (station, rideable_type, time)
}

// NewFeatureRowStore creates a new in-memory feature row store.
func NewFeatureRowStore() *FeatureRowStore {
	return &FeatureRowStore{
		data: make(map[string]*domain.FeatureRow),
	}
}

var _ storage.FeatureRowStore = (*FeatureRowStore)(nil)

// InsertBulk adds multiple rows. Fails the entire batch on a duplicate.
func (s *FeatureRowStore) InsertBulk(_ context.Context, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.Station == "" {
			return storage.ErrInvalidInput
		}
		key := stockKey(r.Station, r.RideableType, r.Time.UnixNano())
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range rows {
		rowCopy := *r
		s.data[stockKey(r.Station, r.RideableType, r.Time.UnixNano())] = &rowCopy
	}
	return nil
}

// GetByKey retrieves all rows for one series dimension, ordered by time ASC.
func (s *FeatureRowStore) GetByKey(_ context.Context, key domain.SeriesKey) ([]*domain.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureRow
	for _, r := range s.data {
		if r.Station == key.Station && r.RideableType == key.RideableType {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Time.Before(result[j].Time)
	})
	return result, nil
}
