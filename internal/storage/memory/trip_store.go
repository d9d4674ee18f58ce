package memory

import (
	"context"
	"sync"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// TripStore is an in-memory implementation of storage.TripStore. The trips
// table is a raw landing area, so rows are kept in arrival order without a
// uniqueness constraint.
type TripStore struct {
	mu   sync.RWMutex
	data []*domain.RawEvent
}

// NewTripStore creates a new in-memory trip store.
func NewTripStore() *TripStore {
	return &TripStore{}
}

var _ storage.TripStore = (*TripStore)(nil)

// CopyIn bulk-loads raw events. Returns the number of rows written.
func (s *TripStore) CopyIn(_ context.Context, events []*domain.RawEvent) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if e == nil {
			return 0, storage.ErrInvalidInput
		}
		eventCopy := *e
		s.data = append(s.data, &eventCopy)
	}
	return int64(len(events)), nil
}

// GetAll retrieves every stored raw event in arrival order.
func (s *TripStore) GetAll(_ context.Context) ([]*domain.RawEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RawEvent, len(s.data))
	for i, e := range s.data {
		eventCopy := *e
		result[i] = &eventCopy
	}
	return result, nil
}
