package memory

import (
	"context"
	"sync"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// ModelPerformanceStore is an in-memory implementation of storage.ModelPerformanceStore.
type ModelPerformanceStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.ModelPerformanceRecord // keyed by timestamp
}

// NewModelPerformanceStore creates a new in-memory model performance store.
func NewModelPerformanceStore() *ModelPerformanceStore {
	return &ModelPerformanceStore{
		data: make(map[int64]*domain.ModelPerformanceRecord),
	}
}

var _ storage.ModelPerformanceStore = (*ModelPerformanceStore)(nil)

// Upsert inserts or refreshes the performance row for a day.
func (s *ModelPerformanceStore) Upsert(_ context.Context, record *domain.ModelPerformanceRecord) error {
	if record == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.data[record.Timestamp.UnixNano()] = &recordCopy
	return nil
}

// GetByTimestamp retrieves the row for a day. Returns ErrNotFound if not
// exists.
func (s *ModelPerformanceStore) GetByTimestamp(_ context.Context, ts time.Time) (*domain.ModelPerformanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[ts.UnixNano()]
	if !ok {
		return nil, storage.ErrNotFound
	}
	recordCopy := *r
	return &recordCopy, nil
}

// Count returns the total number of stored rows.
func (s *ModelPerformanceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
