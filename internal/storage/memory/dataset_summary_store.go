package memory

import (
	"context"
	"sync"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// DatasetSummaryStore is an in-memory implementation of storage.DatasetSummaryStore.
type DatasetSummaryStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.DatasetSummaryRecord // keyed by timestamp
}

// NewDatasetSummaryStore creates a new in-memory dataset summary store.
func NewDatasetSummaryStore() *DatasetSummaryStore {
	return &DatasetSummaryStore{
		data: make(map[int64]*domain.DatasetSummaryRecord),
	}
}

var _ storage.DatasetSummaryStore = (*DatasetSummaryStore)(nil)

// Upsert inserts or refreshes the summary row for a day.
func (s *DatasetSummaryStore) Upsert(_ context.Context, record *domain.DatasetSummaryRecord) error {
	if record == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.data[record.Timestamp.UnixNano()] = &recordCopy
	return nil
}

// GetByTimestamp retrieves the summary for a day. Returns ErrNotFound if
// not exists.
func (s *DatasetSummaryStore) GetByTimestamp(_ context.Context, ts time.Time) (*domain.DatasetSummaryRecord, error) {
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
func (s *DatasetSummaryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
