package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

// ColumnDriftStore is an in-memory implementation of storage.ColumnDriftStore.
type ColumnDriftStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ColumnDriftRecord // keyed by (timestamp, column_name)
}

// NewColumnDriftStore creates a new in-memory column drift store.
func NewColumnDriftStore() *ColumnDriftStore {
	return &ColumnDriftStore{
		data: make(map[string]*domain.ColumnDriftRecord),
	}
}

var _ storage.ColumnDriftStore = (*ColumnDriftStore)(nil)

func driftKey(ts time.Time, column string) string {
	return fmt.Sprintf("%d|%s", ts.UnixNano(), column)
}

// Upsert inserts or refreshes per-column drift rows.
func (s *ColumnDriftStore) Upsert(_ context.Context, records []*domain.ColumnDriftRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if r == nil || r.ColumnName == "" {
			return storage.ErrInvalidInput
		}
		recordCopy := *r
		s.data[driftKey(r.Timestamp, r.ColumnName)] = &recordCopy
	}
	return nil
}

// GetByTimestamp retrieves all rows for a day, ordered by column name.
func (s *ColumnDriftStore) GetByTimestamp(_ context.Context, ts time.Time) ([]*domain.ColumnDriftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ColumnDriftRecord
	for _, r := range s.data {
		if r.Timestamp.Equal(ts) {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ColumnName < result[j].ColumnName
	})
	return result, nil
}

// Count returns the total number of stored rows.
func (s *ColumnDriftStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
