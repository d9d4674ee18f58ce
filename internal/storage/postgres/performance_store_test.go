package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

func TestModelPerformanceStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewModelPerformanceStore(pool)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	record := &domain.ModelPerformanceRecord{
		Timestamp:   day,
		RMSE:        1.5,
		MAE:         1.1,
		AbsErrorMax: 4.0,
	}
	require.NoError(t, store.Upsert(ctx, record))

	got, err := store.GetByTimestamp(ctx, day)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got.RMSE, 0.0001)
	assert.InDelta(t, 1.1, got.MAE, 0.0001)
	assert.InDelta(t, 4.0, got.AbsErrorMax, 0.0001)
}

func TestModelPerformanceStore_RerunRefreshesRow(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewModelPerformanceStore(pool)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	record := &domain.ModelPerformanceRecord{Timestamp: day, RMSE: 1.5, MAE: 1.1, AbsErrorMax: 4.0}
	require.NoError(t, store.Upsert(ctx, record))

	record.RMSE = 2.0
	require.NoError(t, store.Upsert(ctx, record))

	got, err := store.GetByTimestamp(ctx, day)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got.RMSE, 0.0001)
}

func TestModelPerformanceStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewModelPerformanceStore(pool)

	_, err := store.GetByTimestamp(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
