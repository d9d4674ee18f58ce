package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-stock-lab/internal/domain"
)

func TestColumnDriftStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewColumnDriftStore(pool)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	records := []*domain.ColumnDriftRecord{
		{Timestamp: day, ColumnName: "stock", DriftScore: 0.30, IsDrift: true},
		{Timestamp: day, ColumnName: "hour", DriftScore: 0.02, IsDrift: false},
	}
	require.NoError(t, store.Upsert(ctx, records))

	got, err := store.GetByTimestamp(ctx, day)
	require.NoError(t, err)

	require.Len(t, got, 2)
	// Ordered by column name ASC.
	assert.Equal(t, "hour", got[0].ColumnName)
	assert.Equal(t, "stock", got[1].ColumnName)
	assert.InDelta(t, 0.30, got[1].DriftScore, 0.0001)
	assert.True(t, got[1].IsDrift)
}

func TestColumnDriftStore_RerunRefreshesRows(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewColumnDriftStore(pool)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	records := []*domain.ColumnDriftRecord{
		{Timestamp: day, ColumnName: "stock", DriftScore: 0.05, IsDrift: false},
	}
	require.NoError(t, store.Upsert(ctx, records))

	// Re-run the same day with a changed score.
	records[0].DriftScore = 0.50
	records[0].IsDrift = true
	require.NoError(t, store.Upsert(ctx, records))

	got, err := store.GetByTimestamp(ctx, day)
	require.NoError(t, err)

	require.Len(t, got, 1, "re-run must not duplicate rows")
	assert.InDelta(t, 0.50, got[0].DriftScore, 0.0001)
	assert.True(t, got[0].IsDrift)
}

func TestColumnDriftStore_EmptyDay(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewColumnDriftStore(pool)

	got, err := store.GetByTimestamp(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, got)
}
