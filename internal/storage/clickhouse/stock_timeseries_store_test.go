package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-stock-lab/internal/domain"
	"bike-stock-lab/internal/storage"
)

func TestStockTimeseriesStore_InsertBulkAndGetByKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStockTimeseriesStore(conn)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	points := []*domain.StockPoint{
		{Station: "Alpha", RideableType: "classic_bike", Time: base.Add(15 * time.Minute), Stock: 11},
		{Station: "Alpha", RideableType: "classic_bike", Time: base, Stock: 10},
		{Station: "Beta", RideableType: "classic_bike", Time: base, Stock: 7},
	}
	require.NoError(t, store.InsertBulk(ctx, points))

	got, err := store.GetByKey(ctx, domain.SeriesKey{Station: "Alpha", RideableType: "classic_bike"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	// Ordered by time ASC regardless of insertion order.
	assert.True(t, got[0].Time.Equal(base))
	assert.InDelta(t, 10.0, got[0].Stock, 0.0001)
	assert.InDelta(t, 11.0, got[1].Stock, 0.0001)
}

func TestStockTimeseriesStore_DuplicateInBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStockTimeseriesStore(conn)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	points := []*domain.StockPoint{
		{Station: "Alpha", RideableType: "classic_bike", Time: base, Stock: 10},
		{Station: "Alpha", RideableType: "classic_bike", Time: base, Stock: 11},
	}
	err := store.InsertBulk(ctx, points)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestStockTimeseriesStore_DuplicateAgainstExisting(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStockTimeseriesStore(conn)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	first := []*domain.StockPoint{
		{Station: "Alpha", RideableType: "classic_bike", Time: base, Stock: 10},
	}
	require.NoError(t, store.InsertBulk(ctx, first))

	second := []*domain.StockPoint{
		{Station: "Alpha", RideableType: "classic_bike", Time: base, Stock: 12},
	}
	err := store.InsertBulk(ctx, second)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestStockTimeseriesStore_EmptyBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStockTimeseriesStore(conn)
	require.NoError(t, store.InsertBulk(context.Background(), nil))
}
