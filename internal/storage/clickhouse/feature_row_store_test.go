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

func TestFeatureRowStore_InsertBulkAndGetByKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFeatureRowStore(conn)
	base := time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)

	rows := []*domain.FeatureRow{
		{
			Station:         "Alpha",
			RideableType:    "classic_bike",
			Time:            base,
			Stock:           10,
			Hour:            1.0,
			DayOfWeek:       1,
			IsRushHour:      0,
			Lag15mStock:     9,
			Lag30mStock:     9,
			Lag45mStock:     8,
			Lag60mStock:     8,
			TargetNextStock: 11,
			Date:            0.0027,
			Prediction:      ptr(10.0),
		},
		{
			Station:      "Alpha",
			RideableType: "classic_bike",
			Time:         base.Add(15 * time.Minute),
			Stock:        11,
			Hour:         1.25,
			DayOfWeek:    1,
		},
	}
	require.NoError(t, store.InsertBulk(ctx, rows))

	got, err := store.GetByKey(ctx, domain.SeriesKey{Station: "Alpha", RideableType: "classic_bike"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	first := got[0]
	assert.True(t, first.Time.Equal(base))
	assert.InDelta(t, 10.0, first.Stock, 0.0001)
	assert.Equal(t, 1, first.DayOfWeek)
	assert.InDelta(t, 9.0, first.Lag15mStock, 0.0001)
	assert.InDelta(t, 11.0, first.TargetNextStock, 0.0001)
	require.NotNil(t, first.Prediction)
	assert.InDelta(t, 10.0, *first.Prediction, 0.0001)
	assert.Nil(t, got[1].Prediction, "missing prediction must stay NULL")
}

func TestFeatureRowStore_DuplicateInBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFeatureRowStore(conn)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	rows := []*domain.FeatureRow{
		{Station: "Alpha", RideableType: "classic_bike", Time: base, Stock: 10},
		{Station: "Alpha", RideableType: "classic_bike", Time: base, Stock: 11},
	}
	err := store.InsertBulk(ctx, rows)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestFeatureRowStore_KeysAreIsolated(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewFeatureRowStore(conn)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	rows := []*domain.FeatureRow{
		{Station: "Alpha", RideableType: "classic_bike", Time: base, Stock: 10},
		{Station: "Alpha", RideableType: "electric_bike", Time: base, Stock: 5},
	}
	require.NoError(t, store.InsertBulk(ctx, rows))

	got, err := store.GetByKey(ctx, domain.SeriesKey{Station: "Alpha", RideableType: "electric_bike"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 5.0, got[0].Stock, 0.0001)
}
