package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-stock-lab/internal/domain"
)

func TestTripStore_CopyInAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTripStore(pool)

	events := []*domain.RawEvent{
		{
			RideID:       "A1",
			RideableType: "classic_bike",
			StartedAt:    "2024-01-01 08:00:00",
			EndedAt:      "2024-01-01 08:15:00",
			StartStation: "Alpha",
			EndStation:   "Beta",
			StartLat:     ptr(52.52),
			StartLng:     ptr(13.40),
			MemberCasual: "member",
		},
		{
			RideID:       "B2",
			RideableType: "electric_bike",
			StartedAt:    "2024-01-01 09:00:00",
			EndedAt:      "2024-01-01 09:05:00",
			StartStation: "Beta",
			EndStation:   "Alpha",
			MemberCasual: "casual",
		},
	}

	n, err := store.CopyIn(ctx, events)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := store.GetAll(ctx)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "A1", got[0].RideID)
	assert.Equal(t, "2024-01-01 08:00:00", got[0].StartedAt, "timestamps must stay raw text")
	require.NotNil(t, got[0].StartLat)
	assert.InDelta(t, 52.52, *got[0].StartLat, 0.0001)
	assert.Nil(t, got[1].StartLat, "missing coordinates must stay NULL")
}

func TestTripStore_CopyInEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTripStore(pool)

	n, err := store.CopyIn(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
