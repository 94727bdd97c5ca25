package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

func itineraryDays(n int) []domain.ItineraryDay {
	days := make([]domain.ItineraryDay, 0, n)
	for i := 1; i <= n; i++ {
		date := time.Date(2026, 4, i, 0, 0, 0, 0, time.UTC)
		days = append(days, domain.ItineraryDay{Day: i, Date: &date})
	}
	return days
}

func TestItineraryRepo_InsertMissing_KeepsExistingRows(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	r := repo.NewItineraryRepo(tx)

	seeded := itineraryDays(3)
	require.NoError(t, r.InsertMissing(ctx, trip.ID, seeded))

	// User fills in day 2, then a later bootstrap runs again.
	got, err := r.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)

	got[1].City = "Kyoto"
	got[1].Activity = "Fushimi Inari"
	_, err = r.ReplaceAll(ctx, trip.ID, got)
	require.NoError(t, err)

	require.NoError(t, r.InsertMissing(ctx, trip.ID, itineraryDays(4)))

	after, err := r.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, after, 4, "bootstrap adds only the missing day")
	assert.Equal(t, "Kyoto", after[1].City, "existing rows are untouched")
	assert.Equal(t, "Fushimi Inari", after[1].Activity)
}

func TestItineraryRepo_ReplaceAll_PrunesMissingDays(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	r := repo.NewItineraryRepo(tx)

	require.NoError(t, r.InsertMissing(ctx, trip.ID, itineraryDays(5)))

	got, err := r.ReplaceAll(ctx, trip.ID, []domain.ItineraryDay{
		{Day: 1, City: "Tokyo"},
		{Day: 3, City: "Hakone"},
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Day)
	assert.Equal(t, "Tokyo", got[0].City)
	assert.Equal(t, 3, got[1].Day)
}

func TestItineraryRepo_ReplaceAll_EmptyClears(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	r := repo.NewItineraryRepo(tx)

	require.NoError(t, r.InsertMissing(ctx, trip.ID, itineraryDays(2)))

	got, err := r.ReplaceAll(ctx, trip.ID, nil)

	require.NoError(t, err)
	assert.Empty(t, got)
}
