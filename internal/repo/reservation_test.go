package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

func reservationFixture(tripID uuid.UUID, resType string) domain.Reservation {
	return domain.Reservation{
		TripID:      tripID,
		Type:        resType,
		BookingDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestReservationRepo_CreateMany(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	r := repo.NewReservationRepo(tx)

	got, err := r.CreateMany(ctx, []domain.Reservation{
		reservationFixture(trip.ID, "Flight 1"),
		reservationFixture(trip.ID, "Hotel 1"),
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, res := range got {
		assert.NotEqual(t, uuid.Nil, res.ID)
		assert.Equal(t, trip.ID, res.TripID)
		assert.False(t, res.Confirmed)
	}
	assert.Equal(t, "Flight 1", got[0].Type)
	assert.Equal(t, "Hotel 1", got[1].Type)
}

func TestReservationRepo_UpsertPrune(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	r := repo.NewReservationRepo(tx)

	seeded, err := r.CreateMany(ctx, []domain.Reservation{
		reservationFixture(trip.ID, "Flight 1"),
		reservationFixture(trip.ID, "Hotel 1"),
		reservationFixture(trip.ID, "Visa"),
	})
	require.NoError(t, err)

	// Keep the flight (updated), drop the hotel and visa, add an activity.
	flight := seeded[0]
	flight.Provider = "ANA"
	flight.Amount = 820.50
	flight.Confirmed = true

	got, err := r.UpsertPrune(ctx, trip.ID, []domain.Reservation{
		flight,
		reservationFixture(trip.ID, "Activity 1"),
	})

	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, seeded[0].ID, got[0].ID, "existing row keeps its ID")
	assert.Equal(t, "ANA", got[0].Provider)
	assert.InDelta(t, 820.50, got[0].Amount, 1e-9)
	assert.True(t, got[0].Confirmed)

	assert.NotEqual(t, uuid.Nil, got[1].ID)
	assert.Equal(t, "Activity 1", got[1].Type)

	all, err := r.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2, "pruned rows are gone")
}

func TestReservationRepo_UpsertPrune_ForeignIDTreatedAsNew(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	otherTrip := seedTrip(t, tx, owner.ID)
	r := repo.NewReservationRepo(tx)

	foreign, err := r.CreateMany(ctx, []domain.Reservation{reservationFixture(otherTrip.ID, "Hotel 1")})
	require.NoError(t, err)

	hijack := foreign[0]
	hijack.TripID = trip.ID

	got, err := r.UpsertPrune(ctx, trip.ID, []domain.Reservation{hijack})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEqual(t, foreign[0].ID, got[0].ID, "foreign ID cannot be claimed, row is inserted fresh")
	assert.Equal(t, trip.ID, got[0].TripID)

	untouched, err := r.ListByTripID(ctx, otherTrip.ID)
	require.NoError(t, err)
	assert.Len(t, untouched, 1, "the other trip's reservation is untouched")
}
