package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

// seedReservation inserts a single reservation for the trip and returns it.
func seedReservation(t *testing.T, tx pgx.Tx, tripID uuid.UUID, resType string) domain.Reservation {
	t.Helper()
	got, err := repo.NewReservationRepo(tx).CreateMany(context.Background(), []domain.Reservation{
		reservationFixture(tripID, resType),
	})
	require.NoError(t, err, "seed reservation")
	return got[0]
}

func TestReminderRepo_CreateAndGet(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	res := seedReservation(t, tx, trip.ID, "Hotel 1")
	r := repo.NewReminderRepo(tx)

	sendAt := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	created, err := r.Create(ctx, domain.Reminder{
		ReservationID: res.ID,
		Email:         "ana@example.com",
		SendAt:        sendAt,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.Sent, "new reminders start unsent")
	assert.True(t, created.SendAt.Equal(sendAt))

	got, err := r.GetByReservationID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = r.GetByReservationID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReminderRepo_UpdateSchedule_Rearm(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	res := seedReservation(t, tx, trip.ID, "Flight 1")
	r := repo.NewReminderRepo(tx)

	created, err := r.Create(ctx, domain.Reminder{
		ReservationID: res.ID,
		Email:         "ana@example.com",
		SendAt:        time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	claimed, err := r.ClaimDue(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	// Move the deadline without re-arming: the sent flag must survive.
	later := time.Now().Add(48 * time.Hour)
	require.NoError(t, r.UpdateSchedule(ctx, created.ID, "bea@example.com", later, false))

	got, err := r.GetByReservationID(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, got.Sent, "sent flag preserved when rearm is off")
	assert.Equal(t, "bea@example.com", got.Email)

	// Re-arm resets sent so the next sweep fires again.
	require.NoError(t, r.UpdateSchedule(ctx, created.ID, "bea@example.com", later, true))

	got, err = r.GetByReservationID(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, got.Sent)
}

func TestReminderRepo_UpdateSchedule_NotFound(t *testing.T) {
	tx := testTx(t)
	r := repo.NewReminderRepo(tx)

	err := r.UpdateSchedule(context.Background(), uuid.New(), "x@example.com", time.Now(), false)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReminderRepo_DeleteByReservationID_ZeroRowsOK(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	res := seedReservation(t, tx, trip.ID, "Visa")
	r := repo.NewReminderRepo(tx)

	_, err := r.Create(ctx, domain.Reminder{
		ReservationID: res.ID,
		Email:         "ana@example.com",
		SendAt:        time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, r.DeleteByReservationID(ctx, res.ID))

	_, err = r.GetByReservationID(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is a no-op, not an error.
	assert.NoError(t, r.DeleteByReservationID(ctx, res.ID))
}

func TestReminderRepo_ClaimDue(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	hotel := seedReservation(t, tx, trip.ID, "Hotel 1")
	flight := seedReservation(t, tx, trip.ID, "Flight 1")
	r := repo.NewReminderRepo(tx)

	now := time.Now()

	due, err := r.Create(ctx, domain.Reminder{ReservationID: hotel.ID, Email: "ana@example.com", SendAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = r.Create(ctx, domain.Reminder{ReservationID: flight.ID, Email: "ana@example.com", SendAt: now.Add(time.Hour)})
	require.NoError(t, err)

	claimed, err := r.ClaimDue(ctx, now, 10)

	require.NoError(t, err)
	require.Len(t, claimed, 1, "only the past-due reminder is claimed")
	assert.Equal(t, due.ID, claimed[0].ID)
	assert.Equal(t, "Hotel 1", claimed[0].ReservationType)
	assert.True(t, claimed[0].Sent, "claiming marks the row sent")

	// A second sweep finds nothing: the claim already flipped sent.
	again, err := r.ClaimDue(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestReminderRepo_ResetSent(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	res := seedReservation(t, tx, trip.ID, "Activity 1")
	r := repo.NewReminderRepo(tx)

	created, err := r.Create(ctx, domain.Reminder{ReservationID: res.ID, Email: "ana@example.com", SendAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)

	claimed, err := r.ClaimDue(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, r.ResetSent(ctx, created.ID))

	retried, err := r.ClaimDue(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, retried, 1, "reset reminder is claimable again")
	assert.Equal(t, created.ID, retried[0].ID)
}
