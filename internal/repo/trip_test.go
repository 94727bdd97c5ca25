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

func TestTripRepo_Create_WithCities(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	r := repo.NewTripRepo(tx)

	lat, lon := 35.6762, 139.6503
	input := domain.Trip{
		OwnerID:      owner.ID,
		Name:         "Japan 2026",
		StartDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		DurationDays: 10,
		Travelers:    2,
		Description:  "Cherry blossom season",
		Cities: []domain.TripCity{
			{Name: "Tokyo", Country: "Japan", Lat: &lat, Lon: &lon},
			{Name: "Kyoto", Country: "Japan"},
		},
	}

	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated")
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Equal(t, input.Name, got.Name)
	assert.True(t, got.StartDate.Equal(input.StartDate), "StartDate mismatch")
	assert.Equal(t, 10, got.DurationDays)
	assert.Equal(t, 2, got.Travelers)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")

	// Cities come back ordered by name.
	require.Len(t, got.Cities, 2)
	assert.Equal(t, "Kyoto", got.Cities[0].Name)
	assert.Nil(t, got.Cities[0].Lat, "hand-entered city has no coordinates")
	assert.Equal(t, "Tokyo", got.Cities[1].Name)
	require.NotNil(t, got.Cities[1].Lat)
	assert.InDelta(t, lat, *got.Cities[1].Lat, 1e-6)
	assert.Equal(t, got.ID, got.Cities[1].TripID)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ListByOwner_Pagination(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	other := seedUser(t, tx)
	r := repo.NewTripRepo(tx)

	for i := 0; i < 3; i++ {
		seedTrip(t, tx, owner.ID)
	}
	seedTrip(t, tx, other.ID) // must not appear in owner's list

	page1, total, err := r.ListByOwner(ctx, owner.ID, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page1, 2)

	page2, total, err := r.ListByOwner(ctx, owner.ID, domain.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page2, 1)

	for _, trip := range append(page1, page2...) {
		assert.Equal(t, owner.ID, trip.OwnerID)
	}
}

func TestTripRepo_Update_ReplacesCities(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	r := repo.NewTripRepo(tx)

	created, err := r.Create(ctx, domain.Trip{
		OwnerID:      owner.ID,
		Name:         "Japan 2026",
		StartDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		DurationDays: 10,
		Travelers:    2,
		Cities:       []domain.TripCity{{Name: "Tokyo", Country: "Japan"}},
	})
	require.NoError(t, err)

	created.Name = "Japan Spring 2026"
	created.Travelers = 3
	created.Cities = []domain.TripCity{
		{Name: "Osaka", Country: "Japan"},
		{Name: "Nara", Country: "Japan"},
	}

	got, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Japan Spring 2026", got.Name)
	assert.Equal(t, 3, got.Travelers)
	require.Len(t, got.Cities, 2)
	assert.Equal(t, "Nara", got.Cities[0].Name)
	assert.Equal(t, "Osaka", got.Cities[1].Name)
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)

	missing := domain.Trip{
		ID:        uuid.New(),
		Name:      "Ghost",
		StartDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	}

	_, err := r.Update(context.Background(), missing)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete_CascadesChildren(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)

	budgets := repo.NewBudgetRepo(tx)
	require.NoError(t, budgets.InsertMissing(ctx, trip.ID, []string{"Flights"}))

	tripRepo := repo.NewTripRepo(tx)
	require.NoError(t, tripRepo.Delete(ctx, trip.ID))

	_, err := tripRepo.GetByID(ctx, trip.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	left, err := budgets.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, left, "budget rows should be deleted with the trip")
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
