package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
)

func TestChecklistRepo_CreateMany(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	r := repo.NewChecklistRepo(tx)

	got, err := r.CreateMany(ctx, trip.ID, domain.DefaultChecklist)

	require.NoError(t, err)
	require.Len(t, got, len(domain.DefaultChecklist))
	for i, item := range got {
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, trip.ID, item.TripID)
		assert.Equal(t, domain.DefaultChecklist[i].Task, item.Task)
		assert.False(t, item.Done)
	}
}

func TestChecklistRepo_ReplaceAll(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	r := repo.NewChecklistRepo(tx)

	_, err := r.CreateMany(ctx, trip.ID, domain.DefaultChecklist)
	require.NoError(t, err)

	got, err := r.ReplaceAll(ctx, trip.ID, []domain.ChecklistItem{
		{Category: "Documents", Task: "Passport", Done: true},
		{Category: "Gear", Task: "Hiking boots", Notes: "break in first"},
	})

	require.NoError(t, err)
	require.Len(t, got, 2, "replace is the complete desired state")
	assert.Equal(t, "Passport", got[0].Task)
	assert.True(t, got[0].Done)
	assert.Equal(t, "break in first", got[1].Notes)

	persisted, err := r.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestChecklistRepo_ReplaceAll_EmptyClears(t *testing.T) {
	tx := testTx(t)
	ctx := context.Background()
	owner := seedUser(t, tx)
	trip := seedTrip(t, tx, owner.ID)
	r := repo.NewChecklistRepo(tx)

	_, err := r.CreateMany(ctx, trip.ID, domain.DefaultChecklist)
	require.NoError(t, err)

	got, err := r.ReplaceAll(ctx, trip.ID, nil)

	require.NoError(t, err)
	assert.Empty(t, got)

	persisted, err := r.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}
