package memory

import (
	"context"
	"testing"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onceGame(slug string, runAt time.Time) *models.Game {
	return &models.Game{
		Slug:            slug,
		Cron:            models.RunOncePlaceholderCron,
		ScheduleType:    models.ScheduleOnce,
		SchedulePayload: &models.SchedulePayload{Mode: "once", RunAt: &runAt},
	}
}

func TestGameCopiesDoNotShareSchedulePayload(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	game := onceGame("launch", time.Now().Add(time.Hour))
	require.NoError(t, store.Games().Create(ctx, game))

	// Mutating a fetched copy's payload must not leak into the stored
	// document or into other copies.
	fetched, err := store.Games().FindBySlug(ctx, "launch")
	require.NoError(t, err)
	now := time.Now()
	fetched.SchedulePayload.CompletedAt = &now

	again, err := store.Games().FindBySlug(ctx, "launch")
	require.NoError(t, err)
	assert.Nil(t, again.SchedulePayload.CompletedAt)

	// Same for the caller's struct after Create: the store holds its own
	// payload copy.
	game.SchedulePayload.CompletedAt = &now
	again, err = store.Games().FindBySlug(ctx, "launch")
	require.NoError(t, err)
	assert.Nil(t, again.SchedulePayload.CompletedAt)

	all, err := store.Games().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Nil(t, all[0].SchedulePayload.CompletedAt)
}

func TestSetScheduleCompleted(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	game := onceGame("launch", time.Now().Add(time.Hour))
	require.NoError(t, store.Games().Create(ctx, game))

	// A config edit landing before the completion stamp survives it: the
	// stamp only touches the payload's completedAt.
	patched, err := store.Games().FindBySlug(ctx, "launch")
	require.NoError(t, err)
	patched.Gifts = "Mug,Hat"
	require.NoError(t, store.Games().Update(ctx, patched))

	completedAt := time.Now().UTC()
	require.NoError(t, store.Games().SetScheduleCompleted(ctx, "launch", completedAt))

	after, err := store.Games().FindBySlug(ctx, "launch")
	require.NoError(t, err)
	assert.Equal(t, "Mug,Hat", after.Gifts)
	require.NotNil(t, after.SchedulePayload)
	require.NotNil(t, after.SchedulePayload.CompletedAt)
	assert.True(t, after.SchedulePayload.CompletedAt.Equal(completedAt))
	require.NotNil(t, after.SchedulePayload.RunAt)

	assert.ErrorIs(t, store.Games().SetScheduleCompleted(ctx, "missing", completedAt), apperrors.ErrGameNotFound)
}

func TestBulkUpdateGiftsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Winners().Insert(ctx, &models.Winner{ID: "w1", GameSlug: "wheel", Seq: 1}))
	require.NoError(t, store.Winners().Insert(ctx, &models.Winner{ID: "w2", GameSlug: "wheel", Seq: 2}))

	// One bad reference fails the batch before any gift is touched, even
	// when it comes after valid updates.
	err := store.Winners().BulkUpdateGifts(ctx, "wheel", []repositories.GiftUpdate{
		{WinnerID: "w1", Gift: "Trophy"},
		{WinnerID: "gone", Gift: "Trophy"},
	})
	require.ErrorIs(t, err, apperrors.ErrWinnerNotFound)
	winner, err := store.Winners().FindByID(ctx, "w1")
	require.NoError(t, err)
	assert.Empty(t, winner.Gift)

	require.NoError(t, store.Winners().BulkUpdateGifts(ctx, "wheel", []repositories.GiftUpdate{
		{WinnerID: "w1", Gift: "Trophy"},
		{WinnerID: "w2", Gift: "Medal"},
	}))
	winner, err = store.Winners().FindByID(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, "Medal", winner.Gift)
}
