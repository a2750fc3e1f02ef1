package services

import (
	"context"
	"testing"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(store *memory.Store) *ScheduleRegistry {
	drawService := NewDrawService(store.Games(), store.Employees(), store.Winners(), 40, 3)
	calculator := NewScheduleCalculator("UTC")
	return NewScheduleRegistry(store.Games(), drawService, calculator, "UTC")
}

func onceGame(slug string, runAt time.Time) *models.Game {
	return &models.Game{
		Slug:            slug,
		Cron:            models.RunOncePlaceholderCron,
		ScheduleType:    models.ScheduleOnce,
		SchedulePayload: &models.SchedulePayload{Mode: "once", RunAt: &runAt},
	}
}

func TestOneTimeDrawFiresAndMarksCompleted(t *testing.T) {
	ctx := context.Background()
	runAt := time.Now().Add(50 * time.Millisecond)
	game := onceGame("launch", runAt)
	store := newTestStore(t, game, "Alice")
	registry := newTestRegistry(store)
	defer registry.Stop()

	registry.Schedule(game)
	require.Equal(t, 1, registry.ActiveCount())

	require.Eventually(t, func() bool {
		winners, err := store.Winners().FindRecent(ctx, "launch", 0)
		return err == nil && len(winners) == 1
	}, 2*time.Second, 10*time.Millisecond)

	winners, err := store.Winners().FindRecent(ctx, "launch", 0)
	require.NoError(t, err)
	assert.Equal(t, models.TriggerScheduled, winners[0].Trigger)

	// The fired one-shot releases its handle and stamps completedAt.
	require.Eventually(t, func() bool {
		return registry.ActiveCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
	updated, err := store.Games().FindBySlug(ctx, "launch")
	require.NoError(t, err)
	require.NotNil(t, updated.SchedulePayload)
	assert.NotNil(t, updated.SchedulePayload.CompletedAt)

	// The completion stamp is written through the repository; the game
	// value handed to Schedule is left alone.
	assert.Nil(t, game.SchedulePayload.CompletedAt)
}

func TestRescheduleCancelsPreviousTimer(t *testing.T) {
	ctx := context.Background()
	game := onceGame("launch", time.Now().Add(50*time.Millisecond))
	store := newTestStore(t, game, "Alice")
	registry := newTestRegistry(store)
	defer registry.Stop()

	registry.Schedule(game)
	registry.Schedule(onceGame("launch", time.Now().Add(time.Hour)))
	require.Equal(t, 1, registry.ActiveCount())

	// The original 50ms timer must never fire.
	time.Sleep(300 * time.Millisecond)
	winners, err := store.Winners().FindRecent(ctx, "launch", 0)
	require.NoError(t, err)
	assert.Empty(t, winners)
	assert.Equal(t, 1, registry.ActiveCount())
}

func TestExpiredOneTimeDrawIsSkipped(t *testing.T) {
	game := onceGame("launch", time.Now().Add(-time.Hour))
	store := newTestStore(t, game, "Alice")
	registry := newTestRegistry(store)
	defer registry.Stop()

	registry.Schedule(game)
	assert.Equal(t, 0, registry.ActiveCount())
}

func TestScheduleRejectsUnparseableCron(t *testing.T) {
	game := &models.Game{Slug: "wheel", Cron: "not a cron"}
	store := newTestStore(t, game, "Alice")
	registry := newTestRegistry(store)
	defer registry.Stop()

	registry.Schedule(game)
	assert.Equal(t, 0, registry.ActiveCount())
}

func TestUnscheduleRemovesTimer(t *testing.T) {
	game := &models.Game{Slug: "wheel", Cron: "0 0 13 * * FRI"}
	store := newTestStore(t, game, "Alice")
	registry := newTestRegistry(store)
	defer registry.Stop()

	registry.Schedule(game)
	require.Equal(t, 1, registry.ActiveCount())

	registry.Unschedule("wheel")
	assert.Equal(t, 0, registry.ActiveCount())

	// Unscheduling an unknown slug is a no-op.
	registry.Unschedule("missing")
	assert.Equal(t, 0, registry.ActiveCount())
}

func TestScheduleAllRegistersEveryGame(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Games().Create(ctx, &models.Game{Slug: "weekly", Cron: "0 0 13 * * FRI"}))
	require.NoError(t, store.Games().Create(ctx, onceGame("launch", time.Now().Add(time.Hour))))
	registry := newTestRegistry(store)

	require.NoError(t, registry.ScheduleAll(ctx))
	assert.Equal(t, 2, registry.ActiveCount())

	registry.Stop()
	assert.Equal(t, 0, registry.ActiveCount())
}

func TestScheduledDrawSkipsEmptyRoster(t *testing.T) {
	ctx := context.Background()
	game := onceGame("launch", time.Now().Add(30*time.Millisecond))
	store := newTestStore(t, game)
	registry := newTestRegistry(store)
	defer registry.Stop()

	registry.Schedule(game)

	// The draw runs against an empty roster: no winner, no crash, and the
	// one-shot is still marked completed.
	require.Eventually(t, func() bool {
		updated, err := store.Games().FindBySlug(ctx, "launch")
		return err == nil && updated.SchedulePayload != nil && updated.SchedulePayload.CompletedAt != nil
	}, 2*time.Second, 10*time.Millisecond)
	winners, err := store.Winners().FindRecent(ctx, "launch", 0)
	require.NoError(t, err)
	assert.Empty(t, winners)
}
