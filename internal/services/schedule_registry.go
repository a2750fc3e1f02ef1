package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/fortunewheel/wheel-backend/internal/metrics"
	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/fortunewheel/wheel-backend/internal/repositories"
	"github.com/robfig/cron/v3"
	"golang.org/x/exp/slog"
)

// timerHandle is the opaque handle owning one game's outstanding timer
type timerHandle struct {
	stop func()
}

// ScheduleRegistry owns at most one active timer per game. Every config
// mutation goes through Schedule, which cancels the old timer before
// registering the new one, so a stale timer can never fire against an old
// schedule. The registry is injected at the application root rather than
// held as a process-global, which is what allows clean teardown in tests.
type ScheduleRegistry struct {
	gameRepo        repositories.GameRepository
	drawService     *DrawService
	calculator      *ScheduleCalculator
	defaultTimezone string

	mu      sync.Mutex
	handles map[string]*timerHandle
}

// NewScheduleRegistry creates a new ScheduleRegistry
func NewScheduleRegistry(
	gameRepo repositories.GameRepository,
	drawService *DrawService,
	calculator *ScheduleCalculator,
	defaultTimezone string,
) *ScheduleRegistry {
	return &ScheduleRegistry{
		gameRepo:        gameRepo,
		drawService:     drawService,
		calculator:      calculator,
		defaultTimezone: defaultTimezone,
		handles:         make(map[string]*timerHandle),
	}
}

// Schedule (re)registers the timer for a game. Idempotent: any existing
// timer for the slug is cancelled first. Schedule never returns an error;
// unschedulable games are logged and left without a timer.
func (r *ScheduleRegistry) Schedule(game *models.Game) {
	if game == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked(game.Slug)

	if game.ScheduleTypeOrDefault() == models.ScheduleOnce {
		r.scheduleOnceLocked(game)
		return
	}
	r.scheduleRepeatLocked(game)
}

func (r *ScheduleRegistry) scheduleOnceLocked(game *models.Game) {
	runAt, ok := game.RunAt()
	if !ok {
		slog.Warn("Cannot schedule one-time draw: invalid or missing date", "slug", game.Slug)
		return
	}
	delay := time.Until(runAt)
	if delay <= 0 {
		// Expired schedules are skipped, never run late.
		slog.Warn("One-time draw is in the past; skipping auto schedule", "slug", game.Slug, "runAt", runAt)
		return
	}

	slug := game.Slug
	handle := &timerHandle{}
	r.handles[slug] = handle
	metrics.ActiveTimers.Inc()

	timer := time.AfterFunc(delay, func() {
		r.runScheduledDraw(slug)
		r.markCompleted(slug)
		r.release(slug, handle)
	})
	handle.stop = func() { timer.Stop() }
	slog.Info("Scheduled one-time draw", "slug", slug, "runAt", runAt)
}

func (r *ScheduleRegistry) scheduleRepeatLocked(game *models.Game) {
	timezone := game.Timezone
	if timezone == "" {
		timezone = r.defaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Error("Cannot schedule game: unknown timezone", "slug", game.Slug, "timezone", timezone, "error", err)
		return
	}

	slug := game.Slug
	runner := cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))
	if _, err := runner.AddFunc(game.Cron, func() { r.runScheduledDraw(slug) }); err != nil {
		slog.Error("Unable to parse cron", "slug", slug, "cron", game.Cron, "error", err)
		return
	}
	runner.Start()

	r.handles[slug] = &timerHandle{stop: func() { runner.Stop() }}
	metrics.ActiveTimers.Inc()
	slog.Info("Scheduled recurring draw", "slug", slug, "cron", game.Cron, "timezone", timezone)
}

// Unschedule cancels and removes a game's timer; no-op when none exists
func (r *ScheduleRegistry) Unschedule(slug string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked(slug)
}

// ScheduleAll registers timers for every persisted game. Called at process
// startup: schedules survive a restart by being rebuilt from config, not
// from any in-memory queue.
func (r *ScheduleRegistry) ScheduleAll(ctx context.Context) error {
	games, err := r.gameRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, game := range games {
		r.Schedule(game)
	}
	slog.Info("Registered game schedules", "games", len(games))
	return nil
}

// Stop cancels every outstanding timer
func (r *ScheduleRegistry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for slug := range r.handles {
		r.cancelLocked(slug)
	}
}

// ActiveCount reports how many games currently hold a timer
func (r *ScheduleRegistry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

func (r *ScheduleRegistry) cancelLocked(slug string) {
	handle, ok := r.handles[slug]
	if !ok {
		return
	}
	if handle.stop != nil {
		handle.stop()
	}
	delete(r.handles, slug)
	metrics.ActiveTimers.Dec()
}

// release drops a one-shot handle after it fired, unless a reschedule has
// already replaced it
func (r *ScheduleRegistry) release(slug string, handle *timerHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handles[slug] == handle {
		delete(r.handles, slug)
		metrics.ActiveTimers.Dec()
	}
}

// runScheduledDraw is the timer callback. Nothing may escape it: an empty
// roster is an expected, skippable condition and every other failure is
// logged without crashing the scheduler.
func (r *ScheduleRegistry) runScheduledDraw(slug string) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Panic in scheduled draw", "slug", slug, "panic", rec)
		}
	}()

	_, err := r.drawService.Draw(context.Background(), slug, models.TriggerScheduled)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNoEligibleEmployees):
		metrics.ScheduledSkipsTotal.Inc()
		slog.Warn("Skipping scheduled draw", "slug", slug, "reason", err)
	case errors.Is(err, apperrors.ErrGameNotFound):
		slog.Warn("Scheduled draw for unknown game", "slug", slug)
	default:
		slog.Error("Scheduled draw failed", "slug", slug, "error", err)
	}
}

// markCompleted stamps completedAt on a one-time game after its draw ran.
// The stamp is a targeted partial update, so a config change landing between
// the fire and the stamp is never overwritten with a stale document.
func (r *ScheduleRegistry) markCompleted(slug string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.gameRepo.SetScheduleCompleted(ctx, slug, time.Now().UTC()); err != nil {
		slog.Error("Failed to persist one-time draw completion", "slug", slug, "error", err)
	}
}
