package services

import (
	"fmt"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/fortunewheel/wheel-backend/internal/models"
	"github.com/robfig/cron/v3"
)

// cronParser accepts the 5-field standard format and the 6-field variant
// with a leading seconds column (the default draw cron uses six fields).
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ScheduleCalculator converts a game's schedule descriptor into its next
// fire time. It is a pure function of (game, now): no timers, no process
// state, which is what keeps schedule derivation testable without waiting
// on a wall clock.
type ScheduleCalculator struct {
	defaultTimezone string
}

// NewScheduleCalculator creates a new ScheduleCalculator
func NewScheduleCalculator(defaultTimezone string) *ScheduleCalculator {
	return &ScheduleCalculator{defaultTimezone: defaultTimezone}
}

// NextFireTime returns the next instant strictly after now at which the game
// should fire. The zero time with a nil error means the game has no upcoming
// fire (an expired or absent one-shot). A non-nil error always wraps
// apperrors.ErrScheduleParse; callers log it and no-op rather than throwing
// it further.
func (c *ScheduleCalculator) NextFireTime(game *models.Game, now time.Time) (time.Time, error) {
	if game.ScheduleTypeOrDefault() == models.ScheduleOnce {
		runAt, ok := game.RunAt()
		if !ok {
			return time.Time{}, fmt.Errorf("%w: one-time game %q has no runAt", apperrors.ErrScheduleParse, game.Slug)
		}
		if !runAt.After(now) {
			// Expired one-shots never fire late.
			return time.Time{}, nil
		}
		return runAt, nil
	}

	loc, err := c.location(game.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timezone %q: %v", apperrors.ErrScheduleParse, game.Timezone, err)
	}
	schedule, err := cronParser.Parse(game.Cron)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad cron %q: %v", apperrors.ErrScheduleParse, game.Cron, err)
	}
	return schedule.Next(now.In(loc)), nil
}

func (c *ScheduleCalculator) location(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = c.defaultTimezone
	}
	return time.LoadLocation(timezone)
}
