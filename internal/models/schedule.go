package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
)

// SchedulePayload is the schedule descriptor persisted alongside the derived
// cron string. Exactly one of the two shapes is populated depending on Mode:
// repeat payloads carry Frequency and its time fields, once payloads carry
// RunAt plus the CompletedAt marker set after the timer fires.
type SchedulePayload struct {
	Mode        string     `bson:"mode" json:"mode"`
	Frequency   string     `bson:"frequency,omitempty" json:"frequency,omitempty"` // minute, hour, day or week
	TimeOfDay   string     `bson:"timeOfDay,omitempty" json:"timeOfDay,omitempty"` // "HH:MM" for day/week
	HourMinute  string     `bson:"hourMinute,omitempty" json:"hourMinute,omitempty"`
	DayOfWeek   string     `bson:"dayOfWeek,omitempty" json:"dayOfWeek,omitempty"` // SUN..SAT
	RunAt       *time.Time `bson:"runAt,omitempty" json:"runAt,omitempty"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

var validFrequencies = map[string]bool{
	"minute": true,
	"hour":   true,
	"day":    true,
	"week":   true,
}

var validDaysOfWeek = map[string]bool{
	"SUN": true, "MON": true, "TUE": true, "WED": true,
	"THU": true, "FRI": true, "SAT": true,
}

// Validate checks the payload against the game's schedule type
func (p *SchedulePayload) Validate(scheduleType ScheduleType) error {
	if p == nil {
		if scheduleType == ScheduleOnce {
			return apperrors.NewValidation("a one-time schedule requires a runAt date and time")
		}
		return nil
	}
	switch scheduleType {
	case ScheduleOnce:
		if p.RunAt == nil {
			return apperrors.NewValidation("a one-time schedule requires a runAt date and time")
		}
	case ScheduleRepeat:
		if p.Frequency != "" && !validFrequencies[p.Frequency] {
			return apperrors.NewValidation("unknown frequency %q", p.Frequency)
		}
		if p.DayOfWeek != "" && !validDaysOfWeek[strings.ToUpper(p.DayOfWeek)] {
			return apperrors.NewValidation("unknown day of week %q", p.DayOfWeek)
		}
	}
	return nil
}

// Cron derives the cron expression for a repeat payload, mirroring the
// frequency presets the admin UI offers. Returns false when the payload does
// not describe a repeat schedule.
func (p *SchedulePayload) Cron() (string, bool) {
	if p == nil || p.Mode == string(ScheduleOnce) {
		return "", false
	}
	switch p.Frequency {
	case "minute":
		return "*/1 * * * *", true
	case "hour":
		return fmt.Sprintf("%s * * * *", padTime(p.HourMinute)), true
	case "day":
		hour, minute := splitTimeOfDay(p.TimeOfDay)
		return fmt.Sprintf("%s %s * * *", minute, hour), true
	case "week":
		hour, minute := splitTimeOfDay(p.TimeOfDay)
		day := strings.ToUpper(p.DayOfWeek)
		if day == "" {
			day = "FRI"
		}
		return fmt.Sprintf("%s %s * * %s", minute, hour, day), true
	}
	return "", false
}

func splitTimeOfDay(timeOfDay string) (hour, minute string) {
	hour, minute = "13", "00"
	parts := strings.SplitN(timeOfDay, ":", 2)
	if len(parts) == 2 {
		hour, minute = padTime(parts[0]), padTime(parts[1])
	}
	return hour, minute
}

func padTime(value string) string {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		n = 0
	}
	return fmt.Sprintf("%02d", n)
}
