package models

import (
	"strings"
	"time"
)

// ScheduleType distinguishes recurring cron games from one-shot games
type ScheduleType string

const (
	ScheduleRepeat ScheduleType = "repeat"
	ScheduleOnce   ScheduleType = "once"
)

// RunOncePlaceholderCron is stored on one-time games so the cron column is
// never empty; it is a placeholder and never interpreted as a schedule.
const RunOncePlaceholderCron = "0 0 * * *"

// Game represents an independently scheduled drawing context identified by a slug
type Game struct {
	Slug               string           `bson:"_id" json:"slug"`
	Name               string           `bson:"name" json:"name"`
	Cron               string           `bson:"cron" json:"cron"`
	Timezone           string           `bson:"timezone" json:"timezone"`
	AllowRepeatWinners bool             `bson:"allowRepeatWinners" json:"allowRepeatWinners"`
	Gifts              string           `bson:"gifts" json:"gifts"` // comma-separated, rotated by draw sequence
	ScheduleType       ScheduleType     `bson:"scheduleType" json:"scheduleType"`
	SchedulePayload    *SchedulePayload `bson:"schedulePayload,omitempty" json:"schedulePayload,omitempty"`
	CreatedAt          time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// ScheduleTypeOrDefault treats legacy games without a schedule type as repeat
func (g *Game) ScheduleTypeOrDefault() ScheduleType {
	if g.ScheduleType == ScheduleOnce {
		return ScheduleOnce
	}
	return ScheduleRepeat
}

// GiftList parses the comma-separated gift field, dropping empty entries
func (g *Game) GiftList() []string {
	if g.Gifts == "" {
		return nil
	}
	var gifts []string
	for _, part := range strings.Split(g.Gifts, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			gifts = append(gifts, trimmed)
		}
	}
	return gifts
}

// RunAt returns the one-shot fire instant, if the game carries one
func (g *Game) RunAt() (time.Time, bool) {
	if g.SchedulePayload == nil || g.SchedulePayload.RunAt == nil {
		return time.Time{}, false
	}
	return *g.SchedulePayload.RunAt, true
}
