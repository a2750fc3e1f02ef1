package models

import (
	"testing"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulePayloadCronDerivation(t *testing.T) {
	tests := []struct {
		name    string
		payload *SchedulePayload
		want    string
		ok      bool
	}{
		{
			name:    "every minute",
			payload: &SchedulePayload{Mode: "repeat", Frequency: "minute"},
			want:    "*/1 * * * *",
			ok:      true,
		},
		{
			name:    "hourly at a minute",
			payload: &SchedulePayload{Mode: "repeat", Frequency: "hour", HourMinute: "7"},
			want:    "07 * * * *",
			ok:      true,
		},
		{
			name:    "daily at a time",
			payload: &SchedulePayload{Mode: "repeat", Frequency: "day", TimeOfDay: "14:30"},
			want:    "30 14 * * *",
			ok:      true,
		},
		{
			name:    "weekly defaults to Friday",
			payload: &SchedulePayload{Mode: "repeat", Frequency: "week", TimeOfDay: "13:00"},
			want:    "00 13 * * FRI",
			ok:      true,
		},
		{
			name:    "weekly on a named day",
			payload: &SchedulePayload{Mode: "repeat", Frequency: "week", TimeOfDay: "9:5", DayOfWeek: "tue"},
			want:    "05 09 * * TUE",
			ok:      true,
		},
		{
			name:    "daily without a time falls back to 13:00",
			payload: &SchedulePayload{Mode: "repeat", Frequency: "day"},
			want:    "00 13 * * *",
			ok:      true,
		},
		{
			name:    "once payloads derive nothing",
			payload: &SchedulePayload{Mode: "once"},
		},
		{
			name:    "unknown frequency derives nothing",
			payload: &SchedulePayload{Mode: "repeat", Frequency: "fortnight"},
		},
		{
			name: "nil payload derives nothing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.payload.Cron()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedulePayloadValidate(t *testing.T) {
	t.Run("nil payload is fine for repeat games", func(t *testing.T) {
		var payload *SchedulePayload
		assert.NoError(t, payload.Validate(ScheduleRepeat))
	})

	t.Run("one-time games need a runAt", func(t *testing.T) {
		var payload *SchedulePayload
		assert.True(t, apperrors.IsValidation(payload.Validate(ScheduleOnce)))
		assert.True(t, apperrors.IsValidation((&SchedulePayload{Mode: "once"}).Validate(ScheduleOnce)))

		runAt := time.Now()
		assert.NoError(t, (&SchedulePayload{Mode: "once", RunAt: &runAt}).Validate(ScheduleOnce))
	})

	t.Run("repeat payload field checks", func(t *testing.T) {
		assert.True(t, apperrors.IsValidation((&SchedulePayload{Frequency: "fortnight"}).Validate(ScheduleRepeat)))
		assert.True(t, apperrors.IsValidation((&SchedulePayload{DayOfWeek: "someday"}).Validate(ScheduleRepeat)))
		assert.NoError(t, (&SchedulePayload{Frequency: "week", DayOfWeek: "fri"}).Validate(ScheduleRepeat))
	})
}

func TestGameGiftList(t *testing.T) {
	assert.Nil(t, (&Game{}).GiftList())
	assert.Equal(t, []string{"Mug", "T-Shirt"}, (&Game{Gifts: " Mug , T-Shirt ,"}).GiftList())
}

func TestGameScheduleTypeOrDefault(t *testing.T) {
	assert.Equal(t, ScheduleRepeat, (&Game{}).ScheduleTypeOrDefault())
	assert.Equal(t, ScheduleRepeat, (&Game{ScheduleType: "weird"}).ScheduleTypeOrDefault())
	assert.Equal(t, ScheduleOnce, (&Game{ScheduleType: ScheduleOnce}).ScheduleTypeOrDefault())
}

func TestGameRunAt(t *testing.T) {
	_, ok := (&Game{}).RunAt()
	assert.False(t, ok)

	at := time.Date(2026, 3, 6, 13, 0, 0, 0, time.UTC)
	game := &Game{SchedulePayload: &SchedulePayload{Mode: "once", RunAt: &at}}
	got, ok := game.RunAt()
	require.True(t, ok)
	assert.True(t, got.Equal(at))
}
