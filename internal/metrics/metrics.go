package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DrawsTotal counts draw executions by trigger and outcome
	DrawsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wheel_draws_total",
			Help: "Total number of draw executions",
		},
		[]string{"trigger", "status"}, // status: success or failure
	)

	// ScheduledSkipsTotal counts scheduled draws skipped for empty rosters
	ScheduledSkipsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wheel_scheduled_skips_total",
			Help: "Scheduled draws skipped because no employees were eligible",
		},
	)

	// ActiveTimers tracks the number of games with a live timer
	ActiveTimers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wheel_active_timers",
			Help: "Number of games with an active schedule timer",
		},
	)
)

// RecordDraw records one draw execution outcome
func RecordDraw(trigger string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	DrawsTotal.WithLabelValues(trigger, status).Inc()
}
