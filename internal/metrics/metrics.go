// Package metrics holds the Prometheus collectors for the scheduling core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReminderSchedules counts ScheduleDaily calls.
	// Labels: category, exact (armed, degraded, not_requested)
	ReminderSchedules = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtrack",
			Subsystem: "reminders",
			Name:      "schedules_total",
			Help:      "Reminder schedule operations by category and exact-alarm outcome",
		},
		[]string{"category", "exact"},
	)

	// ReminderNotifications counts alarm deliveries handled by the receiver.
	// Labels: tag, outcome (posted, blocked, error)
	ReminderNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtrack",
			Subsystem: "reminders",
			Name:      "notifications_total",
			Help:      "Alarm firings handled by the reminder receiver",
		},
		[]string{"tag", "outcome"},
	)

	// AlarmsRegistered is the number of alarms currently armed.
	AlarmsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "moodtrack",
			Subsystem: "alarms",
			Name:      "registered",
			Help:      "Alarms currently registered with the alarm service",
		},
	)

	// AlarmsFired counts alarm deliveries. Labels: tag
	AlarmsFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtrack",
			Subsystem: "alarms",
			Name:      "fired_total",
			Help:      "Alarm deliveries by tag",
		},
		[]string{"tag"},
	)

	// JobRuns counts background job invocations. Labels: job, result
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtrack",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Periodic job invocations by result",
		},
		[]string{"job", "result"},
	)

	// JobsDeferred counts invocations skipped because constraints were unmet.
	JobsDeferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtrack",
			Subsystem: "jobs",
			Name:      "deferred_total",
			Help:      "Periodic job invocations deferred by unmet constraints",
		},
		[]string{"job", "constraint"},
	)

	// IngestRecords counts location fixes persisted.
	IngestRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "moodtrack",
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Location fixes appended to the ingest store",
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
