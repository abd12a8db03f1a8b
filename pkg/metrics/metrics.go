package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentflow_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// ReminderRuns counts reminder batch executions and their outcome (success|error|skipped).
	ReminderRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentflow_reminder_runs_total",
			Help: "Total number of reminder batch runs",
		},
		[]string{"result"},
	)

	// NotificationsCreated counts notifications persisted by type.
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentflow_notifications_created_total",
			Help: "Total number of notifications created",
		},
		[]string{"type"},
	)

	// OverdueTransitions counts invoices moved from pending to overdue.
	OverdueTransitions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rentflow_invoice_overdue_transitions_total",
			Help: "Total number of invoices marked overdue by the reminder job",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rentflow_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
