package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suryaghar_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suryaghar_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	MilestonesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suryaghar_milestones_completed_total",
			Help: "Milestones marked completed, by milestone key",
		},
		[]string{"milestone"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suryaghar_customer_status_transitions_total",
			Help: "Customer status changes, by target status",
		},
		[]string{"status"},
	)

	CommissionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suryaghar_commissions_created_total",
			Help: "Commission rows generated on completion, by partner role",
		},
		[]string{"role"},
	)

	LeadScores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suryaghar_lead_scores_total",
			Help: "Lead scores computed, by source (ai or heuristic)",
		},
		[]string{"source"},
	)

	LLMRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "suryaghar_llm_request_duration_seconds",
			Help:    "Latency of lead-scoring model calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15},
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suryaghar_notifications_sent_total",
			Help: "Notification deliveries by channel and outcome",
		},
		[]string{"channel", "result"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suryaghar_cache_lookups_total",
			Help: "Dashboard cache lookups by result",
		},
		[]string{"result"},
	)

	SystemAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suryaghar_system_alerts_total",
			Help: "Alerts raised by the ops monitor, by type",
		},
		[]string{"type"},
	)
)
