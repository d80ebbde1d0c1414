package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "laine"

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Webhook events received, by message type
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_webhook_events_total",
			Help: "Total number of voice platform webhook events received",
		},
		[]string{"type"},
	)

	// Usage reports, by ingest outcome
	UsageReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_usage_reports_total",
			Help: "Total number of end-of-call reports by outcome",
		},
		[]string{"outcome"},
	)

	UsageMinutesTracked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_usage_minutes_tracked_total",
			Help: "Total billable minutes reported to the billing provider",
		},
	)

	// Auth failures, by reason
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_failures_total",
			Help: "Total number of rejected sessions",
		},
		[]string{"reason"},
	)
)

// RecordWebhookEvent increments the webhook counter for a message type
func RecordWebhookEvent(messageType string) {
	if messageType == "" {
		messageType = "unknown"
	}
	WebhookEventsTotal.WithLabelValues(messageType).Inc()
}

// RecordUsageOutcome increments the usage counter for an outcome
func RecordUsageOutcome(outcome string) {
	UsageReportsTotal.WithLabelValues(outcome).Inc()
}

// RecordMinutesTracked adds successfully reported minutes
func RecordMinutesTracked(minutes int64) {
	UsageMinutesTracked.Add(float64(minutes))
}

// RecordAuthFailure increments the auth failure counter
func RecordAuthFailure(reason string) {
	AuthFailuresTotal.WithLabelValues(reason).Inc()
}
