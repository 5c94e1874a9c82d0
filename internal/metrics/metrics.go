package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Messaging metrics
var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "messaging",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketplace",
			Subsystem: "messaging",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "route"},
	)

	// Conversation resolution, outcome is created, existing or error
	ConversationsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "messaging",
			Name:      "conversations_resolved_total",
			Help:      "Conversation resolutions by context kind and outcome",
		},
		[]string{"context", "outcome"},
	)

	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "messaging",
			Name:      "messages_sent_total",
			Help:      "Messages delivered by kind",
		},
		[]string{"kind"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "messaging",
			Name:      "notifications_created_total",
			Help:      "Notifications created by kind",
		},
		[]string{"kind"},
	)

	NotificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "messaging",
			Name:      "notification_failures_total",
			Help:      "Notifications that could not be stored",
		},
		[]string{"kind"},
	)

	NotificationsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "messaging",
			Name:      "notifications_cleaned_total",
			Help:      "Notifications removed by retention cleanup",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

func RecordResolve(context, outcome string) {
	ConversationsResolved.WithLabelValues(context, outcome).Inc()
}

func RecordMessage(kind string) {
	MessagesSent.WithLabelValues(kind).Inc()
}

func RecordNotification(kind string, err error) {
	if err != nil {
		NotificationFailures.WithLabelValues(kind).Inc()
		return
	}
	NotificationsCreated.WithLabelValues(kind).Inc()
}

func RecordCleanup(deleted int64) {
	NotificationsCleaned.Add(float64(deleted))
}
