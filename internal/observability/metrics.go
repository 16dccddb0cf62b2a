package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce               sync.Once
	requestsTotal              *prometheus.CounterVec
	latencySeconds             *prometheus.HistogramVec
	errorsTotal                *prometheus.CounterVec
	interactionsTotal          *prometheus.CounterVec
	notificationsPublished     *prometheus.CounterVec
	messageStreamClientsActive prometheus.Gauge
	notificationStreamClients  prometheus.Gauge
	uploadRejected             *prometheus.CounterVec
	uploadLatency              prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumlink_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "alumlink_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumlink_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		interactionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumlink_interactions_total",
			Help: "Total number of social interactions recorded (likes, RSVPs, votes).",
		}, []string{"kind", "outcome"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumlink_notifications_published_total",
			Help: "Total number of notifications published, by type.",
		}, []string{"type"})

		messageStreamClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alumlink_message_stream_clients_active",
			Help: "Number of websocket clients attached to direct-message threads.",
		})

		notificationStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alumlink_notification_stream_clients_active",
			Help: "Number of subscribers attached to the notification stream.",
		})

		uploadRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumlink_upload_rejected_total",
			Help: "Total number of uploads rejected, by reason.",
		}, []string{"reason"})

		uploadLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "alumlink_upload_latency_seconds",
			Help:    "Latency distribution for upload processing.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			errorsTotal,
			interactionsTotal,
			notificationsPublished,
			messageStreamClientsActive,
			notificationStreamClients,
			uploadRejected,
			uploadLatency,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// Interactions exposes the counter for recorded social interactions.
func Interactions() *prometheus.CounterVec {
	RegisterMetrics()
	return interactionsTotal
}

// NotificationsPublishedTotal exposes the published-notification counter.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// MessageStreamClients exposes the websocket client gauge.
func MessageStreamClients() prometheus.Gauge {
	RegisterMetrics()
	return messageStreamClientsActive
}

// NotificationStreamClients exposes the notification subscriber gauge.
func NotificationStreamClients() prometheus.Gauge {
	RegisterMetrics()
	return notificationStreamClients
}

// UploadRejected exposes the upload rejection counter.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejected
}

// UploadLatency exposes the upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatency
}
