package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adminpanel_api_requests_total",
			Help: "Total number of remote API requests",
		},
		[]string{"operation", "outcome"},
	)

	APIRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adminpanel_api_request_duration_seconds",
			Help:    "Duration of remote API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	PanelRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adminpanel_http_requests_total",
			Help: "Total number of panel HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	StateReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adminpanel_state_reloads_total",
			Help: "Total number of state sequence reloads",
		},
		[]string{"resource", "outcome"},
	)
)

// ObserveAPIRequest records one remote API call.
func ObserveAPIRequest(operation, outcome string, seconds float64) {
	APIRequestsTotal.WithLabelValues(operation, outcome).Inc()
	APIRequestDurationSeconds.WithLabelValues(operation).Observe(seconds)
}

// PrometheusRecorder exposes the domain-facing counters behind the
// outbound.MetricsRecorder port.
type PrometheusRecorder struct{}

func NewPrometheusRecorder() *PrometheusRecorder {
	return &PrometheusRecorder{}
}

func (r *PrometheusRecorder) RecordStateReload(resource, outcome string) {
	StateReloadsTotal.WithLabelValues(resource, outcome).Inc()
}
