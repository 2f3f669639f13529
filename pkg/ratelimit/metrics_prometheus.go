package ratelimit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements Metrics on a caller-supplied registry, so
// tests get isolated metric state and the application can expose everything
// through one /metrics handler.
type PrometheusMetrics struct {
	requestsTotal *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	activeKeys    *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the rate limit metrics on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_rate_limit_requests_total",
				Help: "Rate limit checks by policy scope, outcome and path",
			},
			[]string{"scope", "status", "path"},
		),
		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_rate_limit_check_duration_seconds",
				Help: "Duration of rate limit checks",
				// Sub-5ms is the expected range; the tail buckets catch a
				// struggling Redis backend.
				Buckets: []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"scope"},
		),
		activeKeys: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "http_rate_limit_active_keys",
				Help: "Keys currently tracked by the limiter store",
			},
			[]string{"scope"},
		),
	}
	reg.MustRegister(m.requestsTotal, m.checkDuration, m.activeKeys)
	return m
}

func (m *PrometheusMetrics) RecordAllowed(scope, endpoint string) {
	m.requestsTotal.WithLabelValues(scope, "allowed", endpoint).Inc()
}

func (m *PrometheusMetrics) RecordDenied(scope, endpoint string) {
	m.requestsTotal.WithLabelValues(scope, "denied", endpoint).Inc()
}

func (m *PrometheusMetrics) RecordCheckDuration(scope string, d time.Duration) {
	m.checkDuration.WithLabelValues(scope).Observe(d.Seconds())
}

func (m *PrometheusMetrics) SetActiveKeys(scope string, count int) {
	m.activeKeys.WithLabelValues(scope).Set(float64(count))
}
