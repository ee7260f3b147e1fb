package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts AI gateway calls for the /metrics endpoint
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the AI collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bizgrow",
				Subsystem: "ai",
				Name:      "requests_total",
				Help:      "AI gateway requests by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bizgrow",
				Subsystem: "ai",
				Name:      "request_duration_seconds",
				Help:      "Latency of AI gateway requests in seconds.",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
