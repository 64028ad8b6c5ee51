package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments backend calls by operation
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartedtech",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Backend requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "smartedtech",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	reg.MustRegister(m.Requests, m.Duration)
	return m
}
