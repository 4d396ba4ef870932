package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports resolver outcomes as Prometheus metrics:
// a counter of results by operation and status, and a latency histogram.
type PrometheusMetricsRecorder struct {
	results  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusMetricsRecorder registers the resolver collectors with reg.
// A nil reg uses a fresh private registry, which keeps tests independent.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	rec := &PrometheusMetricsRecorder{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antigenseq",
			Subsystem: "resolver",
			Name:      "operations_total",
			Help:      "Resolver operations by outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "antigenseq",
			Subsystem: "resolver",
			Name:      "operation_duration_seconds",
			Help:      "Resolver operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{rec.results, rec.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.results.WithLabelValues(operation, status).Inc()
	r.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Collectors exposes the underlying collectors, mainly for tests using
// prometheus/testutil.
func (r *PrometheusMetricsRecorder) Collectors() (*prometheus.CounterVec, *prometheus.HistogramVec) {
	return r.results, r.duration
}
