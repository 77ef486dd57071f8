package ecs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// NativePrometheusCollector is a MetricsCollector backed by a real
// prometheus.Registry, so Admin's per-tick UpdateReports reach a metrics
// backend promhttp.Handler can serve instead of only a log line.
type NativePrometheusCollector struct {
	duration *prometheus.HistogramVec
	executed *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

// NewNativePrometheusCollector registers its metrics against reg and returns
// a collector ready to observe UpdateReport values.
func NewNativePrometheusCollector(reg prometheus.Registerer) *NativePrometheusCollector {
	c := &NativePrometheusCollector{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecs_update_duration_seconds",
			Help:    "Admin.UpdateSimulation tick duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"async"}),
		executed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecs_update_systems_executed_total",
			Help: "Systems executed per simulation tick.",
		}, []string{"async"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecs_update_systems_skipped_total",
			Help: "Systems skipped per simulation tick.",
		}, []string{"async"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ecs_update_errors_total",
			Help: "Simulation tick error count.",
		}, []string{"async"}),
	}
	reg.MustRegister(c.duration, c.executed, c.skipped, c.errors)
	return c
}

// ObserveUpdate records report against the registered metrics.
func (c *NativePrometheusCollector) ObserveUpdate(report UpdateReport) {
	labels := prometheus.Labels{"async": fmt.Sprintf("%t", report.Async)}
	c.duration.With(labels).Observe(report.Duration.Seconds())
	c.executed.With(labels).Add(float64(report.SystemsExecuted))
	c.skipped.With(labels).Add(float64(report.SystemsSkipped))
	if report.Err != nil {
		c.errors.With(labels).Inc()
	}
}

var _ MetricsCollector = (*NativePrometheusCollector)(nil)
