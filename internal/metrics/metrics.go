// Package metrics exposes Prometheus instrumentation for the HTTP API, sprint
// status transitions and the daily sweep.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sprintboard/internal/models"
)

// Transition sources.
const (
	SourceSweep    = "sweep"
	SourceOverride = "override"
	SourceCascade  = "cascade"
)

// Metrics holds the collectors registered on a private registry.
//
// All metrics are prefixed with "sprintboard_":
//   - sprintboard_http_requests_total{method,route,status}
//   - sprintboard_http_request_duration_seconds{method,route}
//   - sprintboard_sprint_transitions_total{from,to,source}
//   - sprintboard_column_updates_total
//   - sprintboard_sweeps_total{result}
//   - sprintboard_sweep_duration_seconds
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SprintTransitionsTotal *prometheus.CounterVec
	ColumnUpdatesTotal     prometheus.Counter

	SweepsTotal   *prometheus.CounterVec
	SweepDuration prometheus.Histogram
}

// New creates the collectors on a fresh registry, along with the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sprintboard_http_requests_total",
				Help: "Total number of HTTP requests handled",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sprintboard_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
			},
			[]string{"method", "route"},
		),
		SprintTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sprintboard_sprint_transitions_total",
				Help: "Total number of sprint status transitions",
			},
			[]string{"from", "to", "source"},
		),
		ColumnUpdatesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sprintboard_column_updates_total",
				Help: "Total number of column status changes caused by sprint status",
			},
		),
		SweepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sprintboard_sweeps_total",
				Help: "Total number of sweep runs by result",
			},
			[]string{"result"}, // "changed", "unchanged", "partial", "failed"
		),
		SweepDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sprintboard_sweep_duration_seconds",
				Help:    "Duration of sweep runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordTransitions counts sprint status changes from one source.
func (m *Metrics) RecordTransitions(changes []models.StatusChange, source string) {
	if m == nil {
		return
	}
	for _, c := range changes {
		m.SprintTransitionsTotal.WithLabelValues(string(c.OldStatus), string(c.NewStatus), source).Inc()
	}
}

// RecordColumnUpdates counts column status changes.
func (m *Metrics) RecordColumnUpdates(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ColumnUpdatesTotal.Add(float64(n))
}

// RecordSweep records one sweep run.
func (m *Metrics) RecordSweep(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SweepsTotal.WithLabelValues(result).Inc()
	m.SweepDuration.Observe(elapsed.Seconds())
}
