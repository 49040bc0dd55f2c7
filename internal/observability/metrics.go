// Package observability builds the Prometheus metrics and OpenTelemetry
// tracer used by the HTTP layer and the query service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	QueriesTotal  *prometheus.CounterVec
	QueryResults  *prometheus.HistogramVec
	TodosLoaded   prometheus.Gauge
	DatasetLoaded *prometheus.GaugeVec
}

// NewMetrics registers all collectors on a fresh registry, so tests can
// create as many instances as they like.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todo_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route", "status"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todo_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 4, 8),
			},
			[]string{"method", "route"},
		),

		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_queries_total",
				Help: "Total number of query engine calls",
			},
			[]string{"operation", "outcome"}, // outcome: ok, not_found, invalid
		),
		QueryResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todo_query_results",
				Help:    "Number of todos returned per list query",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"ordered"},
		),
		TodosLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "todo_records_loaded",
				Help: "Number of todos held in memory",
			},
		),
		DatasetLoaded: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "todo_dataset_loaded_timestamp_seconds",
				Help: "Unix time the dataset was loaded, labelled by snapshot id",
			},
			[]string{"snapshot"},
		),
	}
}

// RecordHTTPRequest records one served request. The Record methods are no-ops
// on a nil *Metrics.
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration, responseSize int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, route).Observe(float64(responseSize))
}

// RecordQuery counts a query engine call.
func (m *Metrics) RecordQuery(operation, outcome string) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordResults observes the size of a list result.
func (m *Metrics) RecordResults(ordered bool, n int) {
	if m == nil {
		return
	}
	label := "false"
	if ordered {
		label = "true"
	}
	m.QueryResults.WithLabelValues(label).Observe(float64(n))
}

// RecordDataset publishes the loaded dataset size and snapshot.
func (m *Metrics) RecordDataset(snapshotID string, count int, loadedAt time.Time) {
	if m == nil {
		return
	}
	m.TodosLoaded.Set(float64(count))
	m.DatasetLoaded.WithLabelValues(snapshotID).Set(float64(loadedAt.Unix()))
}

// Gatherer exposes the registry for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
