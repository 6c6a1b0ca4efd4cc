// Package metrics holds the Prometheus instruments of the query layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics groups the instruments on their own registry so tests and
// multiple servers in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	datasetRows   prometheus.Gauge
	parseWarnings *prometheus.GaugeVec
	eventsFailed  prometheus.Counter

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fundboard_queries_total",
			Help: "Total queries served, by kind and outcome",
		}, []string{"kind", "outcome"}),
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fundboard_query_duration_seconds",
			Help:    "Query evaluation time",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}, []string{"kind"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fundboard_cache_hits_total",
			Help: "Response cache hits, by kind",
		}, []string{"kind"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fundboard_cache_misses_total",
			Help: "Response cache misses, by kind",
		}, []string{"kind"}),
		datasetRows: f.NewGauge(prometheus.GaugeOpts{
			Name: "fundboard_dataset_records",
			Help: "Records in the loaded dataset",
		}),
		parseWarnings: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fundboard_dataset_parse_warnings",
			Help: "Values that could not be parsed while normalizing the dataset",
		}, []string{"kind"}),
		eventsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "fundboard_query_events_failed_total",
			Help: "Query audit events that could not be published",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fundboard_http_requests_total",
			Help: "HTTP requests, by method, route and status code",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fundboard_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveQuery records one query of kind that took d and ended with outcome.
func (m *Metrics) ObserveQuery(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(kind, outcome).Inc()
	m.queryDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) CacheHit(kind string) {
	if m != nil {
		m.cacheHits.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) CacheMiss(kind string) {
	if m != nil {
		m.cacheMisses.WithLabelValues(kind).Inc()
	}
}

// SetDataset publishes the size and parse diagnostics of the loaded dataset.
func (m *Metrics) SetDataset(records, unparsableDates, missingAmounts, droppedRows int) {
	if m == nil {
		return
	}
	m.datasetRows.Set(float64(records))
	m.parseWarnings.WithLabelValues("date").Set(float64(unparsableDates))
	m.parseWarnings.WithLabelValues("amount").Set(float64(missingAmounts))
	m.parseWarnings.WithLabelValues("dropped_row").Set(float64(droppedRows))
}

// ObserveRequest records one HTTP request. route should be the matched mux
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) EventFailed() {
	if m != nil {
		m.eventsFailed.Inc()
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
