package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "points_ledger"

// Metrics holds every collector the service exports
type Metrics struct {
	registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Ledger Metrics
	LedgerOperationsTotal   *prometheus.CounterVec
	LedgerPointsTotal       *prometheus.CounterVec
	LedgerOperationDuration *prometheus.HistogramVec

	// Database Metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics registers the collectors, plus Go runtime and process
// collectors, on a fresh registry
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
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),

		LedgerOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Point changes by direction and outcome.",
			},
			[]string{"direction", "outcome"},
		),
		LedgerPointsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "points_total",
				Help:      "Points moved by successful point changes.",
			},
			[]string{"direction"},
		),
		LedgerOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Time from request to committed point change, including queue wait.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"direction"},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "Duration of SQL statements.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"type", "table"},
		),
		DBQueryErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "query_errors_total",
				Help:      "SQL statements that failed.",
			},
			[]string{"type", "table"},
		),
	}
}

// Registry returns the registry the collectors live in
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveOperation records one ledger point change
func (m *Metrics) ObserveOperation(direction, outcome string, points int64, elapsed coreport.Duration) {
	m.LedgerOperationsTotal.WithLabelValues(direction, outcome).Inc()
	m.LedgerOperationDuration.WithLabelValues(direction).Observe(elapsed.Std().Seconds())
	if outcome == coreport.OutcomeSuccess && points > 0 {
		m.LedgerPointsTotal.WithLabelValues(direction).Add(float64(points))
	}
}

// ObserveHTTPRequest records one finished HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// InFlight adjusts the in-flight request gauge by delta
func (m *Metrics) InFlight(delta float64) {
	m.HTTPRequestsInFlight.Add(delta)
}

// ObserveQuery records one SQL statement
func (m *Metrics) ObserveQuery(queryType, table string, elapsed time.Duration, failed bool) {
	if queryType == "" {
		queryType = "other"
	}
	m.DBQueryDuration.WithLabelValues(queryType, table).Observe(elapsed.Seconds())
	if failed {
		m.DBQueryErrors.WithLabelValues(queryType, table).Inc()
	}
}

// RegisterDBStats exports the connection pool statistics of db
func (m *Metrics) RegisterDBStats(db *sql.DB, dbName string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

var _ coreport.LedgerMetrics = (*Metrics)(nil)
