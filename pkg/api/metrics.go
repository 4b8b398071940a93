package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// maxDatabaseLabels bounds the distinct database label values; later names
// are counted under otherDatabaseLabel.
const (
	maxDatabaseLabels  = 64
	otherDatabaseLabel = "other"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Snapshot metrics
	snapshotLoadsTotal   *prometheus.CounterVec
	snapshotLoadDuration prometheus.Histogram
	snapshotsCached      prometheus.Gauge
	recordsServedTotal   *prometheus.CounterVec

	labelMu        sync.Mutex
	databaseLabels map[string]struct{}

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates all Prometheus metrics on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:       reg,
		databaseLabels: make(map[string]struct{}),

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ipd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ipd_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		snapshotLoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipd_snapshot_loads_total",
				Help: "Total number of snapshot lookups by result (hit, miss, error)",
			},
			[]string{"result"},
		),

		snapshotLoadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ipd_snapshot_load_duration_seconds",
				Help:    "Time spent loading and decoding archived snapshots",
				Buckets: prometheus.DefBuckets,
			},
		),

		snapshotsCached: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ipd_snapshots_cached",
				Help: "Number of decoded snapshots held in memory",
			},
		),

		recordsServedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipd_records_served_total",
				Help: "Total number of records returned, by database",
			},
			[]string{"database"},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipd_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipd_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSnapshotLoad records a snapshot cache lookup. Misses include the
// time spent decoding.
func (m *Metrics) RecordSnapshotLoad(result string, duration time.Duration) {
	m.snapshotLoadsTotal.WithLabelValues(result).Inc()
	if result != "hit" {
		m.snapshotLoadDuration.Observe(duration.Seconds())
	}
}

// SetSnapshotsCached updates the cached snapshot gauge
func (m *Metrics) SetSnapshotsCached(n int) {
	m.snapshotsCached.Set(float64(n))
}

// RecordRecordsServed counts records returned from a database
func (m *Metrics) RecordRecordsServed(database string, n int) {
	m.recordsServedTotal.WithLabelValues(m.databaseLabel(database)).Add(float64(n))
}

func (m *Metrics) databaseLabel(database string) string {
	m.labelMu.Lock()
	defer m.labelMu.Unlock()

	if _, ok := m.databaseLabels[database]; ok {
		return database
	}
	if len(m.databaseLabels) >= maxDatabaseLabels {
		return otherDatabaseLabel
	}
	m.databaseLabels[database] = struct{}{}
	return database
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get("X-API-Key") != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
