// Package metrics provides Prometheus metrics for the FPL transfer helper.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Recommendation engine
	suggestRequests    *prometheus.CounterVec
	suggestionsCount   prometheus.Histogram
	engineLatency      prometheus.Histogram
	invalidInputs      prometheus.Counter
	candidatesExcluded *prometheus.CounterVec
	emptyResults       prometheus.Counter

	// Catalog
	catalogPlayers      prometheus.Gauge
	catalogRefreshes    *prometheus.CounterVec
	catalogLastRefresh  prometheus.Gauge
	catalogQueryLatency prometheus.Histogram

	// FPL upstream
	fetchRequests *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	fetchRetries  prometheus.Counter

	// Scoring pipeline
	scoringLatency prometheus.Histogram
	scoringErrors  prometheus.Counter
	playersScored  prometheus.Counter
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueRejected  prometheus.Counter
	workerCount    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fplhelper",
		subsystem:        "transfers",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix != "" {
		return m.metricPrefix + "_" + n
	}
	return n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.histogramBuckets
	}
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.suggestRequests = auto.NewCounterVec(
		m.counterOpts("suggest_requests_total", "Suggestion requests by outcome (ok, empty, invalid_input, error)"),
		[]string{"outcome"},
	)
	m.suggestionsCount = auto.NewHistogram(m.histogramOpts(
		"suggestions_returned", "Number of suggestions returned per request",
		[]float64{0, 1, 2, 3, 5, 8, 13, 21},
	))
	m.engineLatency = auto.NewHistogram(m.histogramOpts(
		"engine_latency_milliseconds", "Recommendation engine evaluation latency in milliseconds", nil,
	))
	m.invalidInputs = auto.NewCounter(m.counterOpts(
		"invalid_input_total", "Engine calls aborted because a player record was malformed",
	))
	m.candidatesExcluded = auto.NewCounterVec(
		m.counterOpts("candidates_excluded_total", "Candidates removed by the eligibility filter"),
		[]string{"reason"},
	)
	m.emptyResults = auto.NewCounter(m.counterOpts(
		"empty_results_total", "Evaluations that produced no suggestion",
	))

	m.catalogPlayers = auto.NewGauge(m.gaugeOpts("catalog_players", "Players in the current catalog snapshot"))
	m.catalogRefreshes = auto.NewCounterVec(
		m.counterOpts("catalog_refreshes_total", "Catalog refresh attempts by outcome"),
		[]string{"outcome"},
	)
	m.catalogLastRefresh = auto.NewGauge(m.gaugeOpts(
		"catalog_last_refresh_unix", "Unix time of the last successful catalog refresh",
	))
	m.catalogQueryLatency = auto.NewHistogram(m.histogramOpts(
		"catalog_query_latency_milliseconds", "Catalog read latency in milliseconds", nil,
	))

	m.fetchRequests = auto.NewCounterVec(
		m.counterOpts("fpl_requests_total", "Requests sent to the FPL API by endpoint and status"),
		[]string{"endpoint", "status"},
	)
	m.fetchLatency = auto.NewHistogramVec(
		m.histogramOpts("fpl_request_latency_milliseconds", "FPL API request latency in milliseconds",
			[]float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}),
		[]string{"endpoint"},
	)
	m.fetchRetries = auto.NewCounter(m.counterOpts("fpl_retries_total", "Retried FPL API requests"))

	m.scoringLatency = auto.NewHistogram(m.histogramOpts(
		"scoring_latency_milliseconds", "Per-player scoring latency in milliseconds", nil,
	))
	m.scoringErrors = auto.NewCounter(m.counterOpts("scoring_errors_total", "Players the scorer failed on"))
	m.playersScored = auto.NewCounter(m.counterOpts("players_scored_total", "Players scored by the pipeline"))
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the scoring job queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the scoring job queue"))
	m.queueRejected = auto.NewCounter(m.counterOpts("queue_rejected_total", "Jobs rejected by a full or closed queue"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Scoring workers running"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", nil),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Engine.

// RecordSuggestRequest counts a suggestion request by outcome.
func RecordSuggestRequest(outcome string) {
	globalManager.suggestRequests.WithLabelValues(outcome).Inc()
}

// RecordSuggestionsReturned observes the size of a suggestion response.
func RecordSuggestionsReturned(n int) {
	globalManager.suggestionsCount.Observe(float64(n))
}

// RecordEngineLatency records engine evaluation latency in milliseconds.
func RecordEngineLatency(latencyMs float64) {
	globalManager.engineLatency.Observe(latencyMs)
}

// RecordInvalidInput increments the invalid input counter.
func RecordInvalidInput() {
	globalManager.invalidInputs.Inc()
}

// RecordCandidatesExcluded adds n excluded candidates for reason.
func RecordCandidatesExcluded(reason string, n int) {
	if n <= 0 {
		return
	}
	globalManager.candidatesExcluded.WithLabelValues(reason).Add(float64(n))
}

// RecordEmptyResult increments the empty result counter.
func RecordEmptyResult() {
	globalManager.emptyResults.Inc()
}

// Catalog.

// UpdateCatalogPlayers sets the catalog size.
func UpdateCatalogPlayers(count int) {
	globalManager.catalogPlayers.Set(float64(count))
}

// RecordCatalogRefresh counts a refresh attempt and stamps successful ones.
func RecordCatalogRefresh(outcome string, at time.Time) {
	globalManager.catalogRefreshes.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		globalManager.catalogLastRefresh.Set(float64(at.Unix()))
	}
}

// RecordCatalogQueryLatency records catalog read latency.
func RecordCatalogQueryLatency(latencyMs float64) {
	globalManager.catalogQueryLatency.Observe(latencyMs)
}

// FPL upstream.

// RecordFetch records an upstream request outcome and latency.
func RecordFetch(endpoint, status string, latencyMs float64) {
	globalManager.fetchRequests.WithLabelValues(endpoint, status).Inc()
	globalManager.fetchLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordFetchRetry increments the upstream retry counter.
func RecordFetchRetry() {
	globalManager.fetchRetries.Inc()
}

// Scoring pipeline.

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordPlayerScored increments the scored players counter.
func RecordPlayerScored() {
	globalManager.playersScored.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueRejected increments the rejected jobs counter.
func RecordQueueRejected() {
	globalManager.queueRejected.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
