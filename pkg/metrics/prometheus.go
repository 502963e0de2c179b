// Package metrics provides Prometheus metrics for the baton archive service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the baton service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset Metrics - what the service is currently serving
	datasetRecords      prometheus.Gauge
	datasetConductors   prometheus.Gauge
	datasetInvalidDates prometheus.Gauge
	datasetLoads        prometheus.Counter
	datasetLoadErrors   prometheus.Counter
	datasetLoadDuration prometheus.Histogram
	datasetLastLoadUnix prometheus.Gauge
	watcherEvents       *prometheus.CounterVec

	// Query Metrics - per view
	queryLatency    *prometheus.HistogramVec
	queryResultSize *prometheus.HistogramVec

	// Standings Metrics - conductor rank store
	standingsSize                  prometheus.Gauge
	standingsUpdateLatency         prometheus.Histogram
	standingsQueryLatency          prometheus.Histogram
	standingsSnapshotRebuildMillis prometheus.Histogram
	standingsSnapshotCount         prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init rebuilds the global manager on a fresh custom registry with opts.
// Call it once at startup, before GetRegistry is handed to an HTTP handler.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "baton",
		subsystem:        "archive",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	// A disabled manager still hands out working collectors, they are just
	// never exposed.
	if !m.enabled {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
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

	// Dataset Metrics
	m.datasetRecords = auto.NewGauge(m.gaugeOpts("dataset_records", "Number of records in the served dataset"))
	m.datasetConductors = auto.NewGauge(m.gaugeOpts("dataset_conductors", "Number of distinct conductors in the served dataset"))
	m.datasetInvalidDates = auto.NewGauge(m.gaugeOpts("dataset_invalid_dates", "Records whose opening date could not be parsed"))
	m.datasetLoads = auto.NewCounter(m.counterOpts("dataset_loads_total", "Successful dataset loads and reloads"))
	m.datasetLoadErrors = auto.NewCounter(m.counterOpts("dataset_load_errors_total", "Failed dataset loads and reloads"))
	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts(
		"dataset_load_duration_milliseconds",
		"Time to read, normalize and index the dataset in milliseconds",
		nil,
	))
	m.datasetLastLoadUnix = auto.NewGauge(m.gaugeOpts("dataset_last_load_unix", "Unix time of the last successful dataset load"))
	m.watcherEvents = auto.NewCounterVec(
		m.counterOpts("dataset_watch_events_total", "File system events seen by the dataset watcher"),
		[]string{"op"},
	)

	// Query Metrics
	m.queryLatency = auto.NewHistogramVec(
		m.histogramOpts("query_latency_milliseconds", "Latency of computing a view in milliseconds", nil),
		[]string{"view"},
	)
	m.queryResultSize = auto.NewHistogramVec(
		m.histogramOpts("query_result_size", "Number of items returned by a view", prometheus.ExponentialBuckets(1, 4, 8)),
		[]string{"view"},
	)

	// Standings Metrics
	m.standingsSize = auto.NewGauge(m.gaugeOpts("standings_size", "Conductors held by the rank store"))
	m.standingsUpdateLatency = auto.NewHistogram(m.histogramOpts(
		"standings_update_latency_milliseconds",
		"Rank store write latency in milliseconds",
		nil,
	))
	m.standingsQueryLatency = auto.NewHistogram(m.histogramOpts(
		"standings_query_latency_milliseconds",
		"Rank store read latency in milliseconds",
		nil,
	))
	m.standingsSnapshotRebuildMillis = auto.NewHistogram(m.histogramOpts(
		"standings_snapshot_rebuild_duration_milliseconds",
		"Rank store snapshot rebuild duration in milliseconds",
		nil,
	))
	m.standingsSnapshotCount = auto.NewCounter(m.counterOpts("standings_snapshot_total", "Rank store snapshots published"))

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", nil),
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that failed in milliseconds", nil),
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Dataset Metrics Functions.

// UpdateDataset sets the size gauges of the served dataset.
func UpdateDataset(records, conductors, invalidDates int) {
	globalManager.datasetRecords.Set(float64(records))
	globalManager.datasetConductors.Set(float64(conductors))
	globalManager.datasetInvalidDates.Set(float64(invalidDates))
}

// RecordDatasetLoad records a successful load and its duration.
func RecordDatasetLoad(durationMs float64, unix int64) {
	globalManager.datasetLoads.Inc()
	globalManager.datasetLoadDuration.Observe(durationMs)
	globalManager.datasetLastLoadUnix.Set(float64(unix))
}

// RecordDatasetLoadError increments the failed load counter.
func RecordDatasetLoadError() {
	globalManager.datasetLoadErrors.Inc()
}

// RecordWatcherEvent counts a file system event by operation.
func RecordWatcherEvent(op string) {
	globalManager.watcherEvents.WithLabelValues(op).Inc()
}

// Query Metrics Functions.

// RecordQuery records how long a view took and how many items it returned.
func RecordQuery(view string, latencyMs float64, size int) {
	globalManager.queryLatency.WithLabelValues(view).Observe(latencyMs)
	globalManager.queryResultSize.WithLabelValues(view).Observe(float64(size))
}

// Standings Metrics Functions.

// UpdateStandingsSize sets the number of conductors in the rank store.
func UpdateStandingsSize(count int) {
	globalManager.standingsSize.Set(float64(count))
}

// RecordStandingsUpdateLatency records rank store write latency.
func RecordStandingsUpdateLatency(latencyMs float64) {
	globalManager.standingsUpdateLatency.Observe(latencyMs)
}

// RecordStandingsQueryLatency records rank store read latency.
func RecordStandingsQueryLatency(latencyMs float64) {
	globalManager.standingsQueryLatency.Observe(latencyMs)
}

// RecordStandingsSnapshot records one snapshot publication.
func RecordStandingsSnapshot(durationMs float64) {
	globalManager.standingsSnapshotRebuildMillis.Observe(durationMs)
	globalManager.standingsSnapshotCount.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

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
