// Package metrics provides Prometheus metrics for the pitchside spider service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Aggregation
	aggregations         *prometheus.CounterVec
	aggregationLatency   *prometheus.HistogramVec
	unclassifiedEvents   *prometheus.CounterVec
	storeReadErrors      *prometheus.CounterVec
	staleResults         prometheus.Counter
	chartsRendered       *prometheus.CounterVec
	pointsSummaries      prometheus.Counter
	referencedLookups    prometheus.Counter
	referencedLookupMiss prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Team build queue and workers
	queueCapacity     prometheus.Gauge
	queueSize         prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueRejected     *prometheus.CounterVec
	workerCount       prometheus.Gauge
	workerBusy        prometheus.Gauge
	workerJobLatency  prometheus.Histogram
	workerJobFailures prometheus.Counter

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry served on /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pitchside",
		subsystem:        "spider",
		histogramBuckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.aggregations = auto.NewCounterVec(m.counterOpts("aggregations_total",
		"Total number of axis aggregations by pillar"), []string{"pillar"})
	m.aggregationLatency = auto.NewHistogramVec(m.histogramOpts("aggregation_latency_milliseconds",
		"Wall time of one aggregation including store reads"), []string{"pillar"})
	m.unclassifiedEvents = auto.NewCounterVec(m.counterOpts("unclassified_events_total",
		"Events that mapped to no declared axis and were dropped"), []string{"pillar", "source"})
	m.storeReadErrors = auto.NewCounterVec(m.counterOpts("store_read_errors_total",
		"Event store reads that failed and were absorbed as zero data"), []string{"source"})
	m.staleResults = auto.NewCounter(m.counterOpts("stale_results_total",
		"Chart results dropped because a newer request for the same view was issued"))
	m.chartsRendered = auto.NewCounterVec(m.counterOpts("charts_rendered_total",
		"Charts laid out, split by renderability"), []string{"pillar", "renderable"})
	m.pointsSummaries = auto.NewCounter(m.counterOpts("points_summaries_total",
		"Quarter points summaries computed"))
	m.referencedLookups = auto.NewCounter(m.counterOpts("referenced_session_lookups_total",
		"Batch lookups of referenced sessions"))
	m.referencedLookupMiss = auto.NewCounter(m.counterOpts("referenced_session_misses_total",
		"Referenced session ids that did not resolve to a record"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the team build queue"))
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Jobs waiting in the team build queue"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueued_total", "Jobs accepted by the team build queue"))
	m.queueRejected = auto.NewCounterVec(m.counterOpts("queue_rejected_total",
		"Jobs rejected by the team build queue"), []string{"reason"})
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured team build workers"))
	m.workerBusy = auto.NewGauge(m.gaugeOpts("worker_busy", "Workers currently building a chart"))
	m.workerJobLatency = auto.NewHistogram(m.histogramOpts("worker_job_latency_milliseconds",
		"Time a worker spent on one chart job"))
	m.workerJobFailures = auto.NewCounter(m.counterOpts("worker_job_failures_total",
		"Chart jobs that finished with an error"))

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordAggregation counts one aggregation for pillar and observes its latency.
func (m *Manager) RecordAggregation(pillar string, latencyMs float64) {
	m.aggregations.WithLabelValues(pillar).Inc()
	m.aggregationLatency.WithLabelValues(pillar).Observe(latencyMs)
}

// RecordUnclassifiedEvent counts an event that hit no declared axis.
func (m *Manager) RecordUnclassifiedEvent(pillar, source string) {
	m.unclassifiedEvents.WithLabelValues(pillar, source).Inc()
}

// RecordStoreReadError counts an absorbed store read failure.
func (m *Manager) RecordStoreReadError(source string) {
	m.storeReadErrors.WithLabelValues(source).Inc()
}

// RecordStaleResult counts a chart result dropped by the sequence guard.
func (m *Manager) RecordStaleResult() { m.staleResults.Inc() }

// RecordChartRendered counts a laid out chart.
func (m *Manager) RecordChartRendered(pillar string, renderable bool) {
	label := "false"
	if renderable {
		label = "true"
	}
	m.chartsRendered.WithLabelValues(pillar, label).Inc()
}

// RecordPointsSummary counts a points summary.
func (m *Manager) RecordPointsSummary() { m.pointsSummaries.Inc() }

// RecordReferencedLookup counts one batch lookup and the ids it failed to resolve.
func (m *Manager) RecordReferencedLookup(misses int) {
	m.referencedLookups.Inc()
	if misses > 0 {
		m.referencedLookupMiss.Add(float64(misses))
	}
}

// RecordHTTPRequest records a finished HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateQueueCapacity sets the queue capacity gauge.
func (m *Manager) UpdateQueueCapacity(capacity int) { m.queueCapacity.Set(float64(capacity)) }

// UpdateQueueSize sets the queue size gauge.
func (m *Manager) UpdateQueueSize(size int) { m.queueSize.Set(float64(size)) }

// RecordQueueEnqueue counts an accepted job.
func (m *Manager) RecordQueueEnqueue() { m.queueEnqueued.Inc() }

// RecordQueueRejected counts a rejected job.
func (m *Manager) RecordQueueRejected(reason string) { m.queueRejected.WithLabelValues(reason).Inc() }

// UpdateWorkerCount sets the configured worker gauge.
func (m *Manager) UpdateWorkerCount(count int) { m.workerCount.Set(float64(count)) }

// AddWorkerBusy moves the busy worker gauge by delta.
func (m *Manager) AddWorkerBusy(delta int) { m.workerBusy.Add(float64(delta)) }

// RecordWorkerJob observes a finished worker job.
func (m *Manager) RecordWorkerJob(latencyMs float64, failed bool) {
	m.workerJobLatency.Observe(latencyMs)
	if failed {
		m.workerJobFailures.Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap usage gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) { m.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	m.systemGoroutineCount.Set(float64(count))
}

// Default returns the process-wide manager registered on GetRegistry.
func Default() *Manager { return globalManager }

// RecordAggregation records on the default manager.
func RecordAggregation(pillar string, latencyMs float64) {
	globalManager.RecordAggregation(pillar, latencyMs)
}

// RecordUnclassifiedEvent records on the default manager.
func RecordUnclassifiedEvent(pillar, source string) {
	globalManager.RecordUnclassifiedEvent(pillar, source)
}

// RecordStoreReadError records on the default manager.
func RecordStoreReadError(source string) { globalManager.RecordStoreReadError(source) }

// RecordStaleResult records on the default manager.
func RecordStaleResult() { globalManager.RecordStaleResult() }

// RecordChartRendered records on the default manager.
func RecordChartRendered(pillar string, renderable bool) {
	globalManager.RecordChartRendered(pillar, renderable)
}

// RecordPointsSummary records on the default manager.
func RecordPointsSummary() { globalManager.RecordPointsSummary() }

// RecordReferencedLookup records on the default manager.
func RecordReferencedLookup(misses int) { globalManager.RecordReferencedLookup(misses) }

// RecordHTTPRequest records on the default manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// UpdateQueueCapacity records on the default manager.
func UpdateQueueCapacity(capacity int) { globalManager.UpdateQueueCapacity(capacity) }

// UpdateQueueSize records on the default manager.
func UpdateQueueSize(size int) { globalManager.UpdateQueueSize(size) }

// RecordQueueEnqueue records on the default manager.
func RecordQueueEnqueue() { globalManager.RecordQueueEnqueue() }

// RecordQueueRejected records on the default manager.
func RecordQueueRejected(reason string) { globalManager.RecordQueueRejected(reason) }

// UpdateWorkerCount records on the default manager.
func UpdateWorkerCount(count int) { globalManager.UpdateWorkerCount(count) }

// AddWorkerBusy records on the default manager.
func AddWorkerBusy(delta int) { globalManager.AddWorkerBusy(delta) }

// RecordWorkerJob records on the default manager.
func RecordWorkerJob(latencyMs float64, failed bool) {
	globalManager.RecordWorkerJob(latencyMs, failed)
}

// UpdateSystemMemoryUsage records on the default manager.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount records on the default manager.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// GetRegistry returns the registry backing the default manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
