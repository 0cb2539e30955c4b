// Package metrics provides Prometheus metrics for the fitcheck outfit service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latencies are recorded in milliseconds.
var defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000}

// Harmony and drip scores live on a 0..100 scale.
var defaultScoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 75, 80, 85, 90, 95, 100}

// Manager manages all Prometheus metrics for the fitcheck service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	scoreBuckets   []float64
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Selection
	outfitsGenerated      *prometheus.CounterVec
	selectionLatency      *prometheus.HistogramVec
	candidatesEvaluated   prometheus.Counter
	harmonyScores         *prometheus.HistogramVec
	dripScores            prometheus.Histogram
	insufficientInventory prometheus.Counter
	noCandidateFound      prometheus.Counter

	// Wardrobe
	wardrobeItems *prometheus.GaugeVec
	wearsApplied  prometheus.Counter
	wearsDup      prometheus.Counter
	wearsFailed   prometheus.Counter
	ratings       prometheus.Counter
	streakLength  prometheus.Gauge
	storeLatency  *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueue           prometheus.Counter
	queueDequeue           prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "fitcheck",
		subsystem:      "outfits",
		latencyBuckets: defaultLatencyBuckets,
		scoreBuckets:   defaultScoreBuckets,
		constLabels:    make(map[string]string),
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// NewMetricsManager is an alias of NewManager.
func NewMetricsManager(opts ...Option) *Manager { return NewManager(opts...) }

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		Buckets: buckets, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)

	m.outfitsGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "generated_total",
		Help:        "Total number of outfits generated by planning mode",
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.selectionLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "selection_latency_milliseconds",
		Help:        "Time spent evaluating candidate pairings",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, []string{"mode"})

	m.candidatesEvaluated = m.counter("candidates_evaluated_total", "Total number of top/bottom pairings scored")

	m.harmonyScores = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "harmony_score",
		Help:        "Harmony score of selected outfits by harmony type",
		Buckets:     m.scoreBuckets,
		ConstLabels: m.constLabels,
	}, []string{"type"})

	m.dripScores = m.histogram("drip_score", "Drip score of selected outfits", m.scoreBuckets)
	m.insufficientInventory = m.counter("insufficient_inventory_total", "Planning requests rejected for an empty slot")
	m.noCandidateFound = m.counter("no_candidate_total", "Selections that finished without a winner")

	m.wardrobeItems = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "wardrobe_items",
		Help:        "Number of wardrobe items by slot",
		ConstLabels: m.constLabels,
	}, []string{"slot"})

	m.wearsApplied = m.counter("wears_applied_total", "Wear events applied to the wardrobe")
	m.wearsDup = m.counter("wears_duplicate_total", "Wear events dropped as duplicates")
	m.wearsFailed = m.counter("wears_failed_total", "Wear events that failed to apply")
	m.ratings = m.counter("ratings_total", "History entries rated")
	m.streakLength = m.gauge("streak_days", "Current wear streak in days")

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "store_latency_milliseconds",
		Help:        "Wardrobe store operation latency",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, []string{"op"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.rateLimited = m.counter("http_rate_limited_total", "Requests rejected by the rate limiter")

	m.queueSize = m.gauge("queue_size", "Current size of the wear event queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (size / capacity)")
	m.queueEnqueue = m.counter("queue_enqueue_total", "Total number of wear events enqueued")
	m.queueDequeue = m.counter("queue_dequeue_total", "Total number of wear events dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of enqueue errors")
	m.queueProcessingLatency = m.histogram("queue_processing_latency_milliseconds",
		"Time from enqueue to dequeue in milliseconds", m.latencyBuckets)

	m.workerCount = m.gauge("worker_count", "Configured number of wear workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Workers currently applying an event")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds",
		"Worker processing latency in milliseconds", m.latencyBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Total number of worker errors")

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Total number of errors by component",
		ConstLabels: m.constLabels,
	}, []string{"component", "error_type"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Total number of errors by endpoint",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordOutfitGenerated counts an outfit produced in the given mode (daily, weekly).
func RecordOutfitGenerated(mode string) {
	globalManager.outfitsGenerated.WithLabelValues(mode).Inc()
}

// RecordSelectionLatency records how long one selection took.
func RecordSelectionLatency(mode string, latencyMs float64) {
	globalManager.selectionLatency.WithLabelValues(mode).Observe(latencyMs)
}

// RecordCandidatesEvaluated adds n scored pairings.
func RecordCandidatesEvaluated(n int) {
	globalManager.candidatesEvaluated.Add(float64(n))
}

// RecordHarmonyScore observes the harmony score of a chosen outfit.
func RecordHarmonyScore(harmonyType string, score int) {
	globalManager.harmonyScores.WithLabelValues(harmonyType).Observe(float64(score))
}

// RecordDripScore observes the drip score of a chosen outfit.
func RecordDripScore(score int) {
	globalManager.dripScores.Observe(float64(score))
}

// RecordInsufficientInventory counts a rejected planning request.
func RecordInsufficientInventory() {
	globalManager.insufficientInventory.Inc()
}

// RecordNoCandidateFound counts a selection that produced no winner.
func RecordNoCandidateFound() {
	globalManager.noCandidateFound.Inc()
}

// UpdateWardrobeItems sets the item count for a slot.
func UpdateWardrobeItems(slot string, count int) {
	globalManager.wardrobeItems.WithLabelValues(slot).Set(float64(count))
}

// RecordWearApplied counts a wear event committed to the store.
func RecordWearApplied() {
	globalManager.wearsApplied.Inc()
}

// RecordWearDuplicate counts a wear event ignored by deduplication.
func RecordWearDuplicate() {
	globalManager.wearsDup.Inc()
}

// RecordWearFailed counts a wear event the store rejected.
func RecordWearFailed() {
	globalManager.wearsFailed.Inc()
}

// RecordRating counts a rated history entry.
func RecordRating() {
	globalManager.ratings.Inc()
}

// UpdateStreak sets the current streak gauge.
func UpdateStreak(days int) {
	globalManager.streakLength.Set(float64(days))
}

// RecordStoreLatency observes a store operation.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected with 429.
func RecordRateLimited() {
	globalManager.rateLimited.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
