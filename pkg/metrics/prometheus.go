// Package metrics provides Prometheus metrics for the milestone processor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the processor.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Evaluation metrics
	linesEvaluated  prometheus.Counter
	malformedLines  prometheus.Counter
	achievements    *prometheus.CounterVec
	careerCrossings *prometheus.CounterVec

	// Deduplication metrics
	duplicatesSuppressed prometheus.Counter
	ledgerSize           prometheus.Gauge
	ledgerFlushDuration  prometheus.Histogram

	// Pipeline health metrics
	playerFailures          prometheus.Counter
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueues           prometheus.Counter
	queueDequeues           prometheus.Counter
	queueEnqueueErrors      prometheus.Counter
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram

	// Run metrics
	runsCompleted prometheus.Counter
	runDuration   prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nba",
		subsystem:        "milestones",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.linesEvaluated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stat_lines_evaluated_total",
		Help:      "Total number of stat lines run through the evaluator",
	})

	m.malformedLines = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_stat_lines_total",
		Help:      "Total number of stat lines rejected by validation (upstream data quality)",
	})

	m.achievements = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "achievements_total",
			Help:      "Total number of newly witnessed single-game achievements by kind",
		},
		[]string{"kind"},
	)

	m.careerCrossings = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "career_crossings_total",
			Help:      "Total number of newly witnessed career threshold crossings by category",
		},
		[]string{"category"},
	)

	m.duplicatesSuppressed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicates_suppressed_total",
		Help:      "Total number of milestones suppressed by the witnessed ledger",
	})

	m.ledgerSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_size",
		Help:      "Current number of witnessed keys in the ledger",
	})

	m.ledgerFlushDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_flush_duration_milliseconds",
		Help:      "Ledger snapshot flush duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.playerFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "player_batch_failures_total",
		Help:      "Total number of player batches that failed before commit",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of queued player batches",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum queue capacity",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of batches enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of batches dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of enqueue failures (full or closed queue)",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of evaluation workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Per-player batch processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.runsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_completed_total",
		Help:      "Total number of processing runs completed with a successful flush",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "End-to-end processing run duration in milliseconds",
		Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 30000, 60000, 300000},
	})
}

// RecordLineEvaluated increments the evaluated stat lines counter.
func RecordLineEvaluated() {
	globalManager.linesEvaluated.Inc()
}

// RecordMalformedLine increments the malformed stat lines counter.
func RecordMalformedLine() {
	globalManager.malformedLines.Inc()
}

// RecordAchievement increments the achievement counter for a kind.
func RecordAchievement(kind string) {
	globalManager.achievements.WithLabelValues(kind).Inc()
}

// RecordCareerCrossing increments the career crossing counter for a category.
func RecordCareerCrossing(category string) {
	globalManager.careerCrossings.WithLabelValues(category).Inc()
}

// RecordDuplicatesSuppressed adds to the ledger-suppressed counter.
func RecordDuplicatesSuppressed(count int) {
	globalManager.duplicatesSuppressed.Add(float64(count))
}

// UpdateLedgerSize sets the current witnessed-key count.
func UpdateLedgerSize(size int) {
	globalManager.ledgerSize.Set(float64(size))
}

// RecordLedgerFlushDuration records a ledger flush duration.
func RecordLedgerFlushDuration(ms float64) {
	globalManager.ledgerFlushDuration.Observe(ms)
}

// RecordPlayerFailure increments the failed player batch counter.
func RecordPlayerFailure() {
	globalManager.playerFailures.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of evaluation workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records per-batch worker latency.
func RecordWorkerProcessingLatency(ms float64) {
	globalManager.workerProcessingLatency.Observe(ms)
}

// RecordRunCompleted increments the completed runs counter.
func RecordRunCompleted() {
	globalManager.runsCompleted.Inc()
}

// RecordRunDuration records an end-to-end run duration.
func RecordRunDuration(ms float64) {
	globalManager.runDuration.Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
