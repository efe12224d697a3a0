// Package metrics provides Prometheus metrics for the runelens service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	subsystem string
	registry  prometheus.Registerer

	// Fetch metrics - upstream API calls (hiscores, wiki mapping/latest/timeseries)
	fetchTotal    *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	// Decode metrics - hiscore feed normalization
	feedsDecoded   prometheus.Counter
	decodeFailures prometheus.Counter
	recordsSkipped prometheus.Counter

	// Enrichment metrics - price join quality
	recordsEnriched prometheus.Counter
	unknownItems    prometheus.Counter
	historyPoints   prometheus.Counter

	// Export metrics - artifact writes
	artifactsWritten *prometheus.CounterVec

	// Queue and worker metrics - concurrent timeseries fetches
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueEnqueueErrs prometheus.Counter
	workerActive     prometheus.Gauge
	workerErrors     prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager backed by a custom registry so default Go collectors stay out.
var globalManager *Manager                     //nolint:gochecknoglobals // singleton metrics manager
var customRegistry = prometheus.NewRegistry()  //nolint:gochecknoglobals // shared registry served at /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "runelens",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.fetchTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_total",
		Help:      "Upstream fetches by source (hiscores, mapping, latest, timeseries, graph).",
	}, []string{"source"})

	m.fetchErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_errors_total",
		Help:      "Failed upstream fetches by source.",
	}, []string{"source"})

	m.fetchDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_duration_ms",
		Help:      "Upstream fetch latency in milliseconds.",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"source"})

	m.feedsDecoded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hiscore_feeds_decoded_total",
		Help:      "Hiscore feeds decoded successfully.",
	})

	m.decodeFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hiscore_decode_failures_total",
		Help:      "Hiscore feeds rejected as incomplete or malformed.",
	})

	m.recordsSkipped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "hiscore_records_skipped_total",
		Help:      "Individual hiscore records skipped for malformed fields.",
	})

	m.recordsEnriched = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "price_records_enriched_total",
		Help:      "Price observations joined against the item catalog.",
	})

	m.unknownItems = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "price_unknown_items_total",
		Help:      "Price observations with no catalog entry (placeholder-named).",
	})

	m.historyPoints = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "price_history_points_total",
		Help:      "Price-history points parsed from graph payloads.",
	})

	m.artifactsWritten = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "artifacts_written_total",
		Help:      "Artifacts written by kind (json, csv).",
	}, []string{"kind"})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_queue_size",
		Help:      "Current number of queued fetch jobs.",
	})

	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_queue_capacity",
		Help:      "Configured capacity of the fetch queue.",
	})

	m.queueEnqueueErrs = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_queue_enqueue_errors_total",
		Help:      "Fetch jobs rejected by the queue.",
	})

	m.workerActive = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_workers_active",
		Help:      "Number of running fetch workers.",
	})

	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_worker_errors_total",
		Help:      "Fetch jobs that ended in an error.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status_code"})
}

// Package-level helpers against the global manager.

// RecordFetch counts a successful upstream fetch.
func RecordFetch(source string) {
	globalManager.fetchTotal.WithLabelValues(source).Inc()
}

// RecordFetchError counts a failed upstream fetch.
func RecordFetchError(source string) {
	globalManager.fetchErrors.WithLabelValues(source).Inc()
}

// RecordFetchDuration observes upstream fetch latency.
func RecordFetchDuration(source string, latencyMs float64) {
	globalManager.fetchDuration.WithLabelValues(source).Observe(latencyMs)
}

// RecordFeedDecoded counts a fully decoded hiscore feed.
func RecordFeedDecoded() {
	globalManager.feedsDecoded.Inc()
}

// RecordDecodeFailure counts a rejected hiscore feed.
func RecordDecodeFailure() {
	globalManager.decodeFailures.Inc()
}

// RecordRecordSkipped counts a single skipped hiscore record.
func RecordRecordSkipped() {
	globalManager.recordsSkipped.Inc()
}

// RecordEnriched counts enriched price records.
func RecordEnriched(n int) {
	globalManager.recordsEnriched.Add(float64(n))
}

// RecordUnknownItem counts a placeholder-named observation.
func RecordUnknownItem() {
	globalManager.unknownItems.Inc()
}

// RecordHistoryPoints counts parsed history points.
func RecordHistoryPoints(n int) {
	globalManager.historyPoints.Add(float64(n))
}

// RecordArtifactWritten counts a written artifact by kind.
func RecordArtifactWritten(kind string) {
	globalManager.artifactsWritten.WithLabelValues(kind).Inc()
}

// UpdateQueueSize sets the current fetch queue depth.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the configured fetch queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError counts a rejected fetch job.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrs.Inc()
}

// UpdateWorkerActiveCount sets the number of running fetch workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActive.Set(float64(count))
}

// RecordWorkerError counts a failed fetch job.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry served by the health endpoint.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
