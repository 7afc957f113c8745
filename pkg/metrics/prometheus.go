// Package metrics provides Prometheus metrics for the paretoboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Refresh pipeline metrics
	refreshes            prometheus.Counter
	refreshesSkipped     prometheus.Counter
	refreshDuration      prometheus.Histogram
	insufficientPayloads prometheus.Counter

	// Upstream polling metrics
	upstreamFetches   *prometheus.CounterVec
	upstreamFallbacks prometheus.Counter
	snapshotAge       prometheus.Gauge

	// Derived view metrics
	viewGeneration prometheus.Gauge
	winnerCount    prometheus.Gauge
	minerCount     prometheus.Gauge
	subsetsPerRun  prometheus.Histogram

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "paretoboard",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.refreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refreshes_total",
		Help:      "Total number of completed view recomputations",
	})

	m.refreshesSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refreshes_skipped_total",
		Help:      "Refreshes skipped because the payload fingerprint was unchanged",
	})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_milliseconds",
		Help:      "Histogram of full recomputation duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.insufficientPayloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "insufficient_payloads_total",
		Help:      "Payloads whose columns yielded fewer than two environments",
	})

	m.upstreamFetches = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_fetches_total",
			Help:      "Upstream table fetches by outcome",
		},
		[]string{"outcome"},
	)

	m.upstreamFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_fallbacks_total",
		Help:      "Fetches served by the fallback endpoint after primary failure",
	})

	m.snapshotAge = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_age_seconds",
		Help:      "Age of the table snapshot behind the current view (staleness indicator)",
	})

	m.viewGeneration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "view_generation",
		Help:      "Monotonic count of published derived views",
	})

	m.winnerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "winner_count",
		Help:      "Subset winner records in the current view",
	})

	m.minerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "miner_count",
		Help:      "Miner rows in the current view",
	})

	m.subsetsPerRun = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subsets_per_run",
		Help:      "Subsets enumerated per recomputation (bounded by 2^8-1)",
		Buckets:   []float64{1, 3, 7, 15, 31, 63, 127, 255},
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "HTTP error responses by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current goroutine count",
	})
}

// RecordRefresh counts one completed recomputation.
func RecordRefresh() {
	if globalManager != nil && globalManager.enabled {
		globalManager.refreshes.Inc()
	}
}

// RecordRefreshSkipped counts a fingerprint-deduplicated refresh.
func RecordRefreshSkipped() {
	if globalManager != nil && globalManager.enabled {
		globalManager.refreshesSkipped.Inc()
	}
}

// RecordRefreshDuration observes one recomputation's wall time.
func RecordRefreshDuration(ms float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.refreshDuration.Observe(ms)
	}
}

// RecordInsufficientPayload counts a payload with too few environments.
func RecordInsufficientPayload() {
	if globalManager != nil && globalManager.enabled {
		globalManager.insufficientPayloads.Inc()
	}
}

// RecordUpstreamFetch counts an upstream fetch by outcome ("success"/"error").
func RecordUpstreamFetch(outcome string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.upstreamFetches.WithLabelValues(outcome).Inc()
	}
}

// RecordUpstreamFallback counts a fetch answered by the fallback endpoint.
func RecordUpstreamFallback() {
	if globalManager != nil && globalManager.enabled {
		globalManager.upstreamFallbacks.Inc()
	}
}

// UpdateSnapshotAge sets the staleness gauge.
func UpdateSnapshotAge(seconds float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.snapshotAge.Set(seconds)
	}
}

// UpdateViewGeneration sets the published view counter gauge.
func UpdateViewGeneration(gen int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.viewGeneration.Set(float64(gen))
	}
}

// UpdateWinnerCount sets the winner record gauge.
func UpdateWinnerCount(n int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.winnerCount.Set(float64(n))
	}
}

// UpdateMinerCount sets the miner row gauge.
func UpdateMinerCount(n int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.minerCount.Set(float64(n))
	}
}

// RecordSubsetsPerRun observes how many subsets a recomputation enumerated.
func RecordSubsetsPerRun(n int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.subsetsPerRun.Observe(float64(n))
	}
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes one HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
	}
}

// RecordErrorByEndpoint counts one HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the custom registry used for the /healthz exposition.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
