// Package metrics provides Prometheus metrics for the classpick service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Draw pipeline
	drawsTotal     *prometheus.CounterVec
	drawErrors     *prometheus.CounterVec
	poolResets     *prometheus.CounterVec
	poolRemaining  *prometheus.GaugeVec
	historySize    prometheus.Gauge
	rosterSize     *prometheus.GaugeVec

	// Simulator sessions
	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	sessionsCancelled *prometheus.CounterVec
	sessionsRejected  prometheus.Counter
	sessionDuration   *prometheus.HistogramVec
	activeSessions    prometheus.Gauge

	// Persistence
	stateSaves      prometheus.Counter
	stateSaveErrors prometheus.Counter
	stateLoadErrors prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Process health
	systemMemoryBytes prometheus.Gauge
	systemGoroutines  prometheus.Gauge
}

var defaultManager *Manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	defaultManager = NewManager()
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "classpick",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.drawsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "draws_total",
		Help:      "Total draws finalized, by mode.",
	}, []string{"mode"})

	m.drawErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "draw_errors_total",
		Help:      "Draw attempts rejected, by error kind.",
	}, []string{"kind"})

	m.poolResets = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pool_resets_total",
		Help:      "No-repeat pool resets, by list.",
	}, []string{"list"})

	m.poolRemaining = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "pool_remaining",
		Help:      "Indices remaining in the no-repeat pool, by list.",
	}, []string{"list"})

	m.historySize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "history_size",
		Help:      "Entries currently retained in the outcome history.",
	})

	m.rosterSize = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "roster_size",
		Help:      "Participants in each roster.",
	}, []string{"list"})

	m.sessionsStarted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_started_total",
		Help:      "Simulator sessions started, by visualization.",
	}, []string{"visual"})

	m.sessionsCompleted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_completed_total",
		Help:      "Simulator sessions that reached Done, by visualization.",
	}, []string{"visual"})

	m.sessionsCancelled = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_cancelled_total",
		Help:      "Simulator sessions cancelled before Done, by visualization.",
	}, []string{"visual"})

	m.sessionsRejected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_rejected_total",
		Help:      "Draw requests rejected because a session was active.",
	})

	m.sessionDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "session_duration_ms",
		Help:      "Wall duration of completed simulator sessions in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"visual"})

	m.activeSessions = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "active_sessions",
		Help:      "Simulator sessions currently running (0 or 1).",
	})

	m.stateSaves = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "state_saves_total",
		Help:      "Successful state snapshot writes.",
	})

	m.stateSaveErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "state_save_errors_total",
		Help:      "Failed state snapshot writes (logged and ignored).",
	})

	m.stateLoadErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "state_load_errors_total",
		Help:      "Failed state snapshot reads (fell back to defaults).",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.systemMemoryBytes = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "system_memory_bytes",
		Help:      "Heap bytes currently allocated.",
	})

	m.systemGoroutines = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "system_goroutines",
		Help:      "Goroutines currently running.",
	})
}

// Package-level helpers against the default manager.

// RecordDraw counts a finalized draw for the given mode.
func RecordDraw(mode string) {
	defaultManager.drawsTotal.WithLabelValues(mode).Inc()
}

// RecordDrawError counts a rejected draw attempt.
func RecordDrawError(kind string) {
	defaultManager.drawErrors.WithLabelValues(kind).Inc()
}

// RecordPoolReset counts a no-repeat pool reset for the given list.
func RecordPoolReset(list string) {
	defaultManager.poolResets.WithLabelValues(list).Inc()
}

// UpdatePoolRemaining sets the remaining pool size for the given list.
func UpdatePoolRemaining(list string, n int) {
	defaultManager.poolRemaining.WithLabelValues(list).Set(float64(n))
}

// UpdateHistorySize sets the retained history length.
func UpdateHistorySize(n int) {
	defaultManager.historySize.Set(float64(n))
}

// UpdateRosterSize sets the participant count for the given list.
func UpdateRosterSize(list string, n int) {
	defaultManager.rosterSize.WithLabelValues(list).Set(float64(n))
}

// RecordSessionStarted counts a simulator session start.
func RecordSessionStarted(visual string) {
	defaultManager.sessionsStarted.WithLabelValues(visual).Inc()
	defaultManager.activeSessions.Set(1)
}

// RecordSessionCompleted counts a completed session and its duration.
func RecordSessionCompleted(visual string, durationMs float64) {
	defaultManager.sessionsCompleted.WithLabelValues(visual).Inc()
	defaultManager.sessionDuration.WithLabelValues(visual).Observe(durationMs)
	defaultManager.activeSessions.Set(0)
}

// RecordSessionCancelled counts a cancelled session.
func RecordSessionCancelled(visual string) {
	defaultManager.sessionsCancelled.WithLabelValues(visual).Inc()
	defaultManager.activeSessions.Set(0)
}

// RecordSessionRejected counts a draw refused while a session was active.
func RecordSessionRejected() {
	defaultManager.sessionsRejected.Inc()
}

// RecordStateSave counts a successful snapshot write.
func RecordStateSave() {
	defaultManager.stateSaves.Inc()
}

// RecordStateSaveError counts a failed snapshot write.
func RecordStateSaveError() {
	defaultManager.stateSaveErrors.Inc()
}

// RecordStateLoadError counts a failed snapshot read.
func RecordStateLoadError() {
	defaultManager.stateLoadErrors.Inc()
}

// RecordHTTPRequest counts a served HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method string, durationMs float64) {
	defaultManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	defaultManager.systemMemoryBytes.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	defaultManager.systemGoroutines.Set(float64(count))
}

// GetRegistry exposes the default registry for the /metrics handler.
func GetRegistry() *prometheus.Registry {
	return defaultManager.registry
}
