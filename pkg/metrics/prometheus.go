package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auto-advance outcomes.
const (
	AutoAdvanceFired     = "fired"
	AutoAdvanceCancelled = "cancelled"
)

// Manager owns the application metrics.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Questionnaire
	answersRecorded *prometheus.CounterVec
	autoAdvance     *prometheus.CounterVec
	sectionsDone    *prometheus.CounterVec

	// Submission
	submissions       *prometheus.CounterVec
	submissionLatency prometheus.Histogram

	// LLM
	llmRequests *prometheus.CounterVec

	// Fixture HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var (
	customRegistry = prometheus.NewRegistry()
	globalManager  *Manager
	globalOnce     sync.Once
)

func global() *Manager {
	globalOnce.Do(func() {
		customRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		globalManager = NewManager(WithPrometheusRegistry(customRegistry))
	})
	return globalManager
}

// NewManager creates a metrics manager. Without a registry option the
// metrics go to the default Prometheus registerer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sportsmind",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
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

	m.answersRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "answers_recorded_total",
		Help:      "Answers written to the answer store, by respondent role",
	}, []string{"role"})

	m.autoAdvance = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auto_advance_total",
		Help:      "Scheduled section auto-advances by outcome",
	}, []string{"outcome"})

	m.sectionsDone = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sections_completed_total",
		Help:      "Sections that became fully answered, by category",
	}, []string{"category"})

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Test submissions by outcome",
	}, []string{"outcome"})

	m.submissionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submission_latency_milliseconds",
		Help:      "Round trip of accepted submissions in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.llmRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_requests_total",
		Help:      "LLM requests by provider, purpose and success",
	}, []string{"provider", "purpose", "success"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Fixture service HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Fixture service HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordAnswer counts one answer write.
func (m *Manager) RecordAnswer(role string) {
	if !m.enabled {
		return
	}
	m.answersRecorded.WithLabelValues(role).Inc()
}

// RecordAutoAdvance counts an auto-advance outcome.
func (m *Manager) RecordAutoAdvance(outcome string) {
	if !m.enabled {
		return
	}
	m.autoAdvance.WithLabelValues(outcome).Inc()
}

// RecordSectionCompleted counts a section reaching full completion.
func (m *Manager) RecordSectionCompleted(category string) {
	if !m.enabled {
		return
	}
	m.sectionsDone.WithLabelValues(category).Inc()
}

// RecordSubmission counts a submission attempt.
func (m *Manager) RecordSubmission(outcome string) {
	if !m.enabled {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// RecordSubmissionLatency records an accepted submission's round trip.
func (m *Manager) RecordSubmissionLatency(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.submissionLatency.Observe(latencyMs)
}

// RecordLLMRequest counts an LLM call.
func (m *Manager) RecordLLMRequest(provider, purpose string, success bool) {
	if !m.enabled {
		return
	}
	m.llmRequests.WithLabelValues(provider, purpose, strconv.FormatBool(success)).Inc()
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(endpoint, method string, status int, durationMs float64) {
	if !m.enabled {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(durationMs)
}

// Global returns the process-wide manager backed by the custom registry.
func Global() *Manager {
	return global()
}

// RecordAnswer counts one answer write on the global manager.
func RecordAnswer(role string) { global().RecordAnswer(role) }

// RecordAutoAdvance counts an auto-advance outcome on the global manager.
func RecordAutoAdvance(outcome string) { global().RecordAutoAdvance(outcome) }

// RecordSectionCompleted counts a completed section on the global manager.
func RecordSectionCompleted(category string) { global().RecordSectionCompleted(category) }

// RecordSubmission counts a submission on the global manager.
func RecordSubmission(outcome string) { global().RecordSubmission(outcome) }

// RecordSubmissionLatency records submission latency on the global manager.
func RecordSubmissionLatency(latencyMs float64) { global().RecordSubmissionLatency(latencyMs) }

// RecordLLMRequest counts an LLM call on the global manager.
func RecordLLMRequest(provider, purpose string, success bool) {
	global().RecordLLMRequest(provider, purpose, success)
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	global()
	return customRegistry
}

// Handler serves the global registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
