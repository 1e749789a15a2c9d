package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeQuotaRejected  = "quota_rejected"
	OutcomeForbidden      = "forbidden"
	OutcomeInvalid        = "invalid"
	OutcomeUpstreamFailed = "upstream_failed"
	OutcomePersistFailed  = "persist_failed"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Upstream metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
	BreakerState            *prometheus.GaugeVec

	// Pipeline metrics
	PipelineRunsTotal      *prometheus.CounterVec
	UsageIncrementFailures prometheus.Counter
}

// New creates a new Metrics instance registered on the default registry.
func New(namespace string) *Metrics {
	return NewWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Metrics instance registered on reg.
func NewWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "quickai"
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of calls to third-party services",
			},
			[]string{"service", "status"}, // status: ok, error
		),
		UpstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Third-party service call duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"service"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "breaker_open",
				Help:      "Circuit breaker state (1=open, 0=closed or half-open)",
			},
			[]string{"service"},
		),

		PipelineRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Total number of pipeline runs by operation and outcome",
			},
			[]string{"kind", "outcome"},
		),
		UsageIncrementFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "usage_increment_failures_total",
				Help:      "Usage counter increments that failed after a record was persisted",
			},
		),
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordUpstream records one call to a third-party service.
func (m *Metrics) RecordUpstream(service string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.UpstreamRequestsTotal.WithLabelValues(service, status).Inc()
	m.UpstreamRequestDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// SetBreakerOpen records whether the breaker for service is open.
func (m *Metrics) SetBreakerOpen(service string, open bool) {
	value := 0.0
	if open {
		value = 1.0
	}
	m.BreakerState.WithLabelValues(service).Set(value)
}

// RecordPipelineRun records the terminal outcome of one pipeline run.
func (m *Metrics) RecordPipelineRun(kind, outcome string) {
	m.PipelineRunsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordUsageIncrementFailure counts a lost usage increment.
func (m *Metrics) RecordUsageIncrementFailure() {
	m.UsageIncrementFailures.Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
