package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	return NewWithRegistry("test", prometheus.NewRegistry())
}

func TestRecordHTTPRequest(t *testing.T) {
	m := newTestMetrics()

	m.RecordHTTPRequest("POST", "/api/ai/generate-article", 200, 50*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/ai/generate-article", 403, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/ai/generate-article", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/ai/generate-article", "4xx")))
}

func TestRecordUpstream(t *testing.T) {
	m := newTestMetrics()

	m.RecordUpstream("llm", nil, time.Second)
	m.RecordUpstream("llm", errors.New("boom"), time.Second)
	m.RecordUpstream("llm", errors.New("boom"), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("llm", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("llm", "error")))
}

func TestSetBreakerOpen(t *testing.T) {
	m := newTestMetrics()

	m.SetBreakerOpen("media", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("media")))

	m.SetBreakerOpen("media", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("media")))
}

func TestRecordPipelineRun(t *testing.T) {
	m := newTestMetrics()

	m.RecordPipelineRun("article", OutcomeSuccess)
	m.RecordPipelineRun("article", OutcomeQuotaRejected)
	m.RecordPipelineRun("article", OutcomeSuccess)
	m.RecordUsageIncrementFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PipelineRunsTotal.WithLabelValues("article", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRunsTotal.WithLabelValues("article", OutcomeQuotaRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UsageIncrementFailures))
}

func TestStatusCodeToString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{302, "3xx"},
		{403, "4xx"},
		{500, "5xx"},
		{100, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusCodeToString(tt.code))
	}
}
