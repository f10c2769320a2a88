package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePipeline(t *testing.T) {
	m := New()

	m.ObservePipeline(OutcomeOK, 12, 10*time.Millisecond)
	m.ObservePipeline(OutcomeOK, 12, 10*time.Millisecond)
	m.ObservePipeline(OutcomeLoadError, 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pipelineRuns.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pipelineRuns.WithLabelValues(OutcomeLoadError)))
	// A failed load does not reset the gauge.
	assert.Equal(t, 12.0, testutil.ToFloat64(m.rowsLoaded))
}

func TestObserveHTTP(t *testing.T) {
	m := New()

	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	m.ObserveHTTP("GET", "/", 500, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/", "500")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObservePipeline(OutcomeDegraded, 3, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `dashboard_pipeline_runs_total{outcome="degraded"} 1`), body)
	assert.Contains(t, body, "dashboard_rows_loaded 3")
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NotPanics(t, func() {
		r.ObservePipeline(OutcomeOK, 1, time.Second)
		r.ObserveHTTP("GET", "/", 200, time.Second)
	})
}
