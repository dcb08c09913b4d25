package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveHTTPRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTPRequest("GET", "/api/v1/runs/{id}", "200", 25*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/runs/{id}", "200", 30*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/api/v1/runs", "409", time.Millisecond)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/runs/{id}", "200")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/runs", "409")))
}

func TestMetrics_ObserveValidation(t *testing.T) {
	m := NewMetrics()

	m.ObserveValidation(0.85, map[string]string{
		"NAME_MISMATCH":     "warning",
		"NO_FULL_SIGNATORY": "critical",
	}, 10*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RunsValidatedTotal))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.FlagsEmittedTotal.WithLabelValues("NAME_MISMATCH", "warning")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.FlagsEmittedTotal.WithLabelValues("NO_FULL_SIGNATORY", "critical")))
}

func TestMetrics_ObserveExtraction(t *testing.T) {
	m := NewMetrics()

	m.ObserveExtraction("sat_constancia", "ok", 2*time.Second)
	m.ObserveExtraction("sat_constancia", "error", time.Second)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.DocumentsExtractedTotal.WithLabelValues("sat_constancia", "ok")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.DocumentsExtractedTotal.WithLabelValues("sat_constancia", "error")))
}

func TestMetrics_HandlerServesRegistry(t *testing.T) {
	m := NewMetrics()
	m.RunsCreatedTotal.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "kycengine_runs_created_total 1")
}
