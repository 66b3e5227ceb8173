package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisioned(t *testing.T) {
	m := New()
	m.Provisioned(OutcomeCreated)
	m.Provisioned(OutcomeCreated)
	m.Provisioned(OutcomeReused)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.ProvisioningCounter(OutcomeCreated)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ProvisioningCounter(OutcomeReused)))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.ProvisioningCounter(OutcomeRejected)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/patients", "200", 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `globaldent_http_requests_total{method="GET",route="/api/patients",status="200"} 1`)
	assert.Contains(t, body, "globaldent_http_request_duration_seconds_bucket")
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Provisioned(OutcomeCreated)
		m.ObserveRequest(http.MethodGet, "/", "200", 0)
	})
	assert.NotNil(t, m.Handler())
}
