package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gobd/apicontract/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest(http.MethodPost, "/users", http.StatusCreated, 12*time.Millisecond)
	m.Violations("CreateUserInput", 3)
	m.Violations("", 1)
	m.IntegrityFault("order")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `shopd_http_requests_total{method="POST",route="/users",status="201"} 1`)
	assert.Contains(t, out, `shopd_http_request_duration_seconds_count{method="POST",route="/users"} 1`)
	assert.Contains(t, out, `shopd_validation_violations_total{schema="CreateUserInput"} 3`)
	assert.Contains(t, out, `shopd_validation_violations_total{schema="unnamed"} 1`)
	assert.Contains(t, out, `shopd_integrity_faults_total{entity="order"} 1`)
}
