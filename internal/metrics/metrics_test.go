package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	t.Parallel()
	m := NewRegistry()
	m.ObserveRequest("/api/orders", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest("/api/orders", http.MethodGet, http.StatusOK, 30*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/orders", "GET", "200")))
}

func TestObserveBatch(t *testing.T) {
	t.Parallel()
	m := NewRegistry()
	m.ObserveBatch(3, 1, true)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.OrdersWritten.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersWritten.WithLabelValues("delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchFailures))
}

func TestHandlerServesExposition(t *testing.T) {
	t.Parallel()
	m := NewRegistry()
	m.ObserveRequest("/health", http.MethodGet, http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "webdiner_http_requests_total")
}
