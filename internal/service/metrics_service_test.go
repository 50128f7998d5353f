package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/guardforce-admin/internal/store"
)

func TestObserveOperationCountsStaleResponses(t *testing.T) {
	m := NewMetricsService()

	m.ObserveOperation("guard", store.OpList, store.OutcomeSuccess, 10*time.Millisecond)
	m.ObserveOperation("guard", store.OpList, store.OutcomeStale, 5*time.Millisecond)
	m.ObserveOperation("guard", store.OpList, store.OutcomeStale, 5*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.operationTotal.WithLabelValues("guard", "list", "success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.staleTotal.WithLabelValues("guard", "list")))
}

func TestObserveRefreshAndHandler(t *testing.T) {
	m := NewMetricsService()
	m.ObserveOperation("guard", store.OpList, store.OutcomeSuccess, time.Millisecond)
	m.ObserveRefresh("duty-attendances", nil)
	m.ObserveRefresh("duty-attendances", errors.New("boom"))
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/guards", http.StatusOK, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.refreshTotal.WithLabelValues("duty-attendances", "failure")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `container_operations_total{entity="guard",operation="list",outcome="success"} 1`)
	assert.Contains(t, w.Body.String(), "auto_refresh_runs_total")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveOperation("guard", store.OpGet, store.OutcomeFailure, time.Millisecond)
		m.ObserveRefresh("guard", nil)
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
}
