package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/guardforce-admin/internal/store"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP requests and
// container operations. It implements store.Observer.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	operationTotal    *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	staleTotal        *prometheus.CounterVec
	refreshTotal      *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	operationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "container_operations_total",
		Help: "Settled entity container operations",
	}, []string{"entity", "operation", "outcome"})

	operationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "container_operation_duration_seconds",
		Help:    "Duration of entity container operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity", "operation"})

	staleTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "container_stale_responses_total",
		Help: "List and get responses discarded because a newer request had already settled",
	}, []string{"entity", "operation"})

	refreshTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auto_refresh_runs_total",
		Help: "Scheduled live-board refreshes",
	}, []string{"entity", "result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, operationTotal, operationDuration, staleTotal, refreshTotal, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		staleTotal:        staleTotal,
		refreshTotal:      refreshTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry { return m.registry }

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveOperation implements store.Observer.
func (m *MetricsService) ObserveOperation(entity string, op store.Operation, outcome store.Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operationTotal.WithLabelValues(entity, string(op), string(outcome)).Inc()
	m.operationDuration.WithLabelValues(entity, string(op)).Observe(elapsed.Seconds())
	if outcome == store.OutcomeStale {
		m.staleTotal.WithLabelValues(entity, string(op)).Inc()
	}
}

// ObserveRefresh records one scheduled refresh of an entity.
func (m *MetricsService) ObserveRefresh(entity string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.refreshTotal.WithLabelValues(entity, result).Inc()
}
