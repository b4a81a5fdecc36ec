package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for both the client
// (outbound API calls) and the stub backend (inbound HTTP requests).
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	apiTotal        *prometheus.CounterVec
	sessionEvents   *prometheus.CounterVec

	apiCallCount  uint64
	apiErrorCount uint64
}

// Snapshot summarises client activity for the CLI.
type Snapshot struct {
	APICalls  uint64
	APIErrors uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests served by the stub backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests served by the stub backend",
	}, []string{"method", "path", "status"})

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "educonnect_api_call_duration_seconds",
		Help:    "Duration of backend API calls issued by the client",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	apiTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "educonnect_api_calls_total",
		Help: "Total number of backend API calls issued by the client",
	}, []string{"method", "endpoint", "status"})

	sessionEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "educonnect_session_events_total",
		Help: "Session lifecycle events (login, logout, redirect)",
	}, []string{"event"})

	registry.MustRegister(requestDuration, requestTotal, apiDuration, apiTotal, sessionEvents)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		apiDuration:     apiDuration,
		apiTotal:        apiTotal,
		sessionEvents:   sessionEvents,
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

// ObserveHTTPRequest records an inbound request on the stub backend.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveAPICall records an outbound call. status is 0 when the transport failed.
func (m *MetricsService) ObserveAPICall(method, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := "transport_error"
	if status > 0 {
		labelStatus = fmt.Sprintf("%d", status)
	}
	m.apiDuration.WithLabelValues(method, endpoint, labelStatus).Observe(duration.Seconds())
	m.apiTotal.WithLabelValues(method, endpoint, labelStatus).Inc()
	atomic.AddUint64(&m.apiCallCount, 1)
	if status == 0 || status >= 400 {
		atomic.AddUint64(&m.apiErrorCount, 1)
	}
}

// RecordSessionEvent counts login/logout/redirect events.
func (m *MetricsService) RecordSessionEvent(event string) {
	if m == nil {
		return
	}
	m.sessionEvents.WithLabelValues(event).Inc()
}

// Snapshot returns aggregated client counters.
func (m *MetricsService) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		APICalls:  atomic.LoadUint64(&m.apiCallCount),
		APIErrors: atomic.LoadUint64(&m.apiErrorCount),
	}
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
