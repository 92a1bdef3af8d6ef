package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the
// issuance and rendering pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	issuanceTotal   *prometheus.CounterVec
	folioRetries    prometheus.Counter
	renderDuration  *prometheus.HistogramVec
	documentsServed *prometheus.CounterVec
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

	issuanceTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "issuance_total",
		Help: "Issuance attempts by outcome",
	}, []string{"outcome"})

	folioRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "folio_allocation_retries_total",
		Help: "Folio allocation attempts that lost the optimistic write race",
	})

	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "certificate_render_duration_seconds",
		Help:    "Time spent rendering certificate documents",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	documentsServed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "certificate_documents_served_total",
		Help: "Certificate documents served by source",
	}, []string{"source"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, issuanceTotal, folioRetries, renderDuration, documentsServed, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		issuanceTotal:   issuanceTotal,
		folioRetries:    folioRetries,
		renderDuration:  renderDuration,
		documentsServed: documentsServed,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordIssuance tallies an issuance attempt outcome (issued, rejected,
// conflict, incomplete).
func (m *MetricsService) RecordIssuance(outcome string) {
	if m == nil {
		return
	}
	m.issuanceTotal.WithLabelValues(outcome).Inc()
}

// RecordFolioRetry counts a lost optimistic-concurrency race.
func (m *MetricsService) RecordFolioRetry() {
	if m == nil {
		return
	}
	m.folioRetries.Inc()
}

// ObserveDocument records a served certificate document and the time it
// took, labelled by source (cache or render).
func (m *MetricsService) ObserveDocument(source string, duration time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(source).Observe(duration.Seconds())
	m.documentsServed.WithLabelValues(source).Inc()
}
