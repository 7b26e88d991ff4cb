// Package telemetry provides Prometheus metrics and tracing for the urlrisk
// service.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "urlrisk"

// Scan modes used as metric labels.
const (
	ModeTolerant = "tolerant"
	ModeStrict   = "strict"
	ModeLocal    = "local"
)

// Metrics holds all urlrisk Prometheus metrics.
type Metrics struct {
	ScansTotal      *prometheus.CounterVec
	ScanDuration    *prometheus.HistogramVec
	BackendLatency  prometheus.Histogram
	FallbacksTotal  *prometheus.CounterVec
	IndicatorsTotal *prometheus.CounterVec
}

// Provider wraps the tracer and metrics handles.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics and an otel
// tracer handle.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	return &Metrics{
		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "urlrisk_scans_total",
			Help: "Total URL scans by mode and resulting status",
		}, []string{"mode", "status"}),

		ScanDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "urlrisk_scan_duration_seconds",
			Help:    "Time to complete a scan, including any backend call",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"mode"}),

		BackendLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "urlrisk_backend_latency_seconds",
			Help:    "Round-trip latency of prediction backend calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),

		FallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "urlrisk_backend_fallbacks_total",
			Help: "Scans that fell back to local heuristics, by error type",
		}, []string{"error_type"}),

		IndicatorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "urlrisk_indicators_triggered_total",
			Help: "Heuristic indicators triggered across all scans",
		}, []string{"indicator"}),
	}
}

// RecordScan records a completed scan.
func (p *Provider) RecordScan(mode, status string, duration time.Duration) {
	p.Metrics.ScansTotal.WithLabelValues(mode, status).Inc()
	p.Metrics.ScanDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordBackendLatency records the round trip of one backend call.
func (p *Provider) RecordBackendLatency(duration time.Duration) {
	p.Metrics.BackendLatency.Observe(duration.Seconds())
}

// RecordFallback records a fallback to local heuristics.
func (p *Provider) RecordFallback(errorType string) {
	p.Metrics.FallbacksTotal.WithLabelValues(errorType).Inc()
}

// RecordIndicator records a triggered heuristic indicator.
func (p *Provider) RecordIndicator(indicator string) {
	p.Metrics.IndicatorsTotal.WithLabelValues(indicator).Inc()
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
