// Package prometheus exposes the engine's operational metrics on a private
// registry served at /metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kycengine"

// Metrics holds every metric the engine emits.  A single instance is shared
// by the HTTP layer, the worker pipeline, and the validation service.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Run lifecycle
	RunsCreatedTotal   prometheus.Counter
	RunsValidatedTotal prometheus.Counter
	ValidationScore    prometheus.Histogram
	ValidationDuration prometheus.Histogram
	FlagsEmittedTotal  *prometheus.CounterVec

	// Extraction pipeline
	DocumentsExtractedTotal *prometheus.CounterVec
	ExtractionDuration      *prometheus.HistogramVec

	// Messaging
	EventsPublishedTotal *prometheus.CounterVec
	DeadLettersTotal     prometheus.Counter
}

// NewMetrics registers all metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route, and status code.",
	}, []string{"method", "route", "status"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "route"})

	m.RunsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_created_total",
		Help:      "KYC runs created.",
	})

	m.RunsValidatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_validated_total",
		Help:      "KYC runs validated.",
	})

	m.ValidationScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "validation_score",
		Help:      "Distribution of completeness scores.",
		Buckets:   []float64{0, .1, .2, .3, .4, .5, .6, .7, .8, .9, 1},
	})

	m.ValidationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "validation_duration_seconds",
		Help:      "Profile assembly and validation latency.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	})

	m.FlagsEmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flags_emitted_total",
		Help:      "Validation flags by code and severity level.",
	}, []string{"code", "level"})

	m.DocumentsExtractedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_extracted_total",
		Help:      "Document extractions by type and outcome.",
	}, []string{"doc_type", "status"})

	m.ExtractionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "extraction_duration_seconds",
		Help:      "External extractor round-trip latency by document type.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"doc_type"})

	m.EventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Kafka events published by topic.",
	}, []string{"topic"})

	m.DeadLettersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dead_letters_total",
		Help:      "Events sent to the dead-letter topic.",
	})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RunsCreatedTotal,
		m.RunsValidatedTotal,
		m.ValidationScore,
		m.ValidationDuration,
		m.FlagsEmittedTotal,
		m.DocumentsExtractedTotal,
		m.ExtractionDuration,
		m.EventsPublishedTotal,
		m.DeadLettersTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveExtraction records one extractor round trip.
func (m *Metrics) ObserveExtraction(docType, status string, elapsed time.Duration) {
	m.DocumentsExtractedTotal.WithLabelValues(docType, status).Inc()
	m.ExtractionDuration.WithLabelValues(docType).Observe(elapsed.Seconds())
}

// ObserveValidation records one completed validation: the score and every
// emitted flag.
func (m *Metrics) ObserveValidation(score float64, flagCodes map[string]string, elapsed time.Duration) {
	m.RunsValidatedTotal.Inc()
	m.ValidationScore.Observe(score)
	m.ValidationDuration.Observe(elapsed.Seconds())
	for code, level := range flagCodes {
		m.FlagsEmittedTotal.WithLabelValues(code, level).Inc()
	}
}
