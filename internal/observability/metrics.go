package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream service labels used on the outbound-call metrics.
const (
	UpstreamGeolocation = "geolocation"
	UpstreamWeather     = "weather"
	UpstreamNews        = "news"
	UpstreamGenerator   = "generator"
)

// Excuse outcome labels.
const (
	OutcomeGenerated = "generated"
	OutcomeFallback  = "fallback"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Watch for: p95/p99 increases — one excuse
	// request spans four sequential upstream calls, so latency compounds.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight. Watch for: saturation, capacity limits.
	HTTPRequestsInFlight prometheus.Gauge

	// Outbound call rate per upstream (geolocation, weather, news, generator).
	// Watch for: error vs success ratio per service.
	UpstreamCallsTotal *prometheus.CounterVec

	// Outbound call latency per upstream. Watch for: p95 > 2s (upstream
	// degradation), p99 near the configured timeout (timeout risk).
	UpstreamCallDuration *prometheus.HistogramVec

	// Outbound failures by stable category (timeout, network, upstream_5xx, ...).
	UpstreamErrorsTotal *prometheus.CounterVec

	// Excuse outcomes: generated upstream vs fixed fallback sentence.
	ExcusesGeneratedTotal *prometheus.CounterVec

	// Headlines embedded per excuse. 0 means the news upstream was down or empty.
	NewsHeadlinesPerExcuse prometheus.Histogram
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	UpstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstreamCallsTotal",
			Help: "Total number of outbound upstream API calls",
		},
		[]string{"service", "status"},
	)
	UpstreamCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstreamCallDurationSeconds",
			Help:    "Outbound upstream API latency in seconds (per call)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "status"},
	)
	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstreamErrorsTotal",
			Help: "Outbound upstream failures by stable error category",
		},
		[]string{"service", "category"},
	)
	ExcusesGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "excusesGeneratedTotal",
			Help: "Excuse outcomes: generated by the model vs fixed fallback text",
		},
		[]string{"outcome"},
	)
	NewsHeadlinesPerExcuse = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsHeadlinesPerExcuse",
			Help:    "Headlines embedded in the prompt per excuse request",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		UpstreamCallsTotal, UpstreamCallDuration, UpstreamErrorsTotal,
		ExcusesGeneratedTotal, NewsHeadlinesPerExcuse,
	)
}

// RecordUpstreamCall records one outbound call with its status label and latency.
func RecordUpstreamCall(service, status string, seconds float64) {
	UpstreamCallsTotal.WithLabelValues(service, status).Inc()
	UpstreamCallDuration.WithLabelValues(service, status).Observe(seconds)
}

// RecordUpstreamError records an outbound failure under a stable category label.
func RecordUpstreamError(service, category string) {
	UpstreamErrorsTotal.WithLabelValues(service, category).Inc()
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
