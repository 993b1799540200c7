package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestMetrics_Usable verifies that all Prometheus metrics can be used without
// panic, ensuring label dimensions match usage across the client, http, and
// service packages.
func TestMetrics_Usable(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("POST", "/generateExcuse", "2xx").Inc()
	HTTPRequestDuration.WithLabelValues("POST", "/generateExcuse").Observe(0.01)
	HTTPRequestsInFlight.Inc()
	HTTPRequestsInFlight.Dec()
	RecordUpstreamCall(UpstreamGeolocation, "success", 0.05)
	RecordUpstreamCall(UpstreamWeather, "server_error", 0.2)
	RecordUpstreamError(UpstreamNews, "timeout")
	ExcusesGeneratedTotal.WithLabelValues(OutcomeGenerated).Inc()
	ExcusesGeneratedTotal.WithLabelValues(OutcomeFallback).Inc()
	NewsHeadlinesPerExcuse.Observe(5)
}

// TestMetricsHandler_ServesPrometheusFormat verifies that MetricsHandler serves
// Prometheus text exposition format with correct HTTP status and metric output.
func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "httpRequestsTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
	if !strings.Contains(body, "upstreamCallsTotal") {
		t.Error("MetricsHandler response should contain upstream call metrics")
	}
}
