package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCurrent_Success(t *testing.T) {
	// Arrange
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"key": q.Get("key"),
			"q":   q.Get("q"),
			"aqi": q.Get("aqi"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"current": {
				"temp_c": 31.4,
				"humidity": 78,
				"wind_kph": 13.0,
				"condition": {"text": "Partly cloudy"}
			}
		}`))
	}))
	defer server.Close()

	client, err := NewWeatherAPIClient(server.URL, "test-key", 2*time.Second)
	if err != nil {
		t.Fatalf("NewWeatherAPIClient returned error: %v", err)
	}

	// Act
	snap, err := client.Current(context.Background(), 12.9716, 77.5946)

	// Assert
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if gotQuery["key"] != "test-key" {
		t.Errorf("key param = %q, want %q", gotQuery["key"], "test-key")
	}
	if gotQuery["q"] != "12.9716,77.5946" {
		t.Errorf("q param = %q, want %q", gotQuery["q"], "12.9716,77.5946")
	}
	if gotQuery["aqi"] != "no" {
		t.Errorf("aqi param = %q, want %q", gotQuery["aqi"], "no")
	}
	if snap.Condition != "Partly cloudy" {
		t.Errorf("Condition = %q, want %q", snap.Condition, "Partly cloudy")
	}
	if snap.TemperatureC == nil || *snap.TemperatureC != 31.4 {
		t.Errorf("TemperatureC = %v, want 31.4", snap.TemperatureC)
	}
	if snap.Humidity == nil || *snap.Humidity != 78 {
		t.Errorf("Humidity = %v, want 78", snap.Humidity)
	}
	if snap.WindKph == nil || *snap.WindKph != 13.0 {
		t.Errorf("WindKph = %v, want 13.0", snap.WindKph)
	}
}

func TestCurrent_MissingFields(t *testing.T) {
	// Arrange: upstream omits condition text and wind speed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"temp_c": 18.0, "humidity": 60}}`))
	}))
	defer server.Close()

	client, err := NewWeatherAPIClient(server.URL, "test-key", 2*time.Second)
	if err != nil {
		t.Fatalf("NewWeatherAPIClient returned error: %v", err)
	}

	// Act
	snap, err := client.Current(context.Background(), 1, 2)

	// Assert
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if snap.Condition != ConditionUnknown {
		t.Errorf("Condition = %q, want %q", snap.Condition, ConditionUnknown)
	}
	if snap.WindKph != nil {
		t.Errorf("WindKph = %v, want nil", snap.WindKph)
	}
	if snap.TemperatureC == nil || *snap.TemperatureC != 18.0 {
		t.Errorf("TemperatureC = %v, want 18.0", snap.TemperatureC)
	}
}

func TestCurrent_HTTPErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{name: "bad request", statusCode: http.StatusBadRequest},
		{name: "unauthorized", statusCode: http.StatusUnauthorized},
		{name: "rate limited", statusCode: http.StatusTooManyRequests},
		{name: "server error", statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client, err := NewWeatherAPIClient(server.URL, "test-key", 2*time.Second)
			if err != nil {
				t.Fatalf("NewWeatherAPIClient returned error: %v", err)
			}

			// Act
			_, err = client.Current(context.Background(), 1, 2)

			// Assert
			if !errors.Is(err, ErrNoWeather) {
				t.Errorf("error = %v, want ErrNoWeather", err)
			}
		})
	}
}

func TestCurrent_TransportError(t *testing.T) {
	// Arrange: server closed before the call forces a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewWeatherAPIClient(server.URL, "test-key", time.Second)
	if err != nil {
		t.Fatalf("NewWeatherAPIClient returned error: %v", err)
	}

	// Act
	_, err = client.Current(context.Background(), 1, 2)

	// Assert
	if !errors.Is(err, ErrNoWeather) {
		t.Errorf("error = %v, want ErrNoWeather", err)
	}
}

func TestCurrent_MalformedBody(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client, err := NewWeatherAPIClient(server.URL, "test-key", 2*time.Second)
	if err != nil {
		t.Fatalf("NewWeatherAPIClient returned error: %v", err)
	}

	// Act
	_, err = client.Current(context.Background(), 1, 2)

	// Assert
	if !errors.Is(err, ErrNoWeather) {
		t.Errorf("error = %v, want ErrNoWeather", err)
	}
}

func TestNewWeatherAPIClient_Validation(t *testing.T) {
	if _, err := NewWeatherAPIClient("", "key", time.Second); err == nil {
		t.Error("expected error for empty URL")
	}
	if _, err := NewWeatherAPIClient("http://api.weatherapi.com/v1/current.json", "", time.Second); err == nil {
		t.Error("expected error for empty API key")
	}
}
