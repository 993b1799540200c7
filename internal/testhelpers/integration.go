//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"testing"
	"time"

	"github.com/relam-bot/Useless-Project-2.0/internal/excuse"
	"github.com/relam-bot/Useless-Project-2.0/internal/geoip"
	"github.com/relam-bot/Useless-Project-2.0/internal/news"
	"github.com/relam-bot/Useless-Project-2.0/internal/observability"
	"github.com/relam-bot/Useless-Project-2.0/internal/service"
	"github.com/relam-bot/Useless-Project-2.0/internal/transit"
	"github.com/relam-bot/Useless-Project-2.0/internal/weather"
)

// IntegrationTestConfig holds the upstream endpoints and keys for live tests.
type IntegrationTestConfig struct {
	WeatherAPIKey string
	NewsAPIKey    string
	GeminiAPIKey  string
	GeoAPIURL     string
	WeatherAPIURL string
	NewsAPIURL    string
	GeminiAPIURL  string
}

// GetIntegrationConfig loads integration test configuration from the
// environment. Skips the test when any required key is absent, so the suite
// passes on machines without real credentials.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	weatherKey := os.Getenv("WEATHER_API_KEY")
	if weatherKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}
	newsKey := os.Getenv("NEWS_API_KEY")
	if newsKey == "" {
		t.Skip("NEWS_API_KEY not set, skipping integration test")
	}
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping integration test")
	}

	cfg := IntegrationTestConfig{
		WeatherAPIKey: weatherKey,
		NewsAPIKey:    newsKey,
		GeminiAPIKey:  geminiKey,
		GeoAPIURL:     os.Getenv("GEO_API_URL"),
		WeatherAPIURL: os.Getenv("WEATHER_API_URL"),
		NewsAPIURL:    os.Getenv("NEWS_API_URL"),
		GeminiAPIURL:  os.Getenv("GEMINI_API_URL"),
	}
	if cfg.GeoAPIURL == "" {
		cfg.GeoAPIURL = "http://ip-api.com/json"
	}
	if cfg.WeatherAPIURL == "" {
		cfg.WeatherAPIURL = "http://api.weatherapi.com/v1/current.json"
	}
	if cfg.NewsAPIURL == "" {
		cfg.NewsAPIURL = "https://newsapi.org/v2/top-headlines"
	}
	if cfg.GeminiAPIURL == "" {
		cfg.GeminiAPIURL = "https://generativelanguage.googleapis.com"
	}
	return cfg
}

// SetupIntegrationService wires a full excuse pipeline against the real
// upstreams for end-to-end tests.
func SetupIntegrationService(t *testing.T, cfg IntegrationTestConfig) *service.ExcuseService {
	logger, err := observability.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	resolver, err := geoip.NewIPAPIClient(cfg.GeoAPIURL, "8.8.8.8", 5*time.Second, 45)
	if err != nil {
		t.Fatalf("NewIPAPIClient() error = %v", err)
	}
	weatherClient, err := weather.NewWeatherAPIClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, 5*time.Second)
	if err != nil {
		t.Fatalf("NewWeatherAPIClient() error = %v", err)
	}
	newsClient, err := news.NewNewsAPIClient(cfg.NewsAPIURL, cfg.NewsAPIKey, "us", 5, 5*time.Second)
	if err != nil {
		t.Fatalf("NewNewsAPIClient() error = %v", err)
	}
	generator, err := excuse.NewGeminiClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, "gemini-1.5-flash", 20*time.Second)
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}

	tz, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}

	return service.NewExcuseService(
		resolver,
		weatherClient,
		newsClient,
		transit.NewStubProvider(logger),
		generator,
		tz,
		"8.8.8.8",
	)
}
