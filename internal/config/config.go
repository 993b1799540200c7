// Package config loads service configuration from an optional YAML file,
// environment variables, and a secrets file, with sane defaults for
// everything except the upstream API keys.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ProviderGemini selects the Google Gemini generateContent API.
	ProviderGemini = "gemini"
	// ProviderOpenAI selects the OpenAI chat completions API.
	ProviderOpenAI = "openai"
)

// Config holds the resolved runtime configuration for the service.
type Config struct {
	ServerPort     string
	RequestTimeout time.Duration

	GeoAPIURL        string
	GeoAPITimeout    time.Duration
	GeoRatePerMinute int

	WeatherAPIKey     string
	WeatherAPIURL     string
	WeatherAPITimeout time.Duration

	NewsAPIKey     string
	NewsAPIURL     string
	NewsAPITimeout time.Duration
	NewsCountry    string
	NewsPageSize   int

	GeneratorProvider string
	GeneratorModel    string
	GeneratorTimeout  time.Duration
	GeminiAPIKey      string
	GeminiAPIURL      string
	OpenAIAPIKey      string

	Timezone     string
	TimeLocation *time.Location

	LocalIPSubstitute string
	RoleMaxLength     int

	CORSAllowedOrigins []string

	ShutdownTimeout               time.Duration
	ShutdownInFlightTimeout       time.Duration
	ShutdownInFlightCheckInterval time.Duration

	DegradedWindow   time.Duration
	DegradedErrorPct int
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`
	Geolocation struct {
		URL           string `yaml:"url"`
		Timeout       string `yaml:"timeout"`
		RatePerMinute int    `yaml:"rate_per_minute"`
	} `yaml:"geolocation"`
	Weather struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather"`
	News struct {
		URL      string `yaml:"url"`
		Timeout  string `yaml:"timeout"`
		Country  string `yaml:"country"`
		PageSize int    `yaml:"page_size"`
	} `yaml:"news"`
	Generator struct {
		Provider  string `yaml:"provider"`
		Model     string `yaml:"model"`
		Timeout   string `yaml:"timeout"`
		GeminiURL string `yaml:"gemini_url"`
	} `yaml:"generator"`
	Time struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"time"`
	ClientIP struct {
		LocalSubstitute string `yaml:"local_substitute"`
	} `yaml:"client_ip"`
	Role struct {
		MaxLength int `yaml:"max_length"`
	} `yaml:"role"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightTimeout       string `yaml:"inflight_timeout"`
		InFlightCheckInterval string `yaml:"inflight_check_interval"`
	} `yaml:"shutdown"`
	Health struct {
		DegradedWindow   string `yaml:"degraded_window"`
		DegradedErrorPct int    `yaml:"degraded_error_pct"`
	} `yaml:"health"`
}

type secretsFile struct {
	WeatherAPIKey string `yaml:"weather_api_key"`
	NewsAPIKey    string `yaml:"news_api_key"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
}

// Load reads config/{ENV_NAME}.yaml if present, applies environment
// overrides and defaults, and resolves secrets. It returns an error when a
// required key is missing or a value fails validation.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	var fc fileConfig
	path := filepath.Join("config", env+".yaml")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	secrets := loadSecrets()

	cfg := &Config{
		ServerPort:     defaultString(fc.Server.Port, "8000"),
		RequestTimeout: parseDurationOrZero(fc.Request.Timeout),

		GeoAPIURL:        defaultString(fc.Geolocation.URL, "http://ip-api.com/json"),
		GeoAPITimeout:    parseDuration(fc.Geolocation.Timeout, 5*time.Second),
		GeoRatePerMinute: defaultInt(fc.Geolocation.RatePerMinute, 45),

		WeatherAPIKey:     resolveSecret("WEATHER_API_KEY", secrets.WeatherAPIKey),
		WeatherAPIURL:     defaultString(fc.Weather.URL, "http://api.weatherapi.com/v1/current.json"),
		WeatherAPITimeout: parseDuration(fc.Weather.Timeout, 5*time.Second),

		NewsAPIKey:     resolveSecret("NEWS_API_KEY", secrets.NewsAPIKey),
		NewsAPIURL:     defaultString(fc.News.URL, "https://newsapi.org/v2/top-headlines"),
		NewsAPITimeout: parseDuration(fc.News.Timeout, 5*time.Second),
		NewsCountry:    defaultString(fc.News.Country, "us"),
		NewsPageSize:   defaultInt(fc.News.PageSize, 5),

		GeneratorProvider: resolveProvider(fc.Generator.Provider),
		GeneratorModel:    fc.Generator.Model,
		GeneratorTimeout:  parseDuration(fc.Generator.Timeout, 20*time.Second),
		GeminiAPIKey:      resolveSecret("GEMINI_API_KEY", secrets.GeminiAPIKey),
		GeminiAPIURL:      defaultString(fc.Generator.GeminiURL, "https://generativelanguage.googleapis.com"),
		OpenAIAPIKey:      resolveSecret("OPENAI_API_KEY", secrets.OpenAIAPIKey),

		Timezone: defaultString(fc.Time.Timezone, "Asia/Kolkata"),

		LocalIPSubstitute: defaultString(fc.ClientIP.LocalSubstitute, "8.8.8.8"),
		RoleMaxLength:     defaultInt(fc.Role.MaxLength, 120),

		CORSAllowedOrigins: fc.CORS.AllowedOrigins,

		ShutdownTimeout:               parseDuration(fc.Shutdown.Timeout, 30*time.Second),
		ShutdownInFlightTimeout:       parseDuration(fc.Shutdown.InFlightTimeout, 10*time.Second),
		ShutdownInFlightCheckInterval: parseDuration(fc.Shutdown.InFlightCheckInterval, 100*time.Millisecond),

		DegradedWindow:   parseDuration(fc.Health.DegradedWindow, time.Minute),
		DegradedErrorPct: defaultInt(fc.Health.DegradedErrorPct, 25),
	}

	if cfg.GeneratorModel == "" {
		cfg.GeneratorModel = defaultModel(cfg.GeneratorProvider)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}
	cfg.TimeLocation = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadSecrets() secretsFile {
	var s secretsFile
	data, err := os.ReadFile(filepath.Join("config", "secrets.yaml"))
	if err != nil {
		return s
	}
	_ = yaml.Unmarshal(data, &s)
	return s
}

// resolveSecret prefers the environment variable over the secrets file.
func resolveSecret(envKey, fileValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fileValue
}

// resolveProvider prefers the GENERATOR_PROVIDER environment variable so the
// provider can be switched without editing the config file.
func resolveProvider(fileValue string) string {
	if v := os.Getenv("GENERATOR_PROVIDER"); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return ProviderGemini
}

func defaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return "gpt-4o"
	}
	return "gemini-1.5-flash"
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func parseDuration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseDurationOrZero(v string) time.Duration {
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func (c *Config) validate() error {
	if c.WeatherAPIKey == "" {
		return fmt.Errorf("WEATHER_API_KEY is required")
	}
	if c.NewsAPIKey == "" {
		return fmt.Errorf("NEWS_API_KEY is required")
	}
	switch c.GeneratorProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when generator provider is %q", ProviderGemini)
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when generator provider is %q", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("unknown generator provider %q", c.GeneratorProvider)
	}

	if c.GeoAPITimeout <= 0 {
		return fmt.Errorf("geolocation timeout must be positive")
	}
	if c.WeatherAPITimeout <= 0 {
		return fmt.Errorf("weather timeout must be positive")
	}
	if c.NewsAPITimeout <= 0 {
		return fmt.Errorf("news timeout must be positive")
	}
	if c.GeneratorTimeout <= 0 {
		return fmt.Errorf("generator timeout must be positive")
	}
	if c.GeoRatePerMinute <= 0 {
		return fmt.Errorf("geolocation rate_per_minute must be positive")
	}
	if c.NewsPageSize <= 0 || c.NewsPageSize > 100 {
		return fmt.Errorf("news page_size must be between 1 and 100")
	}
	if c.RoleMaxLength <= 0 {
		return fmt.Errorf("role max_length must be positive")
	}

	// The request timeout has to cover the worst case where every upstream
	// runs to its own deadline in sequence.
	budget := c.GeoAPITimeout + c.WeatherAPITimeout + c.NewsAPITimeout + c.GeneratorTimeout
	if c.RequestTimeout <= budget {
		c.RequestTimeout = budget + 2*time.Second
	}
	return nil
}
