// Package weather fetches current conditions for a coordinate pair from
// weatherapi.com.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/relam-bot/Useless-Project-2.0/internal/models"
	"github.com/relam-bot/Useless-Project-2.0/internal/observability"
	"github.com/relam-bot/Useless-Project-2.0/internal/upstream"
)

// Fetcher reports current conditions at a coordinate pair.
type Fetcher interface {
	Current(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
}

// ErrNoWeather wraps every failure mode of the fetcher. Callers only need to
// know that no usable weather came back.
var ErrNoWeather = errors.New("no weather data")

// ConditionUnknown is reported when the upstream omits the condition text.
const ConditionUnknown = "Unknown"

// WeatherAPIClient fetches current conditions from weatherapi.com.
type WeatherAPIClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

func NewWeatherAPIClient(baseURL, apiKey string, timeout time.Duration) (*WeatherAPIClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("weather API URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("weather API key is required")
	}

	return &WeatherAPIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type weatherAPIResponse struct {
	Current struct {
		TempC     *float64 `json:"temp_c"`
		Humidity  *int     `json:"humidity"`
		WindKph   *float64 `json:"wind_kph"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

func (c *WeatherAPIClient) Current(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, lat, lon)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: %v", ErrNoWeather, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.RecordUpstreamCall(observability.UpstreamWeather, "error", time.Since(start).Seconds())
		observability.RecordUpstreamError(observability.UpstreamWeather, string(upstream.Categorize(err)))
		return models.WeatherSnapshot{}, fmt.Errorf("%w: %v", ErrNoWeather, err)
	}
	defer resp.Body.Close()

	status := upstream.StatusLabel(resp.StatusCode)
	observability.RecordUpstreamCall(observability.UpstreamWeather, status, time.Since(start).Seconds())

	if statusErr := upstream.StatusError(resp.StatusCode); statusErr != nil {
		observability.RecordUpstreamError(observability.UpstreamWeather, string(upstream.Categorize(statusErr)))
		return models.WeatherSnapshot{}, fmt.Errorf("%w: HTTP %d", ErrNoWeather, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: read response: %v", ErrNoWeather, err)
	}

	var apiResp weatherAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		observability.RecordUpstreamError(observability.UpstreamWeather, string(upstream.CategoryParsing))
		return models.WeatherSnapshot{}, fmt.Errorf("%w: parse response: %v", ErrNoWeather, err)
	}

	condition := apiResp.Current.Condition.Text
	if condition == "" {
		condition = ConditionUnknown
	}

	return models.WeatherSnapshot{
		Condition:    condition,
		TemperatureC: apiResp.Current.TempC,
		Humidity:     apiResp.Current.Humidity,
		WindKph:      apiResp.Current.WindKph,
	}, nil
}

func (c *WeatherAPIClient) buildRequest(ctx context.Context, lat, lon float64) (*http.Request, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid weather API URL: %w", err)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("aqi", "no")
	base.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if corrID := observability.CorrelationIDFromContext(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}
	return req, nil
}
