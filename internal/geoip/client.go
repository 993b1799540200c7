// Package geoip resolves client IP addresses to approximate geographic
// locations using the ip-api.com JSON endpoint.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/relam-bot/Useless-Project-2.0/internal/models"
	"github.com/relam-bot/Useless-Project-2.0/internal/observability"
	"github.com/relam-bot/Useless-Project-2.0/internal/upstream"
)

// Resolver turns a client IP address into a geographic location.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (models.Location, error)
}

// ErrNoLocation means the provider answered but could not place the IP.
var ErrNoLocation = errors.New("no location for ip")

const statusSuccess = "success"

// EffectiveIP returns the address the resolver should look up. Loopback and
// empty addresses are replaced with the substitute so local development
// still yields a plausible location.
func EffectiveIP(ip, substitute string) string {
	trimmed := strings.TrimSpace(ip)
	if trimmed == "" {
		return substitute
	}
	if parsed := net.ParseIP(trimmed); parsed != nil && parsed.IsLoopback() {
		return substitute
	}
	return trimmed
}

// IPAPIClient resolves addresses against ip-api.com. The free tier allows 45
// requests per minute; the limiter keeps outbound calls under that.
type IPAPIClient struct {
	baseURL         string
	localSubstitute string
	timeout         time.Duration
	limiter         *rate.Limiter
	client          *http.Client
}

func NewIPAPIClient(baseURL, localSubstitute string, timeout time.Duration, ratePerMinute int) (*IPAPIClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("geolocation API URL is required")
	}
	if ratePerMinute <= 0 {
		return nil, fmt.Errorf("geolocation rate must be positive, got %d", ratePerMinute)
	}

	return &IPAPIClient{
		baseURL:         strings.TrimRight(baseURL, "/"),
		localSubstitute: localSubstitute,
		timeout:         timeout,
		limiter:         rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), ratePerMinute),
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type ipAPIResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	City       string  `json:"city"`
	RegionName string  `json:"regionName"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

func (c *IPAPIClient) Resolve(ctx context.Context, ip string) (models.Location, error) {
	effective := EffectiveIP(ip, c.localSubstitute)
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(reqCtx); err != nil {
		observability.RecordUpstreamError(observability.UpstreamGeolocation, string(upstream.Categorize(err)))
		return models.Location{}, fmt.Errorf("geolocation rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/"+effective, nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("create geolocation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if corrID := observability.CorrelationIDFromContext(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.RecordUpstreamCall(observability.UpstreamGeolocation, "error", time.Since(start).Seconds())
		observability.RecordUpstreamError(observability.UpstreamGeolocation, string(upstream.Categorize(err)))
		return models.Location{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	status := upstream.StatusLabel(resp.StatusCode)
	observability.RecordUpstreamCall(observability.UpstreamGeolocation, status, time.Since(start).Seconds())

	if err := upstream.StatusError(resp.StatusCode); err != nil {
		observability.RecordUpstreamError(observability.UpstreamGeolocation, string(upstream.Categorize(err)))
		return models.Location{}, fmt.Errorf("geolocation API: %w (HTTP %d)", err, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Location{}, fmt.Errorf("read geolocation response: %w", err)
	}

	var apiResp ipAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		observability.RecordUpstreamError(observability.UpstreamGeolocation, string(upstream.CategoryParsing))
		return models.Location{}, fmt.Errorf("%w: %v", upstream.ErrDecode, err)
	}

	// ip-api reports lookup failures as HTTP 200 with status "fail".
	if apiResp.Status != statusSuccess {
		if apiResp.Message != "" {
			return models.Location{}, fmt.Errorf("%w %s: %s", ErrNoLocation, effective, apiResp.Message)
		}
		return models.Location{}, fmt.Errorf("%w %s", ErrNoLocation, effective)
	}

	return models.Location{
		City:    apiResp.City,
		Region:  apiResp.RegionName,
		Country: apiResp.Country,
		Lat:     apiResp.Lat,
		Lon:     apiResp.Lon,
	}, nil
}
