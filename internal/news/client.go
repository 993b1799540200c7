// Package news fetches top headlines from newsapi.org.
package news

import (
	"context"
	"encoding/json"
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

// Fetcher reports current top headlines.
type Fetcher interface {
	TopHeadlines(ctx context.Context) ([]models.NewsItem, error)
}

// NewsAPIClient fetches country-level top headlines from newsapi.org.
type NewsAPIClient struct {
	baseURL  string
	apiKey   string
	country  string
	pageSize int
	timeout  time.Duration
	client   *http.Client
}

func NewNewsAPIClient(baseURL, apiKey, country string, pageSize int, timeout time.Duration) (*NewsAPIClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("news API URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("news API key is required")
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("news page size must be positive, got %d", pageSize)
	}

	return &NewsAPIClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		country:  country,
		pageSize: pageSize,
		timeout:  timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type newsAPIResponse struct {
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (c *NewsAPIClient) TopHeadlines(ctx context.Context) ([]models.NewsItem, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.RecordUpstreamCall(observability.UpstreamNews, "error", time.Since(start).Seconds())
		observability.RecordUpstreamError(observability.UpstreamNews, string(upstream.Categorize(err)))
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	status := upstream.StatusLabel(resp.StatusCode)
	observability.RecordUpstreamCall(observability.UpstreamNews, status, time.Since(start).Seconds())

	if statusErr := upstream.StatusError(resp.StatusCode); statusErr != nil {
		observability.RecordUpstreamError(observability.UpstreamNews, string(upstream.Categorize(statusErr)))
		return nil, fmt.Errorf("news API: %w (HTTP %d)", statusErr, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}

	var apiResp newsAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		observability.RecordUpstreamError(observability.UpstreamNews, string(upstream.CategoryParsing))
		return nil, fmt.Errorf("%w: %v", upstream.ErrDecode, err)
	}

	items := make([]models.NewsItem, 0, len(apiResp.Articles))
	for _, article := range apiResp.Articles {
		items = append(items, models.NewsItem{
			Title:  article.Title,
			Source: article.Source.Name,
			URL:    article.URL,
		})
	}
	return items, nil
}

func (c *NewsAPIClient) buildRequest(ctx context.Context) (*http.Request, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid news API URL: %w", err)
	}

	params := url.Values{}
	params.Set("country", c.country)
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("apiKey", c.apiKey)
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
