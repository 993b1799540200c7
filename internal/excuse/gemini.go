package excuse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/relam-bot/Useless-Project-2.0/internal/observability"
	"github.com/relam-bot/Useless-Project-2.0/internal/upstream"
)

// GeminiClient generates text through the Gemini generateContent REST API.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
}

func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("Gemini API URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("Gemini model is required")
	}

	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

type geminiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode generation request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	if corrID := observability.CorrelationIDFromContext(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.RecordUpstreamCall(observability.UpstreamGenerator, "error", time.Since(start).Seconds())
		observability.RecordUpstreamError(observability.UpstreamGenerator, string(upstream.Categorize(err)))
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	status := upstream.StatusLabel(resp.StatusCode)
	observability.RecordUpstreamCall(observability.UpstreamGenerator, status, time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generation response: %w", err)
	}

	if statusErr := upstream.StatusError(resp.StatusCode); statusErr != nil {
		observability.RecordUpstreamError(observability.UpstreamGenerator, string(upstream.Categorize(statusErr)))
		if msg := geminiErrorMessage(body); msg != "" {
			return "", fmt.Errorf("generation API: %w: %s (HTTP %d)", statusErr, msg, resp.StatusCode)
		}
		return "", fmt.Errorf("generation API: %w (HTTP %d)", statusErr, resp.StatusCode)
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		observability.RecordUpstreamError(observability.UpstreamGenerator, string(upstream.CategoryParsing))
		return "", fmt.Errorf("%w: %v", upstream.ErrDecode, err)
	}

	text := apiResp.text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// text joins the first candidate's parts and trims surrounding whitespace.
func (r geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

func geminiErrorMessage(body []byte) string {
	var eb geminiErrorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Error.Message
}
