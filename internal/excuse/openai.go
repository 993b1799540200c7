package excuse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/relam-bot/Useless-Project-2.0/internal/observability"
	"github.com/relam-bot/Useless-Project-2.0/internal/upstream"
)

// OpenAIClient generates text through the OpenAI chat completions API.
type OpenAIClient struct {
	client  openai.Client
	model   openai.ChatModel
	timeout time.Duration
}

// NewOpenAIClient builds the client. Extra request options are appended
// after the defaults, which lets tests point the SDK at a local server.
func NewOpenAIClient(apiKey, model string, timeout time.Duration, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model is required")
	}

	// MaxRetries(0) keeps the SDK's built-in retry loop off; failed
	// generations fall back at the orchestrator instead of being retried.
	options := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAIClient{
		client:  openai.NewClient(options...),
		model:   openai.ChatModel(model),
		timeout: timeout,
	}, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chat, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: c.model,
	})
	if err != nil {
		observability.RecordUpstreamCall(observability.UpstreamGenerator, "error", time.Since(start).Seconds())
		observability.RecordUpstreamError(observability.UpstreamGenerator, string(upstream.Categorize(err)))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	observability.RecordUpstreamCall(observability.UpstreamGenerator, "success", time.Since(start).Seconds())

	if len(chat.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(chat.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
