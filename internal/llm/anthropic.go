package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/datawhisperer/datawhisperer/internal/nl2sql"
)

const defaultAnthropicMaxTokens = 512

type AnthropicConfig struct {
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
}

type AnthropicClient struct {
	client      anthropic.Client
	temperature float64
	maxTokens   int64
}

// NewAnthropicClient falls back to ANTHROPIC_API_KEY when no key is given.
// Retries are disabled.
func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if apiKey := strings.TrimSpace(cfg.APIKey); apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	return &AnthropicClient{
		client:      anthropic.NewClient(opts...),
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Complete moves system messages into the system block and sends the rest
// as the conversation.
func (c *AnthropicClient) Complete(ctx context.Context, model string, messages []nl2sql.Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
	}
	for _, message := range messages {
		switch message.Role {
		case nl2sql.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Type: "text", Text: message.Content})
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(message.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(message.Content)))
		}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			if text := strings.TrimSpace(block.Text); text != "" {
				return text, nil
			}
		}
	}
	return "", fmt.Errorf("no text content in response")
}
