package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/datawhisperer/datawhisperer/internal/nl2sql"
)

type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
}

// OpenAIClient serves OpenAI and any service speaking its chat completions
// protocol, Groq included.
type OpenAIClient struct {
	client      *openai.Client
	temperature float32
	maxTokens   int
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	// go-openai omits a zero temperature, which leaves the provider default
	// (about 1.0) in place.
	temperature := float32(cfg.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, model string, messages []nl2sql.Message) (string, error) {
	chat := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, message := range messages {
		chat = append(chat, openai.ChatCompletionMessage{Role: message.Role, Content: message.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    chat,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("request chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("model returned empty content")
	}
	return content, nil
}
