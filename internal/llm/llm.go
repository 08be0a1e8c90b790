// Package llm talks to chat completion providers on behalf of the pipeline.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/datawhisperer/datawhisperer/internal/config"
	"github.com/datawhisperer/datawhisperer/internal/nl2sql"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ChatCompleter sends a conversation to a model and returns its reply with
// surrounding whitespace removed.
type ChatCompleter interface {
	Complete(ctx context.Context, model string, messages []nl2sql.Message) (string, error)
}

// New builds the client for cfg.Provider.
func New(cfg config.LLMConfig) (ChatCompleter, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGroq, ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  httpClient,
		})
	case ProviderAnthropic:
		return NewAnthropicClient(AnthropicConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  httpClient,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
