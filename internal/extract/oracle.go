// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/pdiddy/tieout/internal/schema"
	"github.com/pdiddy/tieout/pkg/types"
)

// ErrOracleUnavailable means no oracle can be reached, typically because no
// API key is configured. It is never retried.
var ErrOracleUnavailable = errors.New("oracle unavailable")

// Request is one extraction call: a rendered prompt plus the schema it was
// rendered from.
type Request struct {
	DocumentType types.DocumentType
	FileName     string
	Prompt       string
	Schema       schema.Schema
}

// Oracle abstracts the language model so tests can supply a fake. Extract
// returns the model's free-form answer, which should contain one JSON
// object.
type Oracle interface {
	Name() string
	Extract(ctx context.Context, req Request) (string, error)
}

const defaultOllamaURL = "http://localhost:11434"

// NewOracle builds the oracle selected by cfg.Provider. It returns
// ErrOracleUnavailable when the provider needs an API key and none is set.
func NewOracle(ctx context.Context, cfg types.AIConfig) (Oracle, error) {
	switch cfg.Provider {
	case "", types.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: anthropic API key not configured", ErrOracleUnavailable)
		}
		return &ClaudeOracle{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Client:      &http.Client{},
			MaxRetries:  cfg.MaxRetries,
		}, nil

	case types.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: openai API key not configured", ErrOracleUnavailable)
		}
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.CallTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating openai chat model: %w", err)
		}
		return &EinoOracle{
			Label:       "OpenAI",
			Model:       cm,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}, nil

	case types.ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		cm, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   cfg.Model,
			Timeout: cfg.CallTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating ollama chat model: %w", err)
		}
		return &EinoOracle{
			Label:       "Ollama",
			Model:       cm,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}, nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
}
