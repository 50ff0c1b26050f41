// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoOracle adapts any eino chat model (OpenAI-compatible, Ollama) to the
// Oracle interface.
type EinoOracle struct {
	Label       string
	Model       model.BaseChatModel
	MaxTokens   int
	Temperature float64
}

// Name implements Oracle.
func (e *EinoOracle) Name() string {
	if e.Label == "" {
		return "Eino"
	}
	return e.Label
}

// Extract implements Oracle.
func (e *EinoOracle) Extract(ctx context.Context, r Request) (string, error) {
	if e.Model == nil {
		return "", ErrOracleUnavailable
	}

	var opts []model.Option
	if e.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(e.MaxTokens))
	}
	opts = append(opts, model.WithTemperature(float32(e.Temperature)))

	resp, err := e.Model.Generate(ctx, []*schema.Message{
		schema.UserMessage(r.Prompt),
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("generating with %s: %w", e.Name(), err)
	}
	if resp == nil {
		return "", fmt.Errorf("%s returned no message", e.Name())
	}

	text := strings.TrimSpace(resp.Content)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text), nil
}
