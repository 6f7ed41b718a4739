// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/resume-md/pkg/types"
)

// Generator sends one prompt to a hosted model and returns its text.
// Tests supply fakes; production uses GeminiGenerator or OpenAIGenerator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFactory builds a Generator for cfg. It is only called after the
// credential has been validated.
type GeneratorFactory func(ctx context.Context, cfg types.AIConfig) (Generator, error)

// APIError is a failure reported by the provider, normalized across SDKs.
type APIError struct {
	Provider   types.AIProvider
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s API error %d (%s): %s", e.Provider, e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// errEmptyResponse is returned when the model answers with no text.
var errEmptyResponse = errors.New("model returned an empty response")

// NewGenerator is the default GeneratorFactory.
func NewGenerator(ctx context.Context, cfg types.AIConfig) (Generator, error) {
	return newGenerator(ctx, cfg, nil)
}

func newGenerator(ctx context.Context, cfg types.AIConfig, client *http.Client) (Generator, error) {
	switch cfg.Provider {
	case "", types.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg, client)
	case types.ProviderOpenAI:
		return NewOpenAIGenerator(cfg, client), nil
	default:
		return nil, types.ConfigurationError("unknown AI provider %q (want gemini or openai)", cfg.Provider)
	}
}
