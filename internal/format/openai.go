// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pdiddy/resume-md/pkg/types"
)

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator creates a client for cfg. SDK retries are disabled;
// Formatter owns the retry policy.
func NewOpenAIGenerator(cfg types.AIConfig, client *http.Client) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if client != nil {
		opts = append(opts, option.WithHTTPClient(client))
	}
	return &OpenAIGenerator{client: openai.NewClient(opts...), model: cfg.Model}
}

// Generate sends prompt as a single user message.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &APIError{Provider: types.ProviderOpenAI, StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
