// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/resume-md/pkg/types"
)

// GeminiGenerator calls the Gemini API through google.golang.org/genai.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini client for cfg. cfg.BaseURL overrides
// the API endpoint; client may be nil.
func NewGeminiGenerator(ctx context.Context, cfg types.AIConfig, client *http.Client) (*GeminiGenerator, error) {
	config := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: client,
	}
	if cfg.BaseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	c, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiGenerator{client: c, model: cfg.Model}, nil
}

// Generate sends prompt as a single user turn and joins the text parts of the
// first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", geminiError(err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		var text strings.Builder
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				text.WriteString(part.Text)
			}
		}
		if text.Len() > 0 {
			return text.String(), nil
		}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &APIError{
			Provider:   types.ProviderGemini,
			StatusCode: http.StatusOK,
			Status:     "BLOCKED",
			Message:    string(resp.PromptFeedback.BlockReason),
		}
	}
	return "", errEmptyResponse
}

func geminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Provider: types.ProviderGemini, StatusCode: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &APIError{Provider: types.ProviderGemini, StatusCode: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message}
	}
	return err
}
