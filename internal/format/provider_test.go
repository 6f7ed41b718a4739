// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-md/pkg/types"
)

const geminiOKJSON = `{
  "candidates": [
    {
      "content": {
        "role": "model",
        "parts": [{"text": "## John Doe\n"}, {"text": "**Software Engineer**"}]
      },
      "finishReason": "STOP"
    }
  ],
  "usageMetadata": {"promptTokenCount": 120, "candidatesTokenCount": 12, "totalTokenCount": 132}
}`

const geminiAuthErrorJSON = `{
  "error": {
    "code": 401,
    "message": "API key not valid. Please pass a valid API key.",
    "status": "UNAUTHENTICATED"
  }
}`

func TestGeminiGenerator(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, geminiOKJSON)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.BaseURL = ts.URL

	gen, err := NewGeminiGenerator(context.Background(), cfg, ts.Client())
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), "format this")
	require.NoError(t, err)

	assert.Equal(t, "## John Doe\n**Software Engineer**", out)
	assert.True(t, strings.HasSuffix(gotPath, "models/gemini-2.5-flash:generateContent"), "path %q", gotPath)
	assert.Equal(t, "AIza-test-key", gotKey)
	assert.Contains(t, gotBody, "contents")
}

func TestGeminiGenerator_AuthError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, geminiAuthErrorJSON)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.BaseURL = ts.URL
	cfg.MaxRetries = 1

	f := New(cfg, WithGeneratorFactory(func(ctx context.Context, c types.AIConfig) (Generator, error) {
		return newGenerator(ctx, c, ts.Client())
	}))

	_, err := f.Format(context.Background(), "John Doe")
	require.Error(t, err)

	var se *types.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, types.KindAPI, se.Kind)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, err.Error(), "API key not valid")
}

const openAIOKJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1760400000,
  "model": "gpt-4o-mini",
  "choices": [
    {
      "index": 0,
      "message": {"role": "assistant", "content": "## John Doe\n**Software Engineer**"},
      "finish_reason": "stop"
    }
  ]
}`

func TestOpenAIGenerator(t *testing.T) {
	var calls int32
	var gotAuth string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, openAIOKJSON)
	}))
	defer ts.Close()

	cfg := types.AIConfig{Provider: types.ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "sk-test", BaseURL: ts.URL + "/v1/"}
	out, err := NewOpenAIGenerator(cfg, ts.Client()).Generate(context.Background(), "format this")
	require.NoError(t, err)

	assert.Equal(t, "## John Doe\n**Software Engineer**", out)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "user", gotBody.Messages[0].Role)
	assert.Equal(t, "format this", gotBody.Messages[0].Content)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAIGenerator_RateLimited(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error": {"message": "Rate limit reached", "type": "requests", "code": "rate_limit_exceeded"}}`)
	}))
	defer ts.Close()

	cfg := types.AIConfig{Provider: types.ProviderOpenAI, APIKey: "sk-test", BaseURL: ts.URL + "/v1/", MaxRetries: 1}
	f := New(cfg, WithGeneratorFactory(func(ctx context.Context, c types.AIConfig) (Generator, error) {
		return newGenerator(ctx, c, ts.Client())
	}))

	_, err := f.Format(context.Background(), "text")
	require.Error(t, err)

	var se *types.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, types.KindAPI, se.Kind)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	// SDK retries are off; Formatter retries once.
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
