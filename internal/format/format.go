// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format rewrites extracted résumé text as Markdown through a hosted
// generative-language model.
package format

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-md/internal/httputil"
	"github.com/pdiddy/resume-md/pkg/types"
)

// Formatter validates the credential, renders the prompt and calls the
// model with a per-attempt timeout and bounded retries.
type Formatter struct {
	cfg          types.AIConfig
	newGenerator GeneratorFactory
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithGeneratorFactory replaces the provider client constructor.
func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(fm *Formatter) { fm.newGenerator = f }
}

// WithGenerator uses g for every call.
func WithGenerator(g Generator) Option {
	return WithGeneratorFactory(func(context.Context, types.AIConfig) (Generator, error) { return g, nil })
}

// New creates a Formatter for cfg.
func New(cfg types.AIConfig, opts ...Option) *Formatter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultAITimeout
	}
	if cfg.Language == "" {
		cfg.Language = types.DefaultLanguage
	}
	if cfg.Model == "" {
		cfg.Model = types.DefaultModel
	}
	if cfg.Provider == "" {
		cfg.Provider = types.ProviderGemini
	}
	f := &Formatter{cfg: cfg, newGenerator: NewGenerator}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Provider returns the configured provider and model.
func (f *Formatter) Provider() (types.AIProvider, string) {
	return f.cfg.Provider, f.cfg.Model
}

// Format returns the model's Markdown rendition of text. An empty or
// placeholder credential fails before any client is created.
func (f *Formatter) Format(ctx context.Context, text string) (*types.FormattedText, error) {
	if err := ValidateCredential(f.cfg.APIKey); err != nil {
		return nil, types.NewStageError(types.StageFormat, types.KindCredential,
			fmt.Errorf("%s: %w", f.cfg.Provider, err))
	}

	prompt, err := RenderPrompt(f.cfg.Language, text)
	if err != nil {
		return nil, types.NewStageError(types.StageFormat, types.KindUnexpected, fmt.Errorf("rendering prompt: %w", err))
	}

	gen, err := f.newGenerator(ctx, f.cfg)
	if err != nil {
		var se *types.StageError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, types.NewStageError(types.StageFormat, types.KindUnexpected, err)
	}

	out, err := f.callWithRetry(ctx, gen, prompt)
	if err != nil {
		return nil, classify(err)
	}

	return &types.FormattedText{
		Markdown: out,
		Provider: f.cfg.Provider,
		Model:    f.cfg.Model,
	}, nil
}

// callWithRetry makes up to MaxRetries+1 attempts, retrying only transient
// failures.
func (f *Formatter) callWithRetry(ctx context.Context, gen Generator, prompt string) (string, error) {
	log := zerolog.Ctx(ctx)
	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := httputil.Backoff(attempt - 1)
			log.Warn().Err(lastErr).Dur("backoff", backoff).Int("attempt", attempt).Msg("retrying model call")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		out, err := f.generateOnce(ctx, gen, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil || !transient(err) {
			break
		}
	}
	return "", lastErr
}

func (f *Formatter) generateOnce(ctx context.Context, gen Generator, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	start := time.Now()
	out, err := gen.Generate(ctx, prompt)
	zerolog.Ctx(ctx).Debug().
		Str("provider", string(f.cfg.Provider)).
		Str("model", f.cfg.Model).
		Dur("elapsed", time.Since(start)).
		Bool("ok", err == nil).
		Msg("model call")
	if err == nil && out == "" {
		err = errEmptyResponse
	}
	return out, err
}

// transient reports whether a retry might succeed.
func transient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusInternalServerError || httputil.Retryable(apiErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// classify turns a generator failure into a StageError.
func classify(err error) error {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return &types.StageError{Stage: types.StageFormat, Kind: types.KindAPI, StatusCode: apiErr.StatusCode, Err: err}
	case errors.Is(err, errEmptyResponse):
		return types.NewStageError(types.StageFormat, types.KindAPI, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return types.NewStageError(types.StageFormat, types.KindTransport, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return types.NewStageError(types.StageFormat, types.KindTransport, err)
	}
	return types.NewStageError(types.StageFormat, types.KindUnexpected, err)
}
