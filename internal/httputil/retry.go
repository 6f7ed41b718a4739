// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// Retryable reports whether a model API status is transient: 429 and the
// gateway-style 5xx codes. DoWithRetry retries 429 only.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Backoff returns the wait before retry number attempt (0-based):
// RetryBaseDelay, then doubling.
func Backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff starting at RetryBaseDelay. Every other
// status is returned as-is.
//
// maxRetries of 0 or less sends the request once. On each 429 the body is
// drained and closed before sleeping. If the context is cancelled during a
// backoff wait the function returns ctx.Err(). After exhausting retries the
// last 429 response is returned so the caller can inspect it. Transport
// errors are returned immediately.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	log := zerolog.Ctx(ctx)

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := Backoff(attempt)
		log.Warn().
			Int("status", resp.StatusCode).
			Dur("backoff", backoff).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Str("url", req.URL.Redacted()).
			Msg("rate limited, retrying request")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
