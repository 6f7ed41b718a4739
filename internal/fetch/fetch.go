// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads the résumé document over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-md/internal/httputil"
	"github.com/pdiddy/resume-md/pkg/types"
)

// Fetcher performs a single bounded HTTP GET per call.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
}

// New creates a Fetcher. A nil client gets one with cfg.Timeout applied.
func New(client *http.Client, cfg types.FetchConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultFetchTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = types.DefaultMaxBytes
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{client: client, cfg: cfg}
}

// Fetch downloads rawURL and returns the whole body with its detected media
// type. Google Drive share links are rewritten to direct downloads first.
// Transport failures, non-2xx statuses and oversized bodies are returned as
// *types.StageError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*types.RawDocument, error) {
	downloadURL := normalizeURL(strings.TrimSpace(rawURL))
	if err := validateURL(downloadURL); err != nil {
		return nil, types.NewStageError(types.StageFetch, types.KindTransport, err)
	}
	log := zerolog.Ctx(ctx)
	if downloadURL != rawURL {
		log.Debug().Str("url", rawURL).Str("download_url", downloadURL).Msg("rewrote share link")
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, types.NewStageError(types.StageFetch, types.KindTransport, fmt.Errorf("creating request: %w", err))
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/pdf, "+string(types.MediaDOCX)+", */*")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries)
	if err != nil {
		return nil, types.NewStageError(types.StageFetch, types.KindTransport, fmt.Errorf("downloading %s: %w", rawURL, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &types.StageError{
			Stage:      types.StageFetch,
			Kind:       types.KindHTTPStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d (%s) from %s", resp.StatusCode, http.StatusText(resp.StatusCode), rawURL),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, types.NewStageError(types.StageFetch, types.KindTransport, fmt.Errorf("reading body: %w", err))
	}
	if int64(len(data)) > f.cfg.MaxBytes {
		return nil, types.NewStageError(types.StageFetch, types.KindTransport,
			fmt.Errorf("document exceeds %d bytes", f.cfg.MaxBytes))
	}

	contentType := resp.Header.Get("Content-Type")
	name := filename(resp.Header.Get("Content-Disposition"), rawURL)
	mediaType := detectMediaType(contentType, name, data)
	log.Debug().
		Str("content_type", contentType).
		Str("filename", name).
		Str("media_type", string(mediaType)).
		Int("bytes", len(data)).
		Msg("downloaded")

	return &types.RawDocument{
		URL:         rawURL,
		DownloadURL: downloadURL,
		ContentType: contentType,
		Filename:    name,
		MediaType:   mediaType,
		Data:        data,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

var errBadURL = errors.New("URL must be absolute http or https")

func validateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errBadURL, rawURL)
	}
	return nil
}
