// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs fetch, extract and format in sequence and reports the
// outcome.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-md/pkg/types"
)

// Fetcher downloads a document.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*types.RawDocument, error)
}

// Extractor turns a downloaded document into text.
type Extractor interface {
	ExtractDocument(ctx context.Context, doc *types.RawDocument) (*types.ExtractedText, error)
}

// Formatter rewrites text as Markdown.
type Formatter interface {
	Format(ctx context.Context, text string) (*types.FormattedText, error)
	Provider() (types.AIProvider, string)
}

// Pipeline wires the three stages.
type Pipeline struct {
	Fetcher   Fetcher
	Extractor Extractor
	Formatter Formatter
}

// Result holds every stage output of one run. Fields for stages that did not
// complete are nil.
type Result struct {
	RunID     uuid.UUID
	URL       string
	Raw       *types.RawDocument
	Extracted *types.ExtractedText
	Formatted *types.FormattedText
	Elapsed   time.Duration
}

const bannerWidth = 60

// Run executes the pipeline for rawURL, writing progress lines to w. It stops
// at the first failing stage and returns that stage's error along with the
// partial result.
func (p *Pipeline) Run(ctx context.Context, rawURL string, w io.Writer) (*Result, error) {
	res := &Result{RunID: uuid.New(), URL: rawURL}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	log := zerolog.Ctx(ctx).With().Str("run_id", res.RunID.String()).Logger()
	ctx = log.WithContext(ctx)

	fmt.Fprintf(w, "1/3: downloading %s\n", rawURL)
	raw, err := p.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return res, err
	}
	res.Raw = raw
	log.Debug().Int("bytes", len(raw.Data)).Str("media_type", string(raw.MediaType)).Msg("fetched")

	extracted, err := p.Extractor.ExtractDocument(ctx, raw)
	if err != nil {
		return res, err
	}
	res.Extracted = extracted

	provider, model := p.Formatter.Provider()
	fmt.Fprintf(w, "2/3: extracted %d page(s), formatting with %s/%s\n", extracted.Pages, provider, model)
	formatted, err := p.Formatter.Format(ctx, extracted.Text)
	if err != nil {
		return res, err
	}
	res.Formatted = formatted

	fmt.Fprintln(w, "3/3: printing result")
	log.Info().Int("pages", extracted.Pages).Int("chars", len(formatted.Markdown)).Msg("pipeline complete")
	return res, nil
}

// Report prints the final banner and either the Markdown or the failure.
func Report(w io.Writer, res *Result, err error) {
	banner := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
	if err != nil {
		stage := types.StageOf(err)
		if stage == "" {
			stage = "pipeline"
		}
		fmt.Fprintf(w, "FAILED AT %s\n", strings.ToUpper(string(stage)))
		fmt.Fprintln(w, banner)
		fmt.Fprintln(w, err.Error())
		return
	}
	fmt.Fprintln(w, "FORMATTED RESUME")
	fmt.Fprintln(w, banner)
	if res != nil && res.Formatted != nil {
		fmt.Fprintln(w, res.Formatted.Markdown)
	}
}
