// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns downloaded PDF bytes into plain text with pluggable
// backends.
package extract

import (
	"context"
	"fmt"

	"github.com/pdiddy/resume-md/internal/container"
	"github.com/pdiddy/resume-md/pkg/types"
)

// Extractor produces the text of an in-memory document. Implementations
// must not retain state between calls.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*types.ExtractedText, error)
}

// New returns the Extractor for cfg.Backend. The markitdown backend detects a
// container runtime with detect, which may be nil to use container.DetectRuntime.
func New(cfg types.ExtractionConfig, detect func() (container.Runtime, error)) (Extractor, error) {
	switch cfg.Backend {
	case "", types.BackendPDF:
		return &PDFExtractor{}, nil
	case types.BackendMarkitdown:
		m, err := newMarkitdown(detect)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, types.ConfigurationError("unknown extraction backend %q (want pdf or markitdown)", cfg.Backend)
	}
}

func newMarkitdown(detect func() (container.Runtime, error)) (*MarkitdownExtractor, error) {
	if detect == nil {
		detect = container.DetectRuntime
	}
	rt, err := detect()
	if err != nil {
		return nil, types.NewStageError(types.StageExtract, types.KindConfig, err)
	}
	return NewMarkitdownExtractor(rt)
}

func parseError(format string, args ...any) error {
	return types.NewStageError(types.StageExtract, types.KindPDFParse, fmt.Errorf(format, args...))
}
