// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"

	"github.com/pdiddy/resume-md/internal/container"
	"github.com/pdiddy/resume-md/pkg/types"
)

// Router picks an extractor from a document's detected media type. PDFs go
// to the configured backend; DOCX always goes through markitdown, whose
// runtime is detected only when a DOCX arrives.
type Router struct {
	pdf    Extractor
	detect func() (container.Runtime, error)
}

// NewRouter builds the PDF backend for cfg. detect may be nil to use
// container.DetectRuntime.
func NewRouter(cfg types.ExtractionConfig, detect func() (container.Runtime, error)) (*Router, error) {
	pdf, err := New(cfg, detect)
	if err != nil {
		return nil, err
	}
	if m, ok := pdf.(*MarkitdownExtractor); ok {
		pdf = m.WithExtension("pdf")
	}
	return &Router{pdf: pdf, detect: detect}, nil
}

// ExtractDocument extracts doc with the backend for its media type. Legacy
// .doc files and anything else unrecognised fail with unsupported_type.
func (r *Router) ExtractDocument(ctx context.Context, doc *types.RawDocument) (*types.ExtractedText, error) {
	switch doc.MediaType {
	case types.MediaPDF:
		return r.pdf.Extract(ctx, doc.Data)
	case types.MediaDOCX:
		m, err := newMarkitdown(r.detect)
		if err != nil {
			return nil, fmt.Errorf("DOCX needs the markitdown container: %w", err)
		}
		return m.WithExtension("docx").Extract(ctx, doc.Data)
	case types.MediaDOC:
		return nil, unsupported("legacy .doc files are not supported; convert %s to DOCX or PDF", describe(doc))
	default:
		mt := string(doc.MediaType)
		if mt == "" {
			mt = "unknown"
		}
		return nil, unsupported("unsupported document type %q for %s; use PDF or DOCX", mt, describe(doc))
	}
}

func describe(doc *types.RawDocument) string {
	if doc.Filename != "" {
		return doc.Filename
	}
	return doc.URL
}

func unsupported(format string, args ...any) error {
	return types.NewStageError(types.StageExtract, types.KindUnsupported, fmt.Errorf(format, args...))
}
