// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-md/pkg/types"
)

// PDFExtractor reads page text with github.com/ledongthuc/pdf, fully in
// memory.
type PDFExtractor struct{}

// Extract parses data as a PDF and concatenates the plain text of every page
// in document order. Pages without extractable text contribute nothing.
// Structural failures, including panics inside the parser, are returned as
// pdf_parse errors.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (result *types.ExtractedText, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = parseError("malformed PDF: %v", r)
		}
	}()

	if len(data) == 0 {
		return nil, parseError("empty document")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, parseError("malformed PDF: %w", err)
	}

	log := zerolog.Ctx(ctx)
	var (
		text strings.Builder
		out  types.ExtractedText
	)
	for num, page := range Pages(reader) {
		if err := ctx.Err(); err != nil {
			return nil, types.NewStageError(types.StageExtract, types.KindUnexpected, err)
		}
		out.Pages++

		txt, err := pageText(page)
		if err != nil {
			log.Warn().Err(err).Int("page", num).Msg("page text extraction failed")
		}
		if txt == "" {
			out.EmptyPages++
			continue
		}
		text.WriteString(txt)
	}

	out.Text = text.String()
	return &out, nil
}

// Pages yields the pages of r in document order, numbered from 1.
func Pages(r *pdf.Reader) iter.Seq2[int, pdf.Page] {
	return func(yield func(int, pdf.Page) bool) {
		n := r.NumPage()
		for i := 1; i <= n; i++ {
			if !yield(i, r.Page(i)) {
				return
			}
		}
	}
}

// pageText extracts one page; a null page yields "".
func pageText(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
