// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/resume-md/internal/container"
	"github.com/pdiddy/resume-md/pkg/types"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownExtractor pipes the document through the markitdown container
// image and returns its output. Pages are not reported individually.
type MarkitdownExtractor struct {
	runtime container.Runtime

	// extension is passed to markitdown as a format hint ("pdf", "docx").
	extension string
}

// NewMarkitdownExtractor verifies that the markitdown image exists locally in
// rt before returning.
func NewMarkitdownExtractor(rt container.Runtime) (*MarkitdownExtractor, error) {
	if err := rt.ImageExists(imageMarkitdown); err != nil {
		return nil, types.NewStageError(types.StageExtract, types.KindConfig,
			fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err))
	}
	return &MarkitdownExtractor{runtime: rt}, nil
}

// WithExtension returns a copy that tells markitdown the input format.
func (m *MarkitdownExtractor) WithExtension(ext string) *MarkitdownExtractor {
	c := *m
	c.extension = ext
	return &c
}

// Extract streams data to the container over stdin.
func (m *MarkitdownExtractor) Extract(ctx context.Context, data []byte) (*types.ExtractedText, error) {
	if len(data) == 0 {
		return nil, parseError("empty document")
	}

	var args []string
	if m.extension != "" {
		args = []string{"--extension", m.extension}
	}

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, bytes.NewReader(data), &out, args...); err != nil {
		return nil, parseError("converting with markitdown: %w", err)
	}
	if out.Len() == 0 {
		return nil, parseError("markitdown produced empty output")
	}

	return &types.ExtractedText{Text: out.String()}, nil
}
