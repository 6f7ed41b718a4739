// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes pipeline results to disk.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/resume-md/internal/pipeline"
)

// Options controls what Write emits.
type Options struct {
	// Frontmatter prepends a YAML block with run metadata.
	Frontmatter bool

	// Now stamps generated_at. Nil uses time.Now.
	Now func() time.Time
}

// Frontmatter is the metadata block written ahead of the Markdown.
type Frontmatter struct {
	RunID       string    `yaml:"run_id"`
	SourceURL   string    `yaml:"source_url"`
	SourceFile  string    `yaml:"source_file,omitempty"`
	MediaType   string    `yaml:"media_type,omitempty"`
	Provider    string    `yaml:"provider"`
	Model       string    `yaml:"model"`
	Pages       int       `yaml:"pages"`
	GeneratedAt time.Time `yaml:"generated_at"`
}

var errNoMarkdown = errors.New("result has no formatted text")

// Write stores the formatted Markdown of res at path.
func Write(path string, res *pipeline.Result, opts Options) error {
	if res == nil || res.Formatted == nil {
		return errNoMarkdown
	}

	var buf bytes.Buffer
	if opts.Frontmatter {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		fm := Frontmatter{
			RunID:       res.RunID.String(),
			SourceURL:   res.URL,
			Provider:    string(res.Formatted.Provider),
			Model:       res.Formatted.Model,
			GeneratedAt: now().UTC(),
		}
		if res.Raw != nil {
			fm.SourceFile = res.Raw.Filename
			fm.MediaType = string(res.Raw.MediaType)
		}
		if res.Extracted != nil {
			fm.Pages = res.Extracted.Pages
		}
		data, err := yaml.Marshal(fm)
		if err != nil {
			return fmt.Errorf("marshaling frontmatter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(data)
		buf.WriteString("---\n\n")
	}
	buf.WriteString(res.Formatted.Markdown)
	if n := buf.Len(); n == 0 || buf.Bytes()[n-1] != '\n' {
		buf.WriteByte('\n')
	}

	return WriteFile(path, &buf)
}

// WriteFile copies r to path through a temporary file in the same directory,
// so readers never see a partial file.
func WriteFile(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".resume-md-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, r)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
