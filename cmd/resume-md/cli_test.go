// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-md/internal/pdftest"
	"github.com/pdiddy/resume-md/pkg/types"
)

const cliGeminiJSON = `{
  "candidates": [
    {
      "content": {"role": "model", "parts": [{"text": "## John Doe\n**Software Engineer**"}]},
      "finishReason": "STOP"
    }
  ]
}`

// executeCLI runs the root command with args against a fresh global config
// and returns what the command printed.
func executeCLI(t *testing.T, configYAML string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), formatCmd.Flags(), extractCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "resume-md.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{
		"--config", cfgPath,
		"--secrets-dir", filepath.Join(dir, "secrets"),
		"--log-level", "error",
	}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func clearCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("RESUME_MD_AI_API_KEY", "")
	t.Setenv("RESUME_MD_AI_BASE_URL", "")
}

func TestCLI_FormatWithoutKeyExitsTwo(t *testing.T) {
	clearCredentials(t)
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	_, err := executeCLI(t, "", "format", ts.URL+"/cv.pdf")
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindConfig))
	assert.Equal(t, 2, types.ExitCode(err))
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Zero(t, calls.Load(), "no download before the credential check")
}

func TestCLI_FormatFetchFailureExitsOne(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	out, err := executeCLI(t, "", "format", ts.URL+"/missing.pdf")
	require.Error(t, err)
	assert.Equal(t, 1, types.ExitCode(err))
	assert.Equal(t, types.StageFetch, types.StageOf(err))
	assert.Contains(t, out, "1/3: downloading "+ts.URL+"/missing.pdf")
	assert.Contains(t, out, "FAILED AT FETCH")
}

func TestCLI_ZeroFetchRetriesFromConfig(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	out, err := executeCLI(t, "fetch:\n  max_retries: 0\n", "format", ts.URL+"/cv.pdf")
	require.Error(t, err)
	assert.Equal(t, 1, types.ExitCode(err))
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, out, "FAILED AT FETCH")
}

func TestCLI_FormatWritesMarkdown(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	pdf := pdftest.Build("John Doe\nSoftware Engineer")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/cv.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write(pdf)
		case strings.HasSuffix(r.URL.Path, ":generateContent"):
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, cliGeminiJSON)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()
	t.Setenv("RESUME_MD_AI_BASE_URL", ts.URL)

	mdPath := filepath.Join(t.TempDir(), "cv.md")
	out, err := executeCLI(t, "", "format", "--output", mdPath, "--frontmatter", ts.URL+"/cv.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "FORMATTED RESUME")
	assert.Contains(t, out, "## John Doe")

	data, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))
	assert.Contains(t, string(data), "source_file: cv.pdf")
	assert.Contains(t, string(data), "media_type: application/pdf")
	assert.True(t, strings.HasSuffix(string(data), "**Software Engineer**\n"))
}

func TestCLI_ExtractRejectsUnsupportedType(t *testing.T) {
	clearCredentials(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html>sign in</html>")
	}))
	defer ts.Close()

	_, err := executeCLI(t, "", "extract", ts.URL+"/view")
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindUnsupported))
	assert.Equal(t, 1, types.ExitCode(err))
}
