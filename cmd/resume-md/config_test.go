// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-md/pkg/types"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	v := viper.New()
	configureViper(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	v := newTestViper(t)

	cfg, err := loadConfig(v, []string{"https://example.com/cv.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/cv.pdf", cfg.URL)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(20<<20), cfg.Fetch.MaxBytes)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, "resume-md/"+version, cfg.Fetch.UserAgent)
	assert.Equal(t, types.BackendPDF, cfg.Extraction.Backend)
	assert.Equal(t, types.ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, "Brazilian Portuguese", cfg.AI.Language)
	assert.Equal(t, 2*time.Minute, cfg.AI.Timeout)
	assert.Equal(t, 1, cfg.AI.MaxRetries)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume-md.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: https://example.com/from-file.pdf
fetch:
  timeout: 45s
  user_agent: custom/1.0
  max_retries: 0
ai:
  provider: openai
  language: English
  max_retries: 0
output:
  path: out/cv.md
  frontmatter: true
`), 0o644))

	v := newTestViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/from-file.pdf", cfg.URL)
	assert.Equal(t, 45*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "custom/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, 0, cfg.Fetch.MaxRetries, "explicit zero disables retries")
	assert.Equal(t, types.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, "English", cfg.AI.Language)
	assert.Equal(t, 0, cfg.AI.MaxRetries)
	assert.Equal(t, "out/cv.md", cfg.Output.Path)
	assert.True(t, cfg.Output.Frontmatter)
}

func TestLoadConfig_Env(t *testing.T) {
	v := newTestViper(t)
	t.Setenv("RESUME_MD_AI_MODEL", "gemini-2.5-pro")
	t.Setenv("RESUME_MD_URL", "https://example.com/env.pdf")

	cfg, err := loadConfig(v, nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.AI.Model)
	assert.Equal(t, "https://example.com/env.pdf", cfg.URL)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		_, err := loadConfig(newTestViper(t), nil)
		require.Error(t, err)
		assert.Equal(t, types.KindConfig, types.KindOf(err))
		assert.Equal(t, 2, types.ExitCode(err))
	})

	t.Run("unknown provider", func(t *testing.T) {
		v := newTestViper(t)
		v.Set("ai.provider", "claude")
		_, err := loadConfig(v, []string{"https://example.com/cv.pdf"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "claude")
	})
}

func TestBindFlags(t *testing.T) {
	v := newTestViper(t)
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("model", "", "")
	cmd.Flags().String("language", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--model", "gpt-4.1"}))
	require.NoError(t, bindFlags(v, cmd, map[string]string{"model": "ai.model", "language": "ai.language", "absent": "ai.base_url"}))

	cfg, err := loadConfig(v, []string{"https://example.com/cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", cfg.AI.Model)
	assert.Equal(t, "Brazilian Portuguese", cfg.AI.Language, "unset flag keeps the default")
}

func TestResolveAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		provider types.AIProvider
		cfgKey   string
		env      map[string]string
		secrets  map[string]string
		want     string
		wantErr  bool
	}{
		{name: "config key wins", provider: types.ProviderGemini, cfgKey: "AIza-cfg", env: map[string]string{"GEMINI_API_KEY": "AIza-env"}, want: "AIza-cfg"},
		{name: "gemini env", provider: types.ProviderGemini, env: map[string]string{"GEMINI_API_KEY": "AIza-env"}, want: "AIza-env"},
		{name: "openai env", provider: types.ProviderOpenAI, env: map[string]string{"GEMINI_API_KEY": "AIza-env", "OPENAI_API_KEY": "sk-env"}, want: "sk-env"},
		{name: "secrets file", provider: types.ProviderGemini, secrets: map[string]string{"gemini-api-key": "AIza-file"}, want: "AIza-file"},
		{name: "missing", provider: types.ProviderGemini, wantErr: true},
		{name: "placeholder", provider: types.ProviderGemini, env: map[string]string{"GEMINI_API_KEY": "SUA_CHAVE_API_DO_GEMINI_AQUI"}, wantErr: true},
		{name: "wrong provider secret", provider: types.ProviderOpenAI, secrets: map[string]string{"gemini-api-key": "AIza-file"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestViper(t)
			for k, val := range tt.env {
				t.Setenv(k, val)
			}
			ai := types.AIConfig{Provider: tt.provider, APIKey: tt.cfgKey}

			err := resolveAPIKey(v, &ai, tt.secrets)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, types.KindConfig, types.KindOf(err))
				assert.Equal(t, 2, types.ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ai.APIKey)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "WARN", "json")
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.True(t, strings.Contains(buf.String(), `"message":"shown"`))

	_, err = newLogger(&buf, "loud", "json")
	assert.Equal(t, types.KindConfig, types.KindOf(err))
	_, err = newLogger(&buf, "info", "xml")
	assert.Equal(t, types.KindConfig, types.KindOf(err))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "resume-md "+version+"\n", out.String())
}
