// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-md/internal/format"
	"github.com/pdiddy/resume-md/internal/secrets"
	"github.com/pdiddy/resume-md/pkg/types"
)

// Provider credential environment variables, read without the RESUME_MD_ prefix.
const (
	geminiKeyEnv = "GEMINI_API_KEY"
	openAIKeyEnv = "OPENAI_API_KEY"
)

// configureViper registers defaults and environment bindings on v. Every key
// gets a default so AutomaticEnv and Unmarshal can see it.
func configureViper(v *viper.Viper) {
	v.SetEnvPrefix("RESUME_MD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("url", "")
	v.SetDefault("fetch.timeout", types.DefaultFetchTimeout)
	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.max_bytes", types.DefaultMaxBytes)
	v.SetDefault("fetch.max_retries", types.DefaultFetchRetries)
	v.SetDefault("extract.backend", string(types.BackendPDF))
	v.SetDefault("ai.provider", string(types.ProviderGemini))
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.language", types.DefaultLanguage)
	v.SetDefault("ai.timeout", types.DefaultAITimeout)
	v.SetDefault("ai.max_retries", types.DefaultAIRetries)
	v.SetDefault("output.path", "")
	v.SetDefault("output.frontmatter", false)

	_ = v.BindEnv("gemini_api_key", geminiKeyEnv)
	_ = v.BindEnv("openai_api_key", openAIKeyEnv)
}

// bindFlags maps command flags onto config keys. Only flags set on the
// command line override the config file and environment.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return types.ConfigurationError("binding --%s: %v", flag, err)
		}
	}
	return nil
}

// loadConfig decodes v into a PipelineConfig. A positional URL argument
// overrides the url key; a run without any URL is a configuration error.
func loadConfig(v *viper.Viper, args []string) (*types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.ConfigurationError("decoding configuration: %v", err)
	}
	if len(args) > 0 {
		cfg.URL = args[0]
	}
	cfg.URL = strings.TrimSpace(cfg.URL)
	if cfg.URL == "" {
		return nil, types.ConfigurationError("no résumé URL: pass it as an argument or set url in resume-md.yaml")
	}

	switch cfg.AI.Provider {
	case "", types.ProviderGemini, types.ProviderOpenAI:
	default:
		return nil, types.ConfigurationError("unknown AI provider %q (want gemini or openai)", cfg.AI.Provider)
	}

	cfg.ApplyDefaults(version)
	return &cfg, nil
}

// resolveAPIKey fills ai.APIKey from, in order: ai.api_key, the provider
// environment variable and the secrets directory. It refuses to continue
// without a usable key.
func resolveAPIKey(v *viper.Viper, ai *types.AIConfig, loaded map[string]string) error {
	env, envKey := geminiKeyEnv, "gemini_api_key"
	if ai.Provider == types.ProviderOpenAI {
		env, envKey = openAIKeyEnv, "openai_api_key"
	}

	if ai.APIKey == "" {
		ai.APIKey = strings.TrimSpace(v.GetString(envKey))
	}
	if ai.APIKey == "" {
		ai.APIKey = secrets.APIKey(loaded, ai.Provider)
	}

	if err := format.ValidateCredential(ai.APIKey); err != nil {
		return types.ConfigurationError("%s credential: %v: set %s, ai.api_key or .secrets/%s",
			ai.Provider, err, env, keyFile(ai.Provider))
	}
	return nil
}

func keyFile(p types.AIProvider) string {
	if p == types.ProviderOpenAI {
		return secrets.OpenAIKeyFile
	}
	return secrets.GeminiKeyFile
}
