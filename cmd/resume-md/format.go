// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-md/internal/extract"
	"github.com/pdiddy/resume-md/internal/fetch"
	"github.com/pdiddy/resume-md/internal/format"
	"github.com/pdiddy/resume-md/internal/output"
	"github.com/pdiddy/resume-md/internal/pipeline"
)

var formatCmd = &cobra.Command{
	Use:   "format [url]",
	Short: "Download a résumé and rewrite it as Markdown",
	Long: `Format runs the whole pipeline: it downloads the résumé at url, extracts
its text and sends the text to the configured model with a fixed formatting
prompt. PDF and DOCX are accepted; DOCX goes through the markitdown container.
Google Drive share links are rewritten to direct downloads. The Markdown is
printed to stdout and, with --output, written to a file.

The API key comes from ai.api_key, GEMINI_API_KEY or OPENAI_API_KEY, or
.secrets/gemini-api-key and .secrets/openai-api-key. Format refuses to start
without one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

var formatFlagKeys = map[string]string{
	"output":      "output.path",
	"frontmatter": "output.frontmatter",
	"provider":    "ai.provider",
	"model":       "ai.model",
	"language":    "ai.language",
	"extractor":   "extract.backend",
}

func init() {
	formatCmd.Flags().StringP("output", "o", "", "also write the Markdown to this file")
	formatCmd.Flags().Bool("frontmatter", false, "prepend YAML run metadata to the --output file")
	formatCmd.Flags().String("provider", "", "AI provider: gemini or openai (default gemini)")
	formatCmd.Flags().String("model", "", "model identifier (default gemini-2.5-flash or gpt-4o-mini)")
	formatCmd.Flags().String("language", "", "target language (default Brazilian Portuguese)")
	formatCmd.Flags().String("extractor", "", "text extraction backend: pdf or markitdown (default pdf)")

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd, formatFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig(v, args)
	if err != nil {
		return err
	}
	if err := resolveAPIKey(v, &cfg.AI, loadedSecrets); err != nil {
		return err
	}

	router, err := extract.NewRouter(cfg.Extraction, nil)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Fetcher:   fetch.New(nil, cfg.Fetch),
		Extractor: router,
		Formatter: format.New(cfg.AI),
	}

	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	res, err := p.Run(ctx, cfg.URL, w)
	pipeline.Report(w, res, err)
	if err != nil {
		return err
	}

	if cfg.Output.Path != "" {
		if err := output.Write(cfg.Output.Path, res, output.Options{Frontmatter: cfg.Output.Frontmatter}); err != nil {
			return err
		}
		zerolog.Ctx(ctx).Info().
			Str("path", cfg.Output.Path).
			Dur("elapsed", res.Elapsed).
			Msg("wrote Markdown")
	}
	return nil
}
