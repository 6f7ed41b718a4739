// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-md/internal/extract"
	"github.com/pdiddy/resume-md/internal/fetch"
)

var extractCmd = &cobra.Command{
	Use:   "extract [url]",
	Short: "Download a résumé and print its raw text",
	Long: `Extract runs the fetch and extract stages only and prints the plain text
of every page in order. It needs no API key.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("extractor", "", "text extraction backend: pdf or markitdown (default pdf)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd, map[string]string{"extractor": "extract.backend"}); err != nil {
		return err
	}
	cfg, err := loadConfig(v, args)
	if err != nil {
		return err
	}

	router, err := extract.NewRouter(cfg.Extraction, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	raw, err := fetch.New(nil, cfg.Fetch).Fetch(ctx, cfg.URL)
	if err != nil {
		return err
	}
	text, err := router.ExtractDocument(ctx, raw)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Int("pages", text.Pages).
		Int("empty_pages", text.EmptyPages).
		Str("backend", string(cfg.Extraction.Backend)).
		Str("media_type", string(raw.MediaType)).
		Msg("extracted")
	fmt.Fprintln(cmd.OutOrStdout(), text.Text)
	return nil
}
