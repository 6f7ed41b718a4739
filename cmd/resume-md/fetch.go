// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-md/internal/fetch"
	"github.com/pdiddy/resume-md/internal/output"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download a résumé without processing it",
	Long: `Fetch runs the download stage only. The bytes go to --output, or to
stdout when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringP("output", "o", "", "write the document to this file instead of stdout")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	raw, err := fetch.New(nil, cfg.Fetch).Fetch(ctx, cfg.URL)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		_, err := cmd.OutOrStdout().Write(raw.Data)
		return err
	}
	if err := output.WriteFile(path, bytes.NewReader(raw.Data)); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().
		Str("path", path).
		Int("bytes", len(raw.Data)).
		Str("content_type", raw.ContentType).
		Msg("saved document")
	return nil
}
