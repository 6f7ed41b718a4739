// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the resume-md CLI.
// It downloads a PDF or DOCX résumé, extracts its text and asks a hosted model to
// rewrite it as Markdown.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-md/internal/secrets"
	"github.com/pdiddy/resume-md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the resume-md CLI.
var rootCmd = &cobra.Command{
	Use:   "resume-md",
	Short: "Turn a PDF or DOCX résumé into clean Markdown",
	Long: `resume-md downloads a résumé (PDF or DOCX) from a URL, extracts its raw text and
asks a hosted generative-language model (Gemini or an OpenAI-compatible API)
to rewrite it as professional Markdown.

The stages run in sequence: fetch, extract, format. The first failure stops
the run and sets a non-zero exit status.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		logFormat, _ := cmd.Flags().GetString("log-format")
		logger, err := newLogger(os.Stderr, level, logFormat)
		if err != nil {
			return err
		}
		cmd.SetContext(logger.WithContext(cmd.Context()))

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return types.ConfigurationError("%v", err)
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./resume-md.yaml or ~/.config/resume-md/config.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("secrets-dir", ".secrets/", "directory of API key files")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			fmt.Fprintf(os.Stderr, "warning: .env found but could not be loaded: %v\n", err)
		}
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("resume-md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "resume-md"))
		}
	}

	configureViper(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

// newLogger builds the stderr logger for level and format.
func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), types.ConfigurationError("invalid --log-level %q", level)
	}

	var out io.Writer
	switch format {
	case "json":
		out = w
	case "", "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	default:
		return zerolog.Nop(), types.ConfigurationError("invalid --log-format %q (want console or json)", format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(types.ExitCode(err))
	}
}
