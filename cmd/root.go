package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/christianbooksai/companion/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "companion",
		Short: "Faith & devotional book companion powered by LLM recommendations",
		Long: `Companion answers devotional questions with a short pastoral overview and
four book recommendations, each decorated with a cover from Google Books.

It serves the JSON API used by the web front end and offers CLI commands for
searching, reading book deep-dives, and browsing the curated library.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = opts.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = opts.logFormat
			}

			logger, err := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to configure logging: %w", err)
			}
			slog.SetDefault(logger)

			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "Config file (default ./companion.yaml or $HOME/.companion/companion.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newDetailsCmd(opts))
	cmd.AddCommand(newBrowseCmd(opts))
	cmd.AddCommand(newLibraryCmd(opts))

	return cmd
}
