// Package cmd implements the clip2md CLI using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/clip2md/config"
)

// Global flags.
var (
	flagVerbose bool
	flagConfig  string
)

// conf is loaded before any subcommand runs.
var conf = config.Default()

var rootCmd = &cobra.Command{
	Use:   "clip2md",
	Short: "Convert pasted wiki HTML into clean Markdown",
	Long: `clip2md converts HTML copied from Confluence-style wiki pages into Markdown,
rebuilding task lists, code blocks, nested lists and tables that generic
converters lose.

Usage:
  clip2md convert <file|url|-> [flags]
  clip2md serve [flags]`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd, flagVerbose)

		loaded, err := config.Get(flagConfig)
		if err != nil {
			return err
		}
		conf = loaded
		slog.Debug("configuration loaded", "file", flagConfig, "options", conf.Options)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
}

func setupLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
