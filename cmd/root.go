// Package cmd holds the mailintel CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/felo/mailintel/internal/config"
	"github.com/felo/mailintel/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "mailintel",
	Short: "Email intelligence: parse messages, extract entities, score spam signals",
	Long: `mailintel parses raw RFC 5322 messages into structured records:
normalized headers, entity extraction, thread depth, signature
separation and spam indicator scoring. Records can be stored in a
local SQLite index and served over a JSON API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by commands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logging.New(cfg.LogLevel(), cfg.LogFormat())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}
