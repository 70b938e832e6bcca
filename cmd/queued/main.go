// Package main is the entry point for the queued CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/queued-io/queued/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queued",
		Short: "In-memory priority task-queue server",
		Long:  `Queued is a multi-tenant priority task-queue service over HTTP: producers enqueue prioritized tasks, anonymous workers poll for the most urgent one, and consumers collect results keyed by task identifier.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from a .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
