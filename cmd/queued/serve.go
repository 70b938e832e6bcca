package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/queued-io/queued/internal/api"
	apimiddleware "github.com/queued-io/queued/internal/api/middleware"
	v1 "github.com/queued-io/queued/internal/api/v1"
	"github.com/queued-io/queued/internal/config"
	"github.com/queued-io/queued/internal/log"
	"github.com/queued-io/queued/internal/queue"
	"github.com/queued-io/queued/internal/snapshot"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST               Server host to bind to (default: 0.0.0.0)
  PORT               Server port to listen on (default: 8080)
  LOG_LEVEL          Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT         Log format: pretty, json (default: pretty)
  SNAPSHOT_DIR       Directory for the snapshot file pair (default: working directory)
  SNAPSHOT_ENABLED   Enable snapshot persistence (default: true)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	logger := log.NewLogger(cfg)
	logger.Info("starting queued",
		"version", version,
		"addr", cfg.Addr(),
		"snapshot_dir", cfg.SnapshotDir(),
		"snapshot_enabled", cfg.SnapshotEnabled(),
	)

	registry := queue.NewRegistry()
	engine := snapshot.NewEngine(registry, cfg.SnapshotDir(), logger)
	saver := snapshot.NewSaver(engine, logger)

	if cfg.SnapshotEnabled() {
		if err := engine.Load(); err != nil {
			logger.Error("snapshot load failed, continuing with recovered state", "error", err)
		}
	}

	service := queue.NewService(registry, logger)

	server := api.NewServer(cfg.Addr(), logger)
	router := server.Router()
	router.Use(apimiddleware.Logging(logger))
	router.Get("/health", healthHandler)
	router.Mount("/queue", v1.NewQueueRouter(service, logger).Routes())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SnapshotEnabled() {
		saver.Start(ctx)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start()
	})

	g.Go(func() error {
		select {
		case sig := <-sigChan:
			logger.Info("shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		if cfg.SnapshotEnabled() {
			saver.Stop()
			if err := engine.Save(); err != nil {
				logger.Error("final snapshot save failed", "error", err)
			}
		}
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
