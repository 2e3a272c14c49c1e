package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jorin/waclerk/internal/config"
	"github.com/jorin/waclerk/internal/instrumentation"
	"github.com/jorin/waclerk/internal/logging"
	"github.com/jorin/waclerk/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr           string
		metricsEnabled bool
		metricsAddr    string
		debugMode      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the WhatsApp webhook server",
		Long: `Start the webhook server for the WhatsApp Business Cloud API.

The server answers Meta's GET verification handshake and accepts POSTed
message deliveries on /webhook. Each text or document message is classified
with OpenAI and answered with a Google Meet link, a calendar reminder
confirmation, or a Drive upload confirmation.

Configuration is read from the environment (optionally via a .env file) and
an optional waclerk.yaml. A dedicated metrics listener exposes Prometheus
metrics when enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("metrics-enabled") {
				cfg.Metrics.Enabled = metricsEnabled
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if debugMode {
				cfg.LogLevel = "debug"
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "Webhook server listen address")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use WACLERK_METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use WACLERK_METRICS_ADDR env var.")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

func runServe(cfg *config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger, closeLogs, err := logging.Setup(logging.Options{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = closeLogs() }()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server on its own listener
	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(cfg.Metrics.Addr, provider)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
	}

	sc, err := server.NewServerContext(shutdownCtx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := sc.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	var opts []server.WebhookOption
	if provider.Enabled() {
		metrics := provider.Metrics()
		auditLogger := instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)
		sc.SetInstrumentation(metrics, auditLogger)
		opts = append(opts, server.WithMetrics(metrics), server.WithAuditLogger(auditLogger))
	}

	ws, err := server.NewWebhookServer(sc, opts...)
	if err != nil {
		return fmt.Errorf("failed to create webhook server: %w", err)
	}

	health := server.NewHealthChecker(sc)
	health.SetReady(true)

	logger.Info("starting webhook server",
		slog.String("addr", cfg.Addr),
		slog.String("version", version),
	)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := ws.Start(cfg.Addr, health); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("webhook server stopped with error: %w", err)
		}
		return nil
	}

	health.SetReady(false)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := ws.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("error shutting down webhook server: %w", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			logger.Error("metrics server shutdown failed", logging.Err(err))
		}
	}

	logger.Info("webhook server stopped")
	return nil
}
