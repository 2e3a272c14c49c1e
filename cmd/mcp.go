package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorin/waclerk/internal/config"
	"github.com/jorin/waclerk/internal/instrumentation"
	"github.com/jorin/waclerk/internal/logging"
	"github.com/jorin/waclerk/internal/server"
	"github.com/jorin/waclerk/internal/tools/calendar_tools"
	"github.com/jorin/waclerk/internal/tools/drive_tools"
	"github.com/jorin/waclerk/internal/tools/meet_tools"
)

func newMCPCmd() *cobra.Command {
	var yolo bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the Model Context Protocol (MCP) server to expose the Calendar,
Drive and Meet operations as tools for AI assistants.

The server speaks the stdio transport only. Logs go to the configured log
file so stdout stays clean for the protocol stream.

Safety Mode:
  By default, the server operates in read-only mode, providing only safe
  operations. Use --yolo to enable write operations (event creation and
  deletion, file uploads, handing out Meet links).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(yolo)
		},
	}

	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (event creation, file uploads, Meet links). Default is read-only mode.")

	return cmd
}

func runMCP(yolo bool) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Tokens for the webhook side are not needed here, so skip Validate.
	// The lazy client getters report missing Google credentials per call.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Console handler writes to stderr, so stdout stays clean for the
	// protocol stream.
	logger, closeLogs, err := logging.Setup(logging.Options{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = closeLogs() }()

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

	sc, err := server.NewServerContext(shutdownCtx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := sc.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	if provider.Enabled() {
		sc.SetInstrumentation(provider.Metrics(),
			instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	mcpSrv := mcpserver.NewMCPServer("waclerk", version,
		mcpserver.WithToolCapabilities(true),
	)

	// readOnly is the inverse of yolo
	readOnly := !yolo

	if err := registerAllTools(mcpSrv, sc, readOnly); err != nil {
		return err
	}

	mode := "read-write"
	if readOnly {
		mode = "read-only"
	}
	logger.Info("starting MCP server", slog.String("mode", mode))

	return runStdioServer(mcpSrv)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools.
// Shared between the mcp and generate-docs commands.
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Drive",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Meet",
			register: func() error {
				return meet_tools.RegisterMeetTools(mcpSrv, sc, readOnly)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}
