package meet_tools

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorin/waclerk/internal/config"
	"github.com/jorin/waclerk/internal/server"
)

func newTestContext(t *testing.T, cfg *config.Config) *server.ServerContext {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sc, err := server.NewServerContext(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

// TestRegisterMeetTools tests the registration of Meet tools
func TestRegisterMeetTools(t *testing.T) {
	sc := newTestContext(t, config.New())

	mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	tests := []struct {
		name     string
		readOnly bool
		wantErr  bool
	}{
		{
			name:     "register in read-write mode",
			readOnly: false,
			wantErr:  false,
		},
		{
			name:     "register in read-only mode",
			readOnly: true,
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RegisterMeetTools(mcpSrv, sc, tt.readOnly)

			if (err != nil) != tt.wantErr {
				t.Errorf("RegisterMeetTools() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestHandleGetLinkFromPool serves a link from the configured pool file
func TestHandleGetLinkFromPool(t *testing.T) {
	ctx := context.Background()

	linksFile := filepath.Join(t.TempDir(), "meet_links.txt")
	if err := os.WriteFile(linksFile, []byte("https://meet.google.com/abc-defg-hij\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.New()
	cfg.Meet.LinksFile = linksFile
	sc := newTestContext(t, cfg)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "meet_get_link",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := handleGetLink(ctx, request, sc)

	if err != nil {
		t.Errorf("handleGetLink() unexpected error = %v", err)
	}
	if result == nil {
		t.Fatal("handleGetLink() returned nil result")
	}
	if result.IsError {
		t.Fatalf("handleGetLink() returned error result: %+v", result.Content)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("handleGetLink() result is not text content")
	}
	want := "Google Meet link: https://meet.google.com/abc-defg-hij"
	if text.Text != want {
		t.Errorf("handleGetLink() = %q, want %q", text.Text, want)
	}
}

// TestHandleGetLinkEmptyPool reports an error result when the pool is empty
// and no conference fallback is available
func TestHandleGetLinkEmptyPool(t *testing.T) {
	ctx := context.Background()

	cfg := config.New()
	cfg.Meet.LinksFile = filepath.Join(t.TempDir(), "missing_links.txt")
	sc := newTestContext(t, cfg)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "meet_get_link",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := handleGetLink(ctx, request, sc)

	if err != nil {
		t.Errorf("handleGetLink() unexpected error = %v", err)
	}
	if result == nil {
		t.Fatal("handleGetLink() returned nil result")
	}
	if !result.IsError {
		t.Error("handleGetLink() expected error result with empty pool")
	}
}
