package meet_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorin/waclerk/internal/instrumentation"
	"github.com/jorin/waclerk/internal/server"
	"github.com/jorin/waclerk/internal/tools/common"
)

// RegisterMeetTools registers all Meet-related tools with the MCP server
func RegisterMeetTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		// Handing out a link consumes it from the pool, so nothing is
		// registered in read-only mode.
		return nil
	}

	getLinkTool := mcp.NewTool("meet_get_link",
		mcp.WithDescription("Get a Google Meet link, taken from the link pool or created on the calendar"),
	)

	s.AddTool(getLinkTool, common.InstrumentedToolHandlerWithService(
		"meet_get_link", instrumentation.ServiceMeet, instrumentation.OperationLink, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetLink(ctx, request, sc)
		}))

	return nil
}

func handleGetLink(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	provider, err := sc.MeetProvider()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	link, err := provider.Link(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get Meet link: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Google Meet link: %s", link)), nil
}
