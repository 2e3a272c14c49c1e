package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorin/waclerk/internal/calendar"
	"github.com/jorin/waclerk/internal/instrumentation"
	"github.com/jorin/waclerk/internal/server"
	"github.com/jorin/waclerk/internal/tools/common"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List events tool (read-only, always available)
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List/search events on the reminder calendar within a time range"),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start time for the range (RFC3339 format, e.g., '2026-01-01T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End time for the range (RFC3339 format, e.g., '2026-01-31T23:59:59Z')"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query to filter events"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithService(
		"calendar_list_events", instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	// Get event tool (read-only, always available)
	getEventTool := mcp.NewTool("calendar_get_event",
		mcp.WithDescription("Get details of a specific reminder event"),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to retrieve"),
		),
	)

	s.AddTool(getEventTool, common.InstrumentedToolHandlerWithService(
		"calendar_get_event", instrumentation.ServiceCalendar, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvent(ctx, request, sc)
		}))

	if !readOnly {
		// Create event tool
		createEventTool := mcp.NewTool("calendar_create_event",
			mcp.WithDescription("Create a reminder event on the calendar (supports all-day events and Google Meet)"),
			mcp.WithString("summary",
				mcp.Required(),
				mcp.Description("Event title/summary"),
			),
			mcp.WithString("description",
				mcp.Description("Event description"),
			),
			mcp.WithString("location",
				mcp.Description("Event location"),
			),
			mcp.WithString("start",
				mcp.Required(),
				mcp.Description("Start time (RFC3339 format, e.g., '2026-01-15T14:00:00Z')"),
			),
			mcp.WithString("end",
				mcp.Description("End time (RFC3339 format). Defaults to start plus the configured event duration."),
			),
			mcp.WithString("timeZone",
				mcp.Description("Time zone (e.g., 'Asia/Kolkata'). Defaults to the configured zone."),
			),
			mcp.WithBoolean("allDay",
				mcp.Description("Create as all-day event (ignores time portion of start/end)"),
			),
			mcp.WithBoolean("addGoogleMeet",
				mcp.Description("Attach a Google Meet conference to the event"),
			),
		)

		s.AddTool(createEventTool, common.InstrumentedToolHandlerWithService(
			"calendar_create_event", instrumentation.ServiceCalendar, instrumentation.OperationCreate, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCreateEvent(ctx, request, sc)
			}))

		// Delete event tool
		deleteEventTool := mcp.NewTool("calendar_delete_event",
			mcp.WithDescription("Delete a reminder event from the calendar"),
			mcp.WithString("eventId",
				mcp.Required(),
				mcp.Description("The ID of the event to delete"),
			),
		)

		s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithService(
			"calendar_delete_event", instrumentation.ServiceCalendar, instrumentation.OperationDelete, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleDeleteEvent(ctx, request, sc)
			}))
	}

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	timeMinStr, ok := args["timeMin"].(string)
	if !ok || timeMinStr == "" {
		return mcp.NewToolResultError("timeMin is required"), nil
	}
	timeMin, err := time.Parse(time.RFC3339, timeMinStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err)), nil
	}

	timeMaxStr, ok := args["timeMax"].(string)
	if !ok || timeMaxStr == "" {
		return mcp.NewToolResultError("timeMax is required"), nil
	}
	timeMax, err := time.Parse(time.RFC3339, timeMaxStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err)), nil
	}

	query, _ := args["query"].(string)

	client, err := sc.CalendarClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events, err := client.ListEvents(ctx, timeMin, timeMax, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	if len(events) == 0 {
		return mcp.NewToolResultText("No events found in the given range"), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Found %d event(s):\n\n", len(events)))
	for i, event := range events {
		result.WriteString(fmt.Sprintf("%d. %s\n", i+1, event.Summary))
		result.WriteString(fmt.Sprintf("   ID: %s\n", event.ID))
		result.WriteString(formatEventTimes(&event))
		if event.Location != "" {
			result.WriteString(fmt.Sprintf("   Location: %s\n", event.Location))
		}
		if event.MeetLink != "" {
			result.WriteString(fmt.Sprintf("   Meet: %s\n", event.MeetLink))
		}
		result.WriteString("\n")
	}

	return mcp.NewToolResultText(result.String()), nil
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	client, err := sc.CalendarClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event, err := client.GetEvent(ctx, eventID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get event: %v", err)), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Event: %s\n", event.Summary))
	result.WriteString(fmt.Sprintf("ID: %s\n", event.ID))
	result.WriteString(formatEventTimes(event))
	if event.Location != "" {
		result.WriteString(fmt.Sprintf("Location: %s\n", event.Location))
	}
	if event.Description != "" {
		result.WriteString(fmt.Sprintf("Description: %s\n", event.Description))
	}
	if event.Status != "" {
		result.WriteString(fmt.Sprintf("Status: %s\n", event.Status))
	}
	if event.MeetLink != "" {
		result.WriteString(fmt.Sprintf("Meet: %s\n", event.MeetLink))
	}
	if event.HTMLLink != "" {
		result.WriteString(fmt.Sprintf("Link: %s\n", event.HTMLLink))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("start is required"), nil
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid start format: %v", err)), nil
	}

	cfg := sc.Config()

	end := start.Add(cfg.EventDuration)
	if endStr, ok := args["end"].(string); ok && endStr != "" {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid end format: %v", err)), nil
		}
	}

	timeZone := cfg.Timezone
	if tz, ok := args["timeZone"].(string); ok && tz != "" {
		timeZone = tz
	}

	input := calendar.EventInput{
		Summary:             summary,
		Start:               start,
		End:                 end,
		TimeZone:            timeZone,
		UseDefaultReminders: true,
	}

	if description, ok := args["description"].(string); ok {
		input.Description = description
	}
	if location, ok := args["location"].(string); ok {
		input.Location = location
	}
	if allDay, ok := args["allDay"].(bool); ok {
		input.AllDay = allDay
	}
	if addMeet, ok := args["addGoogleMeet"].(bool); ok {
		input.WithConference = addMeet
	}

	client, err := sc.CalendarClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event, err := client.CreateEvent(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Successfully created event: %s\n", event.Summary))
	result.WriteString(fmt.Sprintf("ID: %s\n", event.ID))
	result.WriteString(formatEventTimes(event))
	if event.MeetLink != "" {
		result.WriteString(fmt.Sprintf("Meet: %s\n", event.MeetLink))
	}
	if event.HTMLLink != "" {
		result.WriteString(fmt.Sprintf("Link: %s\n", event.HTMLLink))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	client, err := sc.CalendarClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.DeleteEvent(ctx, eventID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted event %s", eventID)), nil
}

// formatEventTimes renders start/end lines, using the date form for all-day
// events.
func formatEventTimes(event *calendar.EventSummary) string {
	var b strings.Builder
	if event.AllDay {
		if !event.Start.IsZero() {
			b.WriteString(fmt.Sprintf("Date: %s (all day)\n", event.Start.Format("2006-01-02")))
		}
		return b.String()
	}
	if !event.Start.IsZero() {
		b.WriteString(fmt.Sprintf("Start: %s\n", event.Start.Format("2006-01-02 15:04 MST")))
	}
	if !event.End.IsZero() {
		b.WriteString(fmt.Sprintf("End: %s\n", event.End.Format("2006-01-02 15:04 MST")))
	}
	return b.String()
}
