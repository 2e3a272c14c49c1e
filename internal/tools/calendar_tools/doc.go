// Package calendar_tools provides MCP (Model Context Protocol) tools for the
// reminder calendar.
//
// This package exposes the scheduling side of the assistant through a
// standardized MCP interface, so AI assistants can inspect and manage the
// reminder events the WhatsApp bot creates.
//
// Available tools:
//   - calendar_list_events: List/search events within a time range
//   - calendar_get_event: Get details of a specific event
//   - calendar_create_event: Create a reminder event (write mode only)
//   - calendar_delete_event: Delete a reminder event (write mode only)
package calendar_tools
