// Package meet_tools provides MCP tools for Google Meet link provisioning.
//
// The single tool mirrors what the WhatsApp bot does for a "meet" intent: a
// link is served from the configured pool file, falling back to a
// conference-enabled calendar event when the pool runs dry. Because handing
// out a link consumes it, nothing is registered in read-only mode.
//
// Available tools:
//   - meet_get_link - Get a Google Meet link from the pool or the calendar
package meet_tools
