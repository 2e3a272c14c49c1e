// Package calendar provides a client for Google Calendar event scheduling.
//
// The client wraps google.golang.org/api/calendar/v3 with waclerk's domain
// types: EventInput describes an event to schedule (timed or all-day,
// optionally with a Google Meet conference) and EventSummary is the
// simplified form used when building reply messages.
//
// Authentication uses the shared service-account credentials from the
// internal/google package; all events live in a single configured calendar.
package calendar
