// Package google provides service-account authentication for the Google
// APIs used by waclerk (Calendar and Drive).
//
// The service runs headless, so there is no interactive OAuth flow: a single
// service-account key (the GOOGLE_CALENDAR_CREDENTIALS blob) authorizes all
// API access. Credentials are parsed once and per-scope HTTP clients are
// handed to the calendar and drive packages.
package google
