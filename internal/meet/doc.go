// Package meet provides Google Meet link provisioning for the assistant.
//
// Links come from a file-backed pool: a newline-separated list of reusable
// Meet links, typically maintained by hand or by a cron job. When the pool
// file is missing or holds no usable link, the provider falls back to
// creating a conference through the Calendar API, which always yields a
// valid link at the cost of an API call.
package meet
