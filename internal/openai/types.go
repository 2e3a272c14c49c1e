package openai

import (
	"fmt"
	"strings"
)

// Intent is the action a message asks for.
type Intent string

// Intents the classifier can produce.
const (
	IntentMeet     Intent = "meet"
	IntentCalendar Intent = "calendar"
	IntentUpload   Intent = "upload"
	IntentUnknown  Intent = "unknown"
)

// ParseIntent normalizes a model reply to an Intent.
func ParseIntent(s string) Intent {
	switch normalized := Intent(strings.ToLower(strings.TrimSpace(s))); normalized {
	case IntentMeet, IntentCalendar, IntentUpload:
		return normalized
	default:
		return IntentUnknown
	}
}

// EventDetails holds the structured fields extracted from a scheduling
// message. Zero values mean the field was not provided.
type EventDetails struct {
	// Title of the event.
	Title string

	// Date in YYYY-MM-DD form. Empty when the model could not find one;
	// no event can be scheduled without it.
	Date string

	// Time in "HH:MM AM/PM" form, or empty for an all-day event.
	Time string

	// Location free text.
	Location string

	// Notes free text.
	Notes string
}

// AllDay reports whether the extracted details describe an all-day event.
func (d *EventDetails) AllDay() bool {
	return d.Time == ""
}

// OpenAIError represents an error from the OpenAI API or response parsing
type OpenAIError struct {
	// Op is the operation that failed (e.g., "classify", "extract")
	Op string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *OpenAIError) Error() string {
	return fmt.Sprintf("openai %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *OpenAIError) Unwrap() error {
	return e.Err
}
