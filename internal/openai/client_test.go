package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Intent
	}{
		{name: "meet", input: "meet", want: IntentMeet},
		{name: "calendar", input: "calendar", want: IntentCalendar},
		{name: "upload", input: "upload", want: IntentUpload},
		{name: "uppercase", input: "MEET", want: IntentMeet},
		{name: "padded", input: "  calendar  ", want: IntentCalendar},
		{name: "unrelated", input: "I cannot determine that", want: IntentUnknown},
		{name: "empty", input: "", want: IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.input))
		})
	}
}

func TestParseEventDetailsComplete(t *testing.T) {
	reply := `Title: Team Sync
Date: 2026-09-15
Time: 10:30 AM
Location: Conference Room B
Notes: Bring the quarterly report`

	details := parseEventDetails(reply)
	require.NotNil(t, details)
	assert.Equal(t, "Team Sync", details.Title)
	assert.Equal(t, "2026-09-15", details.Date)
	assert.Equal(t, "10:30 AM", details.Time)
	assert.Equal(t, "Conference Room B", details.Location)
	assert.Equal(t, "Bring the quarterly report", details.Notes)
	assert.False(t, details.AllDay())
}

func TestParseEventDetailsAllDay(t *testing.T) {
	reply := `Title: Diwali Holiday
Date: 2026-11-08
Time: All Day
Location: Not provided
Notes: Not provided`

	details := parseEventDetails(reply)
	assert.Equal(t, "Diwali Holiday", details.Title)
	assert.Equal(t, "2026-11-08", details.Date)
	assert.Empty(t, details.Time)
	assert.True(t, details.AllDay())
	assert.Empty(t, details.Location)
	assert.Empty(t, details.Notes)
}

func TestParseEventDetailsNotProvided(t *testing.T) {
	reply := `Title: Dentist appointment
Date: Not provided
Time: Not provided
Location: Not provided
Notes: Not provided`

	details := parseEventDetails(reply)
	assert.Equal(t, "Dentist appointment", details.Title)
	assert.Empty(t, details.Date)
	assert.Empty(t, details.Time)
	assert.True(t, details.AllDay())
}

func TestParseEventDetailsBoldMarkers(t *testing.T) {
	// Some models wrap the labels in markdown bold despite instructions.
	reply := `**Title**: Sprint Review
**Date**: 2026-10-01
**Time**: 4:00 PM
**Location**: Zoom
**Notes**: Not provided`

	details := parseEventDetails(reply)
	assert.Equal(t, "Sprint Review", details.Title)
	assert.Equal(t, "2026-10-01", details.Date)
	assert.Equal(t, "4:00 PM", details.Time)
	assert.Equal(t, "Zoom", details.Location)
	assert.Empty(t, details.Notes)
}

func TestParseEventDetailsMissingLines(t *testing.T) {
	details := parseEventDetails("Sorry, I could not find any event details.")
	assert.Empty(t, details.Title)
	assert.Empty(t, details.Date)
	assert.True(t, details.AllDay())
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "gpt-4o-mini")
	assert.Error(t, err)

	c, err := NewClient("sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
}

func TestOpenAIErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	err := &OpenAIError{Op: "classify", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "classify")
}
