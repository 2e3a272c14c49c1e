package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/jorin/waclerk/internal/google"
)

// Client wraps the Google Calendar service for a single calendar
type Client struct {
	svc        *calendar.Service
	calendarID string
}

// NewClient creates a Calendar client authenticated with the service-account
// credentials, scoped to the given calendar.
func NewClient(ctx context.Context, creds *google.Credentials, calendarID string) (*Client, error) {
	if calendarID == "" {
		return nil, fmt.Errorf("calendarID cannot be empty")
	}

	httpClient, err := creds.HTTPClient(ctx, google.CalendarScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build Calendar HTTP client: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: calendarID,
	}, nil
}

// CalendarID returns the calendar this client schedules into.
func (c *Client) CalendarID() string {
	return c.calendarID
}

// CreateEvent creates a new calendar event
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*EventSummary, error) {
	if input.Summary == "" {
		return nil, fmt.Errorf("event summary is required")
	}
	if input.Start.IsZero() {
		return nil, fmt.Errorf("event start is required")
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
	}

	end := input.End
	if end.IsZero() {
		end = input.Start
	}

	// For all-day events, use Date instead of DateTime
	if input.AllDay {
		event.Start = &calendar.EventDateTime{
			Date: input.Start.Format("2006-01-02"),
		}
		event.End = &calendar.EventDateTime{
			Date: end.Format("2006-01-02"),
		}
	} else {
		tz := input.TimeZone
		if tz == "" {
			tz = "UTC"
		}
		event.Start = &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: tz,
		}
		event.End = &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: tz,
		}
	}

	if input.UseDefaultReminders {
		event.Reminders = &calendar.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		}
	}

	call := c.svc.Events.Insert(c.calendarID, event).Context(ctx)

	if input.WithConference {
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		}
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	summary.AllDay = input.AllDay
	return &summary, nil
}

// ListEvents lists events within a time range, ordered by start time
func (c *Client) ListEvents(ctx context.Context, timeMin, timeMax time.Time, query string) ([]EventSummary, error) {
	call := c.svc.Events.List(c.calendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	if query != "" {
		call = call.Q(query)
	}

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var summaries []EventSummary
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}

	return summaries, nil
}

// GetEvent retrieves a specific event by ID
func (c *Client) GetEvent(ctx context.Context, eventID string) (*EventSummary, error) {
	event, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	summary := toEventSummary(event)
	return &summary, nil
}

// DeleteEvent deletes a calendar event
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// CreateMeetConference creates a short throwaway event with an attached
// Google Meet conference and returns the meeting URI. Used as the fallback
// when the meet link pool is exhausted.
func (c *Client) CreateMeetConference(ctx context.Context, summary string) (string, error) {
	now := time.Now().UTC()
	created, err := c.CreateEvent(ctx, EventInput{
		Summary:        summary,
		Description:    "Generated Google Meet link.",
		Start:          now,
		End:            now.Add(30 * time.Minute),
		TimeZone:       "UTC",
		WithConference: true,
	})
	if err != nil {
		return "", err
	}
	if created.MeetLink == "" {
		return "", fmt.Errorf("created event %s has no Meet link", created.ID)
	}
	return created.MeetLink, nil
}
