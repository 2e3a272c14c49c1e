package openai

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the cost-efficient chat-completion model used when the
// configuration names none.
const DefaultModel = "gpt-4o-mini"

// extractionSystemPrompt instructs the model to answer in labelled lines.
const extractionSystemPrompt = "You are an AI assistant that extracts event and reminder details from messages. " +
	"Your task is to identify the following details if provided: " +
	"Title, Date (in YYYY-MM-DD), Time (in HH:MM AM/PM or indicate 'All Day' if not provided), " +
	"Location, and Additional Notes. " +
	"If any detail is missing, indicate 'Not provided'."

// Anchored field parsers for the labelled-line reply format.
var (
	titleRe    = regexp.MustCompile(`(?m)^\**Title\**:\s*(.+)`)
	dateRe     = regexp.MustCompile(`(?m)^\**Date\**:\s*([\d]{4}-[\d]{2}-[\d]{2}|Not provided)`)
	timeRe     = regexp.MustCompile(`(?m)^\**Time\**:\s*([\d:]+\s*[APMapm.]+|All Day|Not provided)`)
	locationRe = regexp.MustCompile(`(?m)^\**Location\**:\s*(.+)`)
	notesRe    = regexp.MustCompile(`(?m)^\**Notes\**:\s*(.+)`)
)

// UsageFunc receives token counts after every completed API call.
type UsageFunc func(promptTokens, completionTokens int)

// Client wraps the OpenAI chat-completions API
type Client struct {
	api   *openai.Client
	model string

	// OnUsage, when set, is called with token usage of each request.
	OnUsage UsageFunc
}

// NewClient creates an OpenAI client for the given API key and model.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey cannot be empty")
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
	}, nil
}

// Model returns the configured chat-completion model.
func (c *Client) Model() string {
	return c.model
}

// ClassifyIntent determines what action a message is asking for.
// Unrecognized replies map to IntentUnknown rather than an error.
func (c *Client) ClassifyIntent(ctx context.Context, messageBody string) (Intent, error) {
	prompt := "Determine if the following message is requesting a Google Meet link generation, " +
		"scheduling a Google Calendar event, or uploading a file to Google Drive. " +
		"Respond with only one word: 'meet', 'calendar', or 'upload'.\n\n" +
		"Message: " + messageBody

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		// The field is omitted when zero, which leaves the API default
		// of 1; the smallest positive value is the closest to a true 0.
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return IntentUnknown, &OpenAIError{Op: "classify", Err: err}
	}
	c.recordUsage(resp.Usage)

	if len(resp.Choices) == 0 {
		return IntentUnknown, &OpenAIError{Op: "classify", Err: fmt.Errorf("empty response")}
	}

	answer := strings.ToLower(strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `'".`))
	return ParseIntent(answer), nil
}

// ExtractEventDetails extracts event fields from a scheduling message.
func (c *Client) ExtractEventDetails(ctx context.Context, messageBody string) (*EventDetails, error) {
	prompt := "Extract the following details from the message below:\n" +
		"Title: <event title>\n" +
		"Date: <YYYY-MM-DD> or 'Not provided'\n" +
		"Time: <HH:MM AM/PM> or 'All Day' or 'Not provided'\n" +
		"Location: <location> or 'Not provided'\n" +
		"Notes: <additional notes> or 'Not provided'\n\n" +
		"Message: " + messageBody

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, &OpenAIError{Op: "extract", Err: err}
	}
	c.recordUsage(resp.Usage)

	if len(resp.Choices) == 0 {
		return nil, &OpenAIError{Op: "extract", Err: fmt.Errorf("empty response")}
	}

	return parseEventDetails(resp.Choices[0].Message.Content), nil
}

// parseEventDetails pulls the labelled fields out of the model reply.
func parseEventDetails(text string) *EventDetails {
	details := &EventDetails{
		Title: matchField(titleRe, text),
	}

	if date := matchField(dateRe, text); date != "Not provided" {
		details.Date = date
	}

	switch t := matchField(timeRe, text); t {
	case "All Day", "Not provided", "":
		// all-day; Time stays empty
	default:
		details.Time = t
	}

	if loc := matchField(locationRe, text); loc != "Not provided" {
		details.Location = loc
	}
	if notes := matchField(notesRe, text); notes != "Not provided" {
		details.Notes = notes
	}

	return details
}

func matchField(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(m[1]), "*"))
}

func (c *Client) recordUsage(usage openai.Usage) {
	if c.OnUsage != nil {
		c.OnUsage(usage.PromptTokens, usage.CompletionTokens)
	}
}
