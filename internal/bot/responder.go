package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jorin/waclerk/internal/calendar"
	"github.com/jorin/waclerk/internal/drive"
	"github.com/jorin/waclerk/internal/instrumentation"
	"github.com/jorin/waclerk/internal/logging"
	"github.com/jorin/waclerk/internal/openai"
)

// User-facing replies. Markdown bold is converted to WhatsApp formatting
// by the messaging client before sending.
const (
	replyIntentFailed  = "Could not determine the intent of your message."
	replyNoFile        = "No file available for upload. Please attach a file."
	replyNoDate        = "Could not extract valid event details. Please provide a clear date for the reminder."
	replyScheduleFail  = "Failed to schedule the event in Google Calendar. Please try again."
	replyNotUnderstood = "Sorry, I did not understand your request. Please try again with a valid instruction."
)

// timeLayouts parse the extracted "HH:MM AM/PM" times combined with the
// date. Models occasionally omit the minutes.
var timeLayouts = []string{"2006-01-02 3:04 PM", "2006-01-02 3 PM", "2006-01-02 15:04"}

// IntentClassifier determines what a message is asking for and extracts
// event details from scheduling requests.
type IntentClassifier interface {
	ClassifyIntent(ctx context.Context, messageBody string) (openai.Intent, error)
	ExtractEventDetails(ctx context.Context, messageBody string) (*openai.EventDetails, error)
}

// EventScheduler creates calendar events.
type EventScheduler interface {
	CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.EventSummary, error)
}

// FileUploader stores files in Drive.
type FileUploader interface {
	UploadFile(ctx context.Context, name string, content io.Reader, options *drive.UploadOptions) (*drive.FileInfo, error)
}

// MeetLinker hands out Google Meet links.
type MeetLinker interface {
	Link(ctx context.Context) (string, error)
}

// ServiceMetrics counts calls to downstream services.
type ServiceMetrics interface {
	RecordServiceCall(ctx context.Context, service, operation, status string, duration time.Duration)
}

// Options configures event creation defaults.
type Options struct {
	// Location is the timezone extracted times are interpreted in.
	Location *time.Location

	// EventDuration is the length of timed events.
	EventDuration time.Duration

	// SharedFolderID is the Drive folder uploads land in.
	SharedFolderID string

	// Metrics records downstream service calls when set.
	Metrics ServiceMetrics
}

// Responder routes messages to calendar, Drive, or Meet actions.
type Responder struct {
	ai       IntentClassifier
	calendar EventScheduler
	drive    FileUploader
	meet     MeetLinker
	opts     Options
	logger   *slog.Logger
}

// NewResponder creates a responder over the given service clients.
func NewResponder(ai IntentClassifier, cal EventScheduler, drv FileUploader, meet MeetLinker, opts Options, logger *slog.Logger) (*Responder, error) {
	if ai == nil {
		return nil, fmt.Errorf("intent classifier cannot be nil")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.EventDuration <= 0 {
		opts.EventDuration = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		ai:       ai,
		calendar: cal,
		drive:    drv,
		meet:     meet,
		opts:     opts,
		logger:   logger,
	}, nil
}

// HandleText processes a text message and returns the reply to send.
// The reply is never empty; action failures produce user-facing text.
func (r *Responder) HandleText(ctx context.Context, waID string, messageBody string) (string, openai.Intent) {
	return r.respond(ctx, waID, messageBody, "")
}

// HandleDocument processes a document message. The caption drives intent
// classification and localFilePath points at the downloaded attachment.
// An attachment without a caption is an upload; there is nothing to
// classify.
func (r *Responder) HandleDocument(ctx context.Context, waID string, caption string, localFilePath string) (string, openai.Intent) {
	if strings.TrimSpace(caption) == "" && localFilePath != "" {
		logger := r.logger.With(logging.UserHash(waID))
		return r.uploadReply(ctx, logger, localFilePath), openai.IntentUpload
	}
	return r.respond(ctx, waID, caption, localFilePath)
}

// recordCall counts one downstream service call when metrics are wired.
func (r *Responder) recordCall(ctx context.Context, service, operation string, start time.Time, err error) {
	if r.opts.Metrics == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	r.opts.Metrics.RecordServiceCall(ctx, service, operation, status, time.Since(start))
}

func (r *Responder) respond(ctx context.Context, waID string, messageBody string, localFilePath string) (string, openai.Intent) {
	logger := r.logger.With(logging.UserHash(waID))

	classifyStart := time.Now()
	intent, err := r.ai.ClassifyIntent(ctx, messageBody)
	r.recordCall(ctx, instrumentation.ServiceOpenAI, instrumentation.OperationClassify, classifyStart, err)
	if err != nil {
		logger.ErrorContext(ctx, "intent classification failed",
			logging.Operation("classify"),
			logging.Err(err))
		return replyIntentFailed, openai.IntentUnknown
	}

	logger.InfoContext(ctx, "intent detected", logging.Intent(string(intent)))

	switch intent {
	case openai.IntentUpload:
		return r.uploadReply(ctx, logger, localFilePath), intent
	case openai.IntentMeet:
		return r.meetReply(ctx, logger), intent
	case openai.IntentCalendar:
		return r.calendarReply(ctx, logger, messageBody), intent
	default:
		return replyNotUnderstood, openai.IntentUnknown
	}
}

// uploadReply uploads the attached file to the shared Drive folder.
func (r *Responder) uploadReply(ctx context.Context, logger *slog.Logger, localFilePath string) string {
	if localFilePath == "" {
		return replyNoFile
	}
	if r.drive == nil {
		logger.ErrorContext(ctx, "drive client not configured", logging.Operation("upload"))
		return replyNoFile
	}

	f, err := os.Open(localFilePath)
	if err != nil {
		logger.ErrorContext(ctx, "failed to open attachment",
			logging.Operation("upload"),
			logging.Err(err))
		return fmt.Sprintf("Error uploading file: %v", err)
	}
	defer f.Close()

	name := filepath.Base(localFilePath)
	start := time.Now()
	info, err := r.drive.UploadFile(ctx, name, f, &drive.UploadOptions{
		ParentFolder: r.opts.SharedFolderID,
		MimeType:     mimeTypeFor(name),
	})
	r.recordCall(ctx, instrumentation.ServiceDrive, instrumentation.OperationUpload, start, err)
	if err != nil {
		logger.ErrorContext(ctx, "drive upload failed",
			logging.Operation("upload"),
			logging.Err(err))
		return fmt.Sprintf("Error uploading file: %v", err)
	}

	reply := fmt.Sprintf("✅ File uploaded. File link: %s", info.Link())
	if r.opts.SharedFolderID != "" {
		reply += fmt.Sprintf("\n📁 File was uploaded into folder: %s", drive.FolderLink(r.opts.SharedFolderID))
	}
	return reply
}

// meetReply hands out a Google Meet link.
func (r *Responder) meetReply(ctx context.Context, logger *slog.Logger) string {
	if r.meet == nil {
		logger.ErrorContext(ctx, "meet provider not configured", logging.Operation("meet"))
		return "Error retrieving Meet link."
	}

	start := time.Now()
	link, err := r.meet.Link(ctx)
	r.recordCall(ctx, instrumentation.ServiceMeet, instrumentation.OperationLink, start, err)
	if err != nil {
		logger.ErrorContext(ctx, "meet link retrieval failed",
			logging.Operation("meet"),
			logging.Err(err))
		return "Error retrieving Meet link."
	}

	return fmt.Sprintf("🔗 **Google Meet Link:** %s", link)
}

// calendarReply extracts event details and schedules the event.
func (r *Responder) calendarReply(ctx context.Context, logger *slog.Logger, messageBody string) string {
	extractStart := time.Now()
	details, err := r.ai.ExtractEventDetails(ctx, messageBody)
	r.recordCall(ctx, instrumentation.ServiceOpenAI, instrumentation.OperationExtract, extractStart, err)
	if err != nil {
		logger.ErrorContext(ctx, "event extraction failed",
			logging.Operation("extract"),
			logging.Err(err))
		return replyNoDate
	}
	if details.Date == "" {
		return replyNoDate
	}
	if r.calendar == nil {
		logger.ErrorContext(ctx, "calendar client not configured", logging.Operation("schedule"))
		return replyScheduleFail
	}

	input, err := r.eventInput(details)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build event",
			logging.Operation("schedule"),
			logging.Err(err))
		return replyNoDate
	}

	createStart := time.Now()
	event, err := r.calendar.CreateEvent(ctx, input)
	r.recordCall(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCreate, createStart, err)
	if err != nil {
		logger.ErrorContext(ctx, "calendar insert failed",
			logging.Operation("schedule"),
			logging.Err(err))
		return replyScheduleFail
	}

	return scheduledReply(details, event.HTMLLink)
}

// eventInput converts extracted details into a calendar event.
// A missing time produces an all-day event in the configured timezone.
func (r *Responder) eventInput(details *openai.EventDetails) (calendar.EventInput, error) {
	input := calendar.EventInput{
		Summary:             details.Title,
		Location:            details.Location,
		Description:         details.Notes,
		TimeZone:            r.opts.Location.String(),
		UseDefaultReminders: true,
	}

	if details.AllDay() {
		day, err := time.ParseInLocation("2006-01-02", details.Date, r.opts.Location)
		if err != nil {
			return calendar.EventInput{}, fmt.Errorf("invalid date %q: %w", details.Date, err)
		}
		input.AllDay = true
		input.Start = day
		input.End = day
		return input, nil
	}

	start, err := parseStart(details.Date, details.Time, r.opts.Location)
	if err != nil {
		return calendar.EventInput{}, err
	}
	input.Start = start
	input.End = start.Add(r.opts.EventDuration)
	return input, nil
}

// parseStart combines the extracted date and clock into a local time.
func parseStart(date, clock string, loc *time.Location) (time.Time, error) {
	combined := date + " " + normalizeClock(clock)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, combined, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q %q", date, clock)
}

// normalizeClock uppercases the meridiem and strips dots so time.Parse
// accepts variants like "10:30 am" or "10:30 p.m.".
func normalizeClock(clock string) string {
	clock = strings.ToUpper(strings.TrimSpace(clock))
	return strings.ReplaceAll(clock, ".", "")
}

// scheduledReply builds the confirmation message for a scheduled event.
func scheduledReply(details *openai.EventDetails, link string) string {
	var b strings.Builder
	b.WriteString("📅 **Reminder Scheduled**\n\n")
	fmt.Fprintf(&b, "**Title:** %s\n", details.Title)
	fmt.Fprintf(&b, "**Date:** %s\n", details.Date)
	fmt.Fprintf(&b, "**Time:** %s\n", orDefault(details.Time, "All Day"))
	fmt.Fprintf(&b, "**Location:** %s\n", orDefault(details.Location, "Not provided"))
	fmt.Fprintf(&b, "**Notes:** %s\n", orDefault(details.Notes, "Not provided"))
	fmt.Fprintf(&b, "🔗 [View in Google Calendar](%s)", link)
	return b.String()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// mimeTypeFor guesses a MIME type from the filename extension.
func mimeTypeFor(name string) string {
	if mt := mime.TypeByExtension(filepath.Ext(name)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
