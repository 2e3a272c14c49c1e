package bot

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorin/waclerk/internal/calendar"
	"github.com/jorin/waclerk/internal/drive"
	"github.com/jorin/waclerk/internal/instrumentation"
	"github.com/jorin/waclerk/internal/openai"
)

type fakeAI struct {
	intent        openai.Intent
	intentErr     error
	details       *openai.EventDetails
	detailsErr    error
	classifyCalls int
}

func (f *fakeAI) ClassifyIntent(ctx context.Context, messageBody string) (openai.Intent, error) {
	f.classifyCalls++
	return f.intent, f.intentErr
}

func (f *fakeAI) ExtractEventDetails(ctx context.Context, messageBody string) (*openai.EventDetails, error) {
	return f.details, f.detailsErr
}

type fakeScheduler struct {
	gotInput calendar.EventInput
	result   *calendar.EventSummary
	err      error
}

func (f *fakeScheduler) CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.EventSummary, error) {
	f.gotInput = input
	return f.result, f.err
}

type fakeUploader struct {
	gotName string
	gotOpts *drive.UploadOptions
	result  *drive.FileInfo
	err     error
}

func (f *fakeUploader) UploadFile(ctx context.Context, name string, content io.Reader, options *drive.UploadOptions) (*drive.FileInfo, error) {
	f.gotName = name
	f.gotOpts = options
	return f.result, f.err
}

type serviceCall struct {
	service   string
	operation string
	status    string
}

type fakeMetrics struct {
	calls []serviceCall
}

func (f *fakeMetrics) RecordServiceCall(ctx context.Context, service, operation, status string, duration time.Duration) {
	f.calls = append(f.calls, serviceCall{service, operation, status})
}

type fakeMeet struct {
	link string
	err  error
}

func (f *fakeMeet) Link(ctx context.Context) (string, error) {
	return f.link, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newResponder(t *testing.T, ai IntentClassifier, cal EventScheduler, drv FileUploader, meet MeetLinker) *Responder {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	r, err := NewResponder(ai, cal, drv, meet, Options{
		Location:       loc,
		EventDuration:  30 * time.Minute,
		SharedFolderID: "folder-1",
	}, testLogger())
	require.NoError(t, err)
	return r
}

func TestHandleTextMeet(t *testing.T) {
	r := newResponder(t,
		&fakeAI{intent: openai.IntentMeet},
		nil, nil,
		&fakeMeet{link: "https://meet.google.com/abc-defg-hij"})

	reply, intent := r.HandleText(context.Background(), "15551234567", "give me a meet link")
	assert.Equal(t, openai.IntentMeet, intent)
	assert.Equal(t, "🔗 **Google Meet Link:** https://meet.google.com/abc-defg-hij", reply)
}

func TestHandleTextMeetFailure(t *testing.T) {
	r := newResponder(t,
		&fakeAI{intent: openai.IntentMeet},
		nil, nil,
		&fakeMeet{err: assert.AnError})

	reply, _ := r.HandleText(context.Background(), "15551234567", "meet link please")
	assert.Equal(t, "Error retrieving Meet link.", reply)
}

func TestHandleTextCalendarTimed(t *testing.T) {
	scheduler := &fakeScheduler{result: &calendar.EventSummary{
		HTMLLink: "https://calendar.google.com/event?eid=abc",
	}}
	r := newResponder(t,
		&fakeAI{
			intent: openai.IntentCalendar,
			details: &openai.EventDetails{
				Title:    "Team Sync",
				Date:     "2026-09-15",
				Time:     "10:30 AM",
				Location: "Conference Room B",
			},
		},
		scheduler, nil, nil)

	reply, intent := r.HandleText(context.Background(), "15551234567", "schedule a sync")
	assert.Equal(t, openai.IntentCalendar, intent)

	assert.Equal(t, "Team Sync", scheduler.gotInput.Summary)
	assert.False(t, scheduler.gotInput.AllDay)
	assert.Equal(t, "Asia/Kolkata", scheduler.gotInput.TimeZone)
	assert.True(t, scheduler.gotInput.UseDefaultReminders)

	loc, _ := time.LoadLocation("Asia/Kolkata")
	wantStart := time.Date(2026, 9, 15, 10, 30, 0, 0, loc)
	assert.True(t, scheduler.gotInput.Start.Equal(wantStart), "start = %v, want %v", scheduler.gotInput.Start, wantStart)
	assert.True(t, scheduler.gotInput.End.Equal(wantStart.Add(30*time.Minute)))

	assert.Contains(t, reply, "📅 **Reminder Scheduled**")
	assert.Contains(t, reply, "**Title:** Team Sync")
	assert.Contains(t, reply, "**Time:** 10:30 AM")
	assert.Contains(t, reply, "**Notes:** Not provided")
	assert.Contains(t, reply, "https://calendar.google.com/event?eid=abc")
}

func TestHandleTextCalendarAllDay(t *testing.T) {
	scheduler := &fakeScheduler{result: &calendar.EventSummary{HTMLLink: "https://calendar.google.com/event?eid=xyz"}}
	r := newResponder(t,
		&fakeAI{
			intent:  openai.IntentCalendar,
			details: &openai.EventDetails{Title: "Holiday", Date: "2026-11-08"},
		},
		scheduler, nil, nil)

	reply, _ := r.HandleText(context.Background(), "15551234567", "remind me about the holiday")

	assert.True(t, scheduler.gotInput.AllDay)
	assert.Equal(t, "2026-11-08", scheduler.gotInput.Start.Format("2006-01-02"))
	assert.Contains(t, reply, "**Time:** All Day")
}

func TestHandleTextCalendarNoDate(t *testing.T) {
	r := newResponder(t,
		&fakeAI{
			intent:  openai.IntentCalendar,
			details: &openai.EventDetails{Title: "Dentist"},
		},
		&fakeScheduler{}, nil, nil)

	reply, _ := r.HandleText(context.Background(), "15551234567", "remind me about the dentist")
	assert.Equal(t, replyNoDate, reply)
}

func TestHandleTextCalendarScheduleFailure(t *testing.T) {
	r := newResponder(t,
		&fakeAI{
			intent:  openai.IntentCalendar,
			details: &openai.EventDetails{Title: "Sync", Date: "2026-09-15", Time: "10:00 AM"},
		},
		&fakeScheduler{err: assert.AnError}, nil, nil)

	reply, _ := r.HandleText(context.Background(), "15551234567", "schedule a sync")
	assert.Equal(t, replyScheduleFail, reply)
}

func TestHandleTextUnknownIntent(t *testing.T) {
	r := newResponder(t, &fakeAI{intent: openai.IntentUnknown}, nil, nil, nil)

	reply, intent := r.HandleText(context.Background(), "15551234567", "what is the weather")
	assert.Equal(t, openai.IntentUnknown, intent)
	assert.Equal(t, replyNotUnderstood, reply)
}

func TestHandleTextClassifyFailure(t *testing.T) {
	r := newResponder(t, &fakeAI{intentErr: assert.AnError}, nil, nil, nil)

	reply, _ := r.HandleText(context.Background(), "15551234567", "anything")
	assert.Equal(t, replyIntentFailed, reply)
}

func TestHandleTextUploadWithoutFile(t *testing.T) {
	r := newResponder(t, &fakeAI{intent: openai.IntentUpload}, nil, &fakeUploader{}, nil)

	reply, _ := r.HandleText(context.Background(), "15551234567", "upload this")
	assert.Equal(t, replyNoFile, reply)
}

func TestHandleDocumentUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("quarterly numbers"), 0o600))

	uploader := &fakeUploader{result: &drive.FileInfo{
		ID:          "file-1",
		Name:        "report.txt",
		WebViewLink: "https://drive.google.com/file/d/file-1/view",
	}}
	r := newResponder(t, &fakeAI{intent: openai.IntentUpload}, nil, uploader, nil)

	reply, intent := r.HandleDocument(context.Background(), "15551234567", "upload the report", path)
	assert.Equal(t, openai.IntentUpload, intent)

	assert.Equal(t, "report.txt", uploader.gotName)
	assert.Equal(t, "folder-1", uploader.gotOpts.ParentFolder)
	assert.Contains(t, uploader.gotOpts.MimeType, "text/plain")

	assert.Contains(t, reply, "✅ File uploaded.")
	assert.Contains(t, reply, "https://drive.google.com/file/d/file-1/view")
	assert.Contains(t, reply, drive.FolderLink("folder-1"))
}

func TestHandleDocumentUploadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

	r := newResponder(t, &fakeAI{intent: openai.IntentUpload}, nil, &fakeUploader{err: assert.AnError}, nil)

	reply, _ := r.HandleDocument(context.Background(), "15551234567", "upload", path)
	assert.Contains(t, reply, "Error uploading file")
}

func TestHandleDocumentWithoutCaption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	uploader := &fakeUploader{result: &drive.FileInfo{
		ID:          "file-2",
		Name:        "scan.pdf",
		WebViewLink: "https://drive.google.com/file/d/file-2/view",
	}}
	// The classifier would error if consulted; a bare attachment must
	// upload without one.
	ai := &fakeAI{intentErr: assert.AnError}
	r := newResponder(t, ai, nil, uploader, nil)

	reply, intent := r.HandleDocument(context.Background(), "15551234567", "   ", path)
	assert.Equal(t, openai.IntentUpload, intent)
	assert.Equal(t, 0, ai.classifyCalls)
	assert.Equal(t, "scan.pdf", uploader.gotName)
	assert.Contains(t, reply, "✅ File uploaded.")
}

func TestServiceCallMetrics(t *testing.T) {
	metrics := &fakeMetrics{}
	r, err := NewResponder(
		&fakeAI{intent: openai.IntentMeet},
		nil, nil,
		&fakeMeet{link: "https://meet.google.com/abc-defg-hij"},
		Options{Metrics: metrics}, testLogger())
	require.NoError(t, err)

	r.HandleText(context.Background(), "15551234567", "meet link please")

	require.Len(t, metrics.calls, 2)
	assert.Equal(t, serviceCall{instrumentation.ServiceOpenAI, instrumentation.OperationClassify, instrumentation.StatusSuccess}, metrics.calls[0])
	assert.Equal(t, serviceCall{instrumentation.ServiceMeet, instrumentation.OperationLink, instrumentation.StatusSuccess}, metrics.calls[1])
}

func TestServiceCallMetricsError(t *testing.T) {
	metrics := &fakeMetrics{}
	r, err := NewResponder(
		&fakeAI{intent: openai.IntentMeet},
		nil, nil,
		&fakeMeet{err: assert.AnError},
		Options{Metrics: metrics}, testLogger())
	require.NoError(t, err)

	r.HandleText(context.Background(), "15551234567", "meet link please")

	require.Len(t, metrics.calls, 2)
	assert.Equal(t, instrumentation.StatusError, metrics.calls[1].status)
}

func TestParseStart(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name    string
		date    string
		clock   string
		want    time.Time
		wantErr bool
	}{
		{name: "standard", date: "2026-09-15", clock: "10:30 AM", want: time.Date(2026, 9, 15, 10, 30, 0, 0, loc)},
		{name: "lowercase", date: "2026-09-15", clock: "4:00 pm", want: time.Date(2026, 9, 15, 16, 0, 0, 0, loc)},
		{name: "dotted meridiem", date: "2026-09-15", clock: "9:15 p.m.", want: time.Date(2026, 9, 15, 21, 15, 0, 0, loc)},
		{name: "no minutes", date: "2026-09-15", clock: "7 PM", want: time.Date(2026, 9, 15, 19, 0, 0, 0, loc)},
		{name: "24 hour", date: "2026-09-15", clock: "14:45", want: time.Date(2026, 9, 15, 14, 45, 0, 0, loc)},
		{name: "garbage", date: "2026-09-15", clock: "noonish", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStart(tt.date, tt.clock, loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestNewResponderDefaults(t *testing.T) {
	r, err := NewResponder(&fakeAI{}, nil, nil, nil, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, r.opts.Location)
	assert.Equal(t, 30*time.Minute, r.opts.EventDuration)

	_, err = NewResponder(nil, nil, nil, nil, Options{}, nil)
	assert.Error(t, err)
}
