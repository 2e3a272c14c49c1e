package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestActionRecord_Status(t *testing.T) {
	record := NewActionRecord("message_handled")

	record.Complete(true, nil)
	if record.Status() != StatusSuccess {
		t.Errorf("expected status %q, got %q", StatusSuccess, record.Status())
	}

	record.Success = false
	if record.Status() != StatusError {
		t.Errorf("expected status %q, got %q", StatusError, record.Status())
	}
}

func TestActionRecord_HashedWaID(t *testing.T) {
	record := NewActionRecord("message_handled").WithUser("15551234567")

	hashed := record.HashedWaID()
	if hashed == "" {
		t.Fatal("expected non-empty hashed wa_id")
	}
	if strings.Contains(hashed, "15551234567") {
		t.Error("hashed wa_id must not contain the raw phone number")
	}

	// Same input hashes to the same value
	other := NewActionRecord("message_handled").WithUser("15551234567")
	if other.HashedWaID() != hashed {
		t.Error("expected stable hash for the same wa_id")
	}
}

func TestActionRecord_Complete(t *testing.T) {
	record := NewActionRecord("message_handled")
	time.Sleep(time.Millisecond)

	record.Complete(false, errors.New("boom"))

	if record.Duration <= 0 {
		t.Error("expected positive duration after Complete")
	}
	if record.Success {
		t.Error("expected success to be false")
	}
	if record.Error != "boom" {
		t.Errorf("expected error 'boom', got %q", record.Error)
	}
}

func TestActionRecord_CompleteHelpers(t *testing.T) {
	ok := NewActionRecord("tool_executed").CompleteSuccess()
	if !ok.Success || ok.Error != "" {
		t.Errorf("CompleteSuccess: got success=%v error=%q", ok.Success, ok.Error)
	}

	failed := NewActionRecord("tool_executed").CompleteWithError(errors.New("denied"))
	if failed.Success || failed.Error != "denied" {
		t.Errorf("CompleteWithError: got success=%v error=%q", failed.Success, failed.Error)
	}
}

func TestActionRecord_LogAttrs_Anonymized(t *testing.T) {
	record := NewActionRecord("message_handled").
		WithUser("15551234567").
		WithMessage("text", "calendar").
		WithService(ServiceCalendar, OperationCreate).
		CompleteSuccess()

	attrs := record.LogAttrs()

	attrMap := make(map[string]slog.Value)
	for _, attr := range attrs {
		attrMap[attr.Key] = attr.Value
	}

	user, ok := attrMap["user"]
	if !ok {
		t.Fatal("expected user attribute")
	}
	if strings.Contains(user.String(), "15551234567") {
		t.Error("LogAttrs must not expose the raw wa_id")
	}
	if attrMap["intent"].String() != "calendar" {
		t.Errorf("expected intent 'calendar', got %q", attrMap["intent"].String())
	}
	if attrMap["service"].String() != ServiceCalendar {
		t.Errorf("expected service %q, got %q", ServiceCalendar, attrMap["service"].String())
	}
}

func TestActionRecord_LogAuditAttrs_IncludesPII(t *testing.T) {
	record := NewActionRecord("message_handled").
		WithUser("15551234567").
		CompleteSuccess()

	attrs := record.LogAuditAttrs()

	found := false
	for _, attr := range attrs {
		if attr.Key == "user" && attr.Value.String() == "15551234567" {
			found = true
		}
	}
	if !found {
		t.Error("LogAuditAttrs should include the full wa_id")
	}
}

func TestAuditLogger_LogAction(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLogger(logger)
	record := NewActionRecord("message_handled").
		WithUser("15551234567").
		WithMessage("text", "meet").
		CompleteSuccess()

	al.LogAction(record)

	out := buf.String()
	if !strings.Contains(out, "action_completed") {
		t.Errorf("expected action_completed log line, got %q", out)
	}
	if strings.Contains(out, "15551234567") {
		t.Error("default audit logging must not include the raw wa_id")
	}
}

func TestAuditLogger_LogAction_WithPII(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{
		Enabled:    true,
		IncludePII: true,
	})
	record := NewActionRecord("message_handled").
		WithUser("15551234567").
		CompleteSuccess()

	al.LogAction(record)

	if !strings.Contains(buf.String(), "15551234567") {
		t.Error("expected full wa_id when IncludePII is enabled")
	}
}

func TestAuditLogger_LogAction_Failure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLogger(logger)
	record := NewActionRecord("message_handled").
		WithUser("15551234567").
		CompleteWithError(errors.New("upload failed"))

	al.LogAction(record)

	out := buf.String()
	if !strings.Contains(out, "action_failed") {
		t.Errorf("expected action_failed log line, got %q", out)
	}
	if !strings.Contains(out, "upload failed") {
		t.Errorf("expected error message in log, got %q", out)
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false})
	al.LogAction(NewActionRecord("message_handled").CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}

func TestAuditLogger_Setters(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLogger(logger)
	al.SetEnabled(false)
	al.LogAction(NewActionRecord("message_handled").CompleteSuccess())
	if buf.Len() != 0 {
		t.Error("expected no output after SetEnabled(false)")
	}

	al.SetEnabled(true)
	al.SetIncludePII(true)
	al.LogAction(NewActionRecord("message_handled").WithUser("15551234567").CompleteSuccess())
	if !strings.Contains(buf.String(), "15551234567") {
		t.Error("expected full wa_id after SetIncludePII(true)")
	}
}
