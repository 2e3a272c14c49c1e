package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jorin/waclerk/internal/logging"
)

// ActionRecord captures all information about one handled message or tool
// call for audit logging.
//
// # Privacy Considerations
//
// The WaID field contains PII (the sender's phone number). When logging:
//   - Use HashedWaID() for general operational logs
//   - Only log the full wa_id in audit-specific log streams
//   - Ensure audit logs have appropriate access controls
type ActionRecord struct {
	// Action is what happened (message_handled, tool_executed)
	Action string

	// WaID is the sender's WhatsApp ID (phone number)
	WaID string

	// Pipeline details
	MessageType string // WhatsApp message type (text, document, ...)
	Intent      string // classified intent (meet, calendar, upload)
	ServiceName string // external service touched (calendar, drive, meet, openai, whatsapp)
	Operation   string // operation type (create, upload, send, ...)

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// HashedWaID returns the anonymized sender identifier for low-risk logging.
func (r *ActionRecord) HashedWaID() string {
	return logging.AnonymizeWaID(r.WaID)
}

// Status returns "success" or "error" based on the Success field.
func (r *ActionRecord) Status() string {
	if r.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging with the sender
// anonymized. For full audit logging, use LogAuditAttrs.
func (r *ActionRecord) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("action", r.Action),
		slog.String("user", r.HashedWaID()),
		slog.Duration("duration", r.Duration),
		slog.Bool("success", r.Success),
	}

	// Add optional fields only if present
	if r.MessageType != "" {
		attrs = append(attrs, slog.String("message_type", r.MessageType))
	}
	if r.Intent != "" {
		attrs = append(attrs, slog.String("intent", r.Intent))
	}
	if r.ServiceName != "" {
		attrs = append(attrs, slog.String("service", r.ServiceName))
	}
	if r.Operation != "" {
		attrs = append(attrs, slog.String("operation", r.Operation))
	}
	if r.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", r.TraceID))
	}
	if r.Error != "" {
		attrs = append(attrs, slog.String("error", r.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging.
//
// # Security Warning
//
// This method includes PII (the full wa_id). Ensure audit logs are:
//   - Stored securely with appropriate access controls
//   - Not exposed to general monitoring dashboards
//   - Retained according to compliance requirements
func (r *ActionRecord) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("action", r.Action),
		slog.String("user", r.WaID),
		slog.Duration("duration", r.Duration),
		slog.Bool("success", r.Success),
	}

	if r.MessageType != "" {
		attrs = append(attrs, slog.String("message_type", r.MessageType))
	}
	if r.Intent != "" {
		attrs = append(attrs, slog.String("intent", r.Intent))
	}
	if r.ServiceName != "" {
		attrs = append(attrs, slog.String("service", r.ServiceName))
	}
	if r.Operation != "" {
		attrs = append(attrs, slog.String("operation", r.Operation))
	}
	if r.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", r.TraceID))
	}
	if r.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", r.SpanID))
	}
	if r.Error != "" {
		attrs = append(attrs, slog.String("error", r.Error))
	}

	return attrs
}

// NewActionRecord creates a new ActionRecord with timing started.
// Call Complete() when the operation finishes.
func NewActionRecord(action string) *ActionRecord {
	return &ActionRecord{
		Action:    action,
		StartTime: time.Now(),
	}
}

// WithUser sets the sender's WhatsApp ID.
func (r *ActionRecord) WithUser(waID string) *ActionRecord {
	r.WaID = waID
	return r
}

// WithMessage sets the message type and classified intent.
func (r *ActionRecord) WithMessage(messageType, intent string) *ActionRecord {
	r.MessageType = messageType
	r.Intent = intent
	return r
}

// WithService sets the external service and operation.
func (r *ActionRecord) WithService(serviceName, operation string) *ActionRecord {
	r.ServiceName = serviceName
	r.Operation = operation
	return r
}

// WithSpanContext extracts trace context from the current span.
func (r *ActionRecord) WithSpanContext(ctx context.Context) *ActionRecord {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.TraceID = span.SpanContext().TraceID().String()
		r.SpanID = span.SpanContext().SpanID().String()
	}
	return r
}

// Complete marks the record as completed and calculates duration.
// Returns the same ActionRecord for method chaining.
func (r *ActionRecord) Complete(success bool, err error) *ActionRecord {
	r.Duration = time.Since(r.StartTime)
	r.Success = success
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// CompleteWithError marks the record as failed with the given error.
func (r *ActionRecord) CompleteWithError(err error) *ActionRecord {
	return r.Complete(false, err)
}

// CompleteSuccess marks the record as successful.
func (r *ActionRecord) CompleteSuccess() *ActionRecord {
	return r.Complete(true, nil)
}

// AuditLogger provides structured audit logging for handled actions.
// It wraps slog.Logger with convenience methods for logging pipeline events.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates a new AuditLogger with the given slog.Logger.
// By default, PII is not included in logs (anonymized identifiers are used instead).
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// SetIncludePII sets whether full phone numbers appear in audit logs.
func (al *AuditLogger) SetIncludePII(include bool) {
	al.includePII = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogAction logs a handled action. If the logger is configured with
// IncludePII, the full wa_id is logged; otherwise only the anonymized
// identifier is used.
func (al *AuditLogger) LogAction(r *ActionRecord) {
	if !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = r.LogAuditAttrs()
	} else {
		attrs = r.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if r.Success {
		al.logger.Info("action_completed", args...)
	} else {
		al.logger.Warn("action_failed", args...)
	}
}
