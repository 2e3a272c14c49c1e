package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrIntent    = "intent"
	attrType      = "type"
	attrKind      = "kind"
	attrTool      = "tool"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics for the webhook server
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Message pipeline metrics
	messagesReceivedTotal metric.Int64Counter
	intentTotal           metric.Int64Counter
	repliesSentTotal      metric.Int64Counter
	messageHandleDuration metric.Float64Histogram

	// External service metrics (calendar, drive, meet, openai, whatsapp)
	serviceCallsTotal   metric.Int64Counter
	serviceCallDuration metric.Float64Histogram

	// OpenAI token accounting
	openaiTokensTotal metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Message pipeline metrics
	m.messagesReceivedTotal, err = meter.Int64Counter(
		"messages_received_total",
		metric.WithDescription("Total number of WhatsApp messages received"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_received_total counter: %w", err)
	}

	m.intentTotal, err = meter.Int64Counter(
		"intent_total",
		metric.WithDescription("Total number of classified message intents"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create intent_total counter: %w", err)
	}

	m.repliesSentTotal, err = meter.Int64Counter(
		"replies_sent_total",
		metric.WithDescription("Total number of WhatsApp replies sent"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create replies_sent_total counter: %w", err)
	}

	m.messageHandleDuration, err = meter.Float64Histogram(
		"message_handle_duration_seconds",
		metric.WithDescription("End-to-end message handling duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message_handle_duration_seconds histogram: %w", err)
	}

	// External service metrics
	m.serviceCallsTotal, err = meter.Int64Counter(
		"service_calls_total",
		metric.WithDescription("Total number of external service calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service_calls_total counter: %w", err)
	}

	m.serviceCallDuration, err = meter.Float64Histogram(
		"service_call_duration_seconds",
		metric.WithDescription("External service call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service_call_duration_seconds histogram: %w", err)
	}

	// OpenAI token accounting
	m.openaiTokensTotal, err = meter.Int64Counter(
		"openai_tokens_total",
		metric.WithDescription("Total number of OpenAI tokens consumed"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai_tokens_total counter: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordMessageReceived records an inbound WhatsApp message by type
// (text, document, image, other).
func (m *Metrics) RecordMessageReceived(ctx context.Context, messageType string) {
	if m.messagesReceivedTotal == nil {
		return // Instrumentation not initialized
	}

	m.messagesReceivedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrType, NormalizeMessageType(messageType)),
	))
}

// RecordIntent records a classified intent (meet, calendar, upload, unknown).
func (m *Metrics) RecordIntent(ctx context.Context, intent string) {
	if m.intentTotal == nil {
		return // Instrumentation not initialized
	}

	m.intentTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrIntent, NormalizeIntent(intent)),
	))
}

// RecordReplySent records an outbound reply with its delivery status.
func (m *Metrics) RecordReplySent(ctx context.Context, status string) {
	if m.repliesSentTotal == nil {
		return // Instrumentation not initialized
	}

	m.repliesSentTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}

// RecordMessageHandled records the end-to-end handling duration of one message.
func (m *Metrics) RecordMessageHandled(ctx context.Context, duration time.Duration) {
	if m.messageHandleDuration == nil {
		return // Instrumentation not initialized
	}

	m.messageHandleDuration.Record(ctx, duration.Seconds())
}

// RecordServiceCall records an external service call with service, operation,
// status, and duration.
//
// Parameters:
//   - service: service name (calendar, drive, meet, openai, whatsapp)
//   - operation: operation type (create, list, upload, classify, send, etc.)
//   - status: result status ("success" or "error")
//   - duration: time taken for the call
func (m *Metrics) RecordServiceCall(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.serviceCallsTotal == nil || m.serviceCallDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.serviceCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.serviceCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordOpenAITokens records prompt and completion token usage of one request.
func (m *Metrics) RecordOpenAITokens(ctx context.Context, promptTokens, completionTokens int) {
	if m.openaiTokensTotal == nil {
		return // Instrumentation not initialized
	}

	if promptTokens > 0 {
		m.openaiTokensTotal.Add(ctx, int64(promptTokens), metric.WithAttributes(
			attribute.String(attrKind, TokenKindPrompt),
		))
	}
	if completionTokens > 0 {
		m.openaiTokensTotal.Add(ctx, int64(completionTokens), metric.WithAttributes(
			attribute.String(attrKind, TokenKindCompletion),
		))
	}
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
