// Package instrumentation provides OpenTelemetry instrumentation for the
// waclerk webhook service.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for the webhook, the message pipeline, and
//     external service calls
//   - Distributed tracing for message handling and API calls
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Message Pipeline Metrics:
//   - messages_received_total: Counter of inbound WhatsApp messages by type
//   - intent_total: Counter of classified intents
//   - replies_sent_total: Counter of outbound replies by status
//   - message_handle_duration_seconds: Histogram of end-to-end handling time
//
// External Service Metrics:
//   - service_calls_total: Counter of service calls by service, operation, status
//   - service_call_duration_seconds: Histogram of service call durations
//   - openai_tokens_total: Counter of OpenAI tokens consumed by kind
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - Inbound message handling (message.<type>)
//   - External service calls (<service>.<operation>)
//   - MCP tool invocations (tool.<name>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: waclerk)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "waclerk",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an inbound message and its handling time
//	recorder.RecordMessageReceived(ctx, "text")
//	recorder.RecordMessageHandled(ctx, time.Since(start))
//
//	// Record an external service call
//	recorder.RecordServiceCall(ctx, "calendar", "create", "success", time.Since(start))
package instrumentation
