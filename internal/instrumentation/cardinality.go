package instrumentation

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// Webhook payloads carry arbitrary message types and the intent labels come
// back from an LLM, so both are clamped to a known set before they reach a
// metric label.

// knownMessageTypes are the WhatsApp message types recorded verbatim.
var knownMessageTypes = map[string]bool{
	"text":     true,
	"document": true,
	"image":    true,
	"audio":    true,
	"video":    true,
}

// knownIntents are the intent values recorded verbatim.
var knownIntents = map[string]bool{
	"meet":     true,
	"calendar": true,
	"upload":   true,
}

// NormalizeMessageType clamps a WhatsApp message type to a bounded label set.
//
// Example:
//
//	NormalizeMessageType("text")     // "text"
//	NormalizeMessageType("sticker")  // "other"
//	NormalizeMessageType("")         // "other"
func NormalizeMessageType(messageType string) string {
	if knownMessageTypes[messageType] {
		return messageType
	}
	return "other"
}

// NormalizeIntent clamps an intent label to a bounded set.
func NormalizeIntent(intent string) string {
	if knownIntents[intent] {
		return intent
	}
	return StatusUnknown
}

// Common operation types for service call metrics.
// Status and Service constants are defined in config.go.
const (
	OperationList     = "list"
	OperationGet      = "get"
	OperationCreate   = "create"
	OperationDelete   = "delete"
	OperationSend     = "send"
	OperationUpload   = "upload"
	OperationDownload = "download"
	OperationClassify = "classify"
	OperationExtract  = "extract"
	OperationLink     = "link"
)
