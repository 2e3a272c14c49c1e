package whatsapp

import "fmt"

// WebhookPayload is the envelope Meta posts to the webhook endpoint.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the changes delivered for one WhatsApp Business account.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change carries one field update, typically "messages".
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value holds the contacts and messages of a change notification.
type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata identifies the business phone number that received the message.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact describes the sender of a message.
type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

// Profile carries the sender's display name.
type Profile struct {
	Name string `json:"name"`
}

// Message is one inbound message in a webhook delivery.
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	Timestamp string    `json:"timestamp"`
	Type      string    `json:"type"`
	Text      *Text     `json:"text,omitempty"`
	Document  *Document `json:"document,omitempty"`
	Image     *Document `json:"image,omitempty"`
}

// Text is the body of a text message.
type Text struct {
	Body string `json:"body"`
}

// Document describes a media attachment by its Graph API media ID.
type Document struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	Filename string `json:"filename,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// Status is a delivery/read receipt for an outbound message.
type Status struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
}

// IsValidPayload reports whether the payload contains at least one
// user message with the structure the handlers expect.
func (p *WebhookPayload) IsValidPayload() bool {
	if p.Object == "" || len(p.Entry) == 0 {
		return false
	}
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) > 0 {
				return true
			}
		}
	}
	return false
}

// FirstMessage returns the first message and its contact from the payload,
// or nil when the payload holds none (for example a status-only delivery).
func (p *WebhookPayload) FirstMessage() (*Message, *Contact) {
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) == 0 {
				continue
			}
			msg := &change.Value.Messages[0]
			var contact *Contact
			if len(change.Value.Contacts) > 0 {
				contact = &change.Value.Contacts[0]
			}
			return msg, contact
		}
	}
	return nil, nil
}

// MediaInfo is the Graph API response for a media ID lookup.
type MediaInfo struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	FileSize int64  `json:"file_size"`
}

// WhatsAppError represents an error that occurred during WhatsApp operations
type WhatsAppError struct {
	// Op is the operation that failed (e.g., "send", "media", "download")
	Op string

	// Recipient is the anonymized hash of the wa_id associated with the
	// operation, if any. Raw phone numbers must never enter error strings;
	// errors end up in non-debug logs.
	Recipient string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *WhatsAppError) Error() string {
	if e.Recipient != "" {
		return fmt.Sprintf("whatsapp %s (recipient: %s): %v", e.Op, e.Recipient, e.Err)
	}
	return fmt.Sprintf("whatsapp %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *WhatsAppError) Unwrap() error {
	return e.Err
}
