// Package whatsapp provides a client for the WhatsApp Business Cloud API
// and types for the webhook payloads Meta delivers.
//
// The client sends text replies and resolves media attachments through the
// Graph API. Webhook payloads are verified with the X-Hub-Signature-256
// header before they are trusted.
package whatsapp
