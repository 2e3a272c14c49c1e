// Package bot turns incoming WhatsApp messages into actions.
//
// The responder classifies each message's intent with OpenAI and then
// either creates a calendar event, hands out a Meet link, or uploads an
// attached file to Drive. Every path produces a reply string for the
// sender; failures map to user-facing messages rather than errors so the
// sender always hears back.
package bot
