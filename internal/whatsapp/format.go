package whatsapp

import "regexp"

var (
	// bracketRe matches the citation markers some AI models emit.
	bracketRe = regexp.MustCompile(`\x{3010}.*?\x{3011}`)

	// boldRe matches markdown bold, which WhatsApp renders with single
	// asterisks instead.
	boldRe = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// FormatForWhatsApp converts markdown-style text to WhatsApp formatting.
// Double-asterisk bold becomes single-asterisk and citation brackets are
// stripped.
func FormatForWhatsApp(text string) string {
	text = bracketRe.ReplaceAllString(text, "")
	return boldRe.ReplaceAllString(text, "*$1*")
}
