package whatsapp

import "testing"

// TestFormatForWhatsApp tests markdown conversion and bracket stripping
func TestFormatForWhatsApp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bold conversion",
			input: "**Event created** on Monday",
			want:  "*Event created* on Monday",
		},
		{
			name:  "multiple bold spans",
			input: "**Title**: Sync, **Time**: 10 AM",
			want:  "*Title*: Sync, *Time*: 10 AM",
		},
		{
			name:  "citation brackets stripped",
			input: "See the doc【source: file.pdf】 for details",
			want:  "See the doc for details",
		},
		{
			name:  "plain text untouched",
			input: "Here is your Meet link: https://meet.google.com/abc-defg-hij",
			want:  "Here is your Meet link: https://meet.google.com/abc-defg-hij",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatForWhatsApp(tt.input); got != tt.want {
				t.Errorf("FormatForWhatsApp(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
