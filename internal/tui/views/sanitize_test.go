package views

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "hello", "hello"},
		{"skin tone", "👍🏻", "👍"},
		{"zwj family", "👨‍👩", "👨👩"},
		{"variation selector", "❤️", "❤"},
		{"control", "a\x07b", "ab"},
		{"tab", "a\tb", "a b"},
		{"keeps newline", "a\nb", "a\nb"},
		{"escapes tags", "[red]x", "[red[]x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(tt.in); got != tt.want {
				t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeLine(t *testing.T) {
	if got := sanitizeLine("a\nb"); got != "a b" {
		t.Errorf("sanitizeLine = %q", got)
	}
}
