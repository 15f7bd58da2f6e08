package logger

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string stays intact",
			input:  "привет",
			maxLen: 50,
			want:   "привет",
		},
		{
			name:   "ascii truncated",
			input:  strings.Repeat("a", 60),
			maxLen: 50,
			want:   strings.Repeat("a", 47) + "...",
		},
		{
			name:   "cyrillic truncated on a rune boundary",
			input:  strings.Repeat("ы", 60),
			maxLen: 50,
			want:   strings.Repeat("ы", 47) + "...",
		},
		{
			name:   "tiny limit",
			input:  "привет",
			maxLen: 3,
			want:   "...",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := truncateString(tc.input, tc.maxLen)
			if got != tc.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tc.input, tc.maxLen, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateString(%q, %d) = %q, not valid UTF-8", tc.input, tc.maxLen, got)
			}
		})
	}
}
