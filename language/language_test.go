package language_test

import (
	"testing"

	"feedtoot/language"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	detector := language.NewDetector([]string{"en", "nb"})

	tests := []struct {
		name     string
		text     string
		expected string
		ok       bool
	}{
		{
			name: "empty string",
			text: "",
		},
		{
			name: "too short",
			text: "hei du",
		},
		{
			name:     "english",
			text:     "The quick brown fox jumps over the lazy dog while the weather is nice",
			expected: "en",
			ok:       true,
		},
		{
			name:     "norwegian",
			text:     "Dette er en helt vanlig norsk tekst om været og skiturer på fjellet",
			expected: "nb",
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := detector.Detect(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestNewDetectorIgnoresUnknownCodes(t *testing.T) {
	// Falls back to every language when fewer than two codes are usable
	detector := language.NewDetector([]string{"xx", "en"})

	code, ok := detector.Detect("The quick brown fox jumps over the lazy dog while the weather is nice")
	assert.True(t, ok)
	assert.Equal(t, "en", code)
}
