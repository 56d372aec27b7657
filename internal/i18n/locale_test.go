package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name           string
		cookie         string
		acceptLanguage string
		want           string
	}{
		{"cookie wins", "nl", "en-US,en;q=0.9", "nl"},
		{"invalid cookie falls back to header", "fr", "nl-NL,nl;q=0.9,en;q=0.8", "nl"},
		{"dutch header", "", "nl-NL,nl;q=0.9,en;q=0.8", "nl"},
		{"english header", "", "en-GB,en;q=0.9", "en"},
		{"unsupported header falls back to default", "", "ja-JP", "en"},
		{"garbage header", "", ";;;", "en"},
		{"nothing set", "", "", "en"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.cookie, tc.acceptLanguage))
		})
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("nl"))
	assert.False(t, IsSupported("de"))
	assert.False(t, IsSupported(""))
	assert.False(t, IsSupported("EN"))
}
