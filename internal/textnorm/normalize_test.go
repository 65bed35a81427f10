package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "acme corp", "acme corp"},
		{"uppercase", "ACME Corp", "acme corp"},
		{"diacritics stripped", "Société Générale", "societe generale"},
		{"leading and trailing space", "  VP Sales  ", "vp sales"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestCollapse(t *testing.T) {
	assert.Equal(t, "Chief Executive Officer", Collapse("  Chief   Executive\tOfficer "))
	assert.Equal(t, "", Collapse("   \t\n"))
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"comma separated", "VP, Engineering", []string{"vp", "engineering"}},
		{"punctuation heavy", "C.E.O. & Co-Founder", []string{"c", "e", "o", "co", "founder"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.in))
		})
	}

	assert.Empty(t, Tokens("  "))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "15551234567", Digits("+1 (555) 123-4567"))
	assert.Equal(t, "", Digits("no digits here"))
}
