package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineStripsOscAndNewlines(t *testing.T) {
	input := "\x1b]8;;https://evil\x07click\x1b]8;;\x07\nline\tmore"
	out := SanitizeOneLine(input)

	assert.False(t, strings.Contains(out, "\x1b"))
	assert.False(t, strings.Contains(out, "\n"))
	assert.False(t, strings.Contains(out, "\t"))
}

func TestSanitizeTextRemovesBidiControls(t *testing.T) {
	input := "safe\u202eexe.txt"
	out := SanitizeText(input)

	assert.NotContains(t, out, "\u202e")
}

func TestSanitizeOneLineCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "Example A page", SanitizeOneLine("  Example\n\tA   page "))
}

func TestSanitizeTextStripsCSI(t *testing.T) {
	assert.Equal(t, "redtext", SanitizeText("\x1b[31mred\x1b[0mtext"))
}
