package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmDialogShowsMessageAndKeys(t *testing.T) {
	out := ConfirmDialog("Delete bookmark", "Delete \"Example\"?")
	assert.Contains(t, out, "Delete bookmark")
	assert.Contains(t, out, "Example")
	assert.Contains(t, out, "y: confirm")
}

func TestConfirmDialogStripsEscapes(t *testing.T) {
	out := ConfirmDialog("Delete", "title\x1b]0;pwned\x07")
	assert.NotContains(t, out, "\x1b]0;")
}

func TestInputDialogShowsCursor(t *testing.T) {
	out := InputDialog("New category", "Reading")
	assert.Contains(t, out, "> Reading█")
	assert.Contains(t, out, "esc: cancel")
}
