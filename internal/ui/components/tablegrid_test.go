package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookmarkColumns() []TableColumn {
	return []TableColumn{
		{Header: "", Width: 2},
		{Header: "Title", Width: 20},
		{Header: "URL", Width: 30},
	}
}

func TestTableGridLinesMatchWidth(t *testing.T) {
	rows := [][]string{
		{MarkHealthy, "Example", "https://example.com"},
		{MarkBroken, "Gone", "https://gone.example"},
	}
	out := TableGridWithActiveRow(bookmarkColumns(), rows, 70, -1)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 70, lipgloss.Width(line))
	}
	assert.Contains(t, lines[0], "Title")
	assert.Contains(t, out, "Example")
}

func TestTableGridClampsLongCells(t *testing.T) {
	rows := [][]string{{"", strings.Repeat("x", 60), "https://example.com"}}
	out := TableGridWithActiveRow(bookmarkColumns(), rows, 70, -1)
	assert.Contains(t, out, "…")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 70, lipgloss.Width(line))
	}
}

func TestTableGridEdgeCases(t *testing.T) {
	assert.Equal(t, "", TableGridWithActiveRow(bookmarkColumns(), nil, 0, -1))
	assert.Equal(t, 10, lipgloss.Width(TableGridWithActiveRow(nil, nil, 10, -1)))
}

func TestTableGridWithActiveRowKeepsContent(t *testing.T) {
	rows := [][]string{{"", "First", "a"}, {"", "Second", "b"}}
	out := TableGridWithActiveRow(bookmarkColumns(), rows, 70, 1)
	assert.Contains(t, out, "Second")
}

func TestRenderGridCellAlignment(t *testing.T) {
	assert.Equal(t, "  ab", renderGridCell("ab", 4, lipgloss.Right))
	assert.Equal(t, " ab ", renderGridCell("ab", 4, lipgloss.Center))
	assert.Equal(t, "ab  ", renderGridCell("ab", 4, lipgloss.Left))
}
