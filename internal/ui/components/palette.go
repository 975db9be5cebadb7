// Package components renders the reusable pieces of the linkly TUI: boxes,
// dialogs, the hint bar, scrolling lists and the bookmark table.
package components

import "github.com/charmbracelet/lipgloss"

// Shared palette. The ui package styles build on the same values.
var (
	ColorPrimary = lipgloss.Color("#5b8fd6")
	ColorTeal    = lipgloss.Color("#4f9a94")
	ColorText    = lipgloss.Color("#dcdfe4")
	ColorMuted   = lipgloss.Color("#8b93a7")
	ColorBorder  = lipgloss.Color("#2c3440")
	ColorDark    = lipgloss.Color("#15181e")
	ColorRowBg   = lipgloss.Color("#1f2631")
	ColorError   = lipgloss.Color("#e06c75")
	ColorErrorBd = lipgloss.Color("#7a2f3a")
)
