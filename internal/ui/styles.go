package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/linkly-app/linkly-cli/internal/ui/components"
)

// --- Theme Colors ---

var (
	ColorPrimary    = components.ColorPrimary // blue
	ColorSecondary  = components.ColorTeal    // teal
	ColorAccent     = lipgloss.Color("#d19a66") // amber
	ColorBackground = components.ColorDark
	ColorText       = components.ColorText
	ColorMuted      = components.ColorMuted
	ColorSuccess    = lipgloss.Color("#7fb069") // green
	ColorError      = components.ColorError
	ColorWarning    = lipgloss.Color("#e5c07b") // yellow
	ColorBorder     = components.ColorBorder
)

// --- Reusable Styles ---

var (
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
)
