package components

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			Width(48)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	dialogFieldStyle = lipgloss.NewStyle().
				Foreground(ColorTeal)
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := dialogTitleStyle.Render(SanitizeOneLine(title))
	body := dialogBodyStyle.Render(SanitizeText(message))
	hint := dialogBodyStyle.Render("\ny: confirm | n: cancel")
	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// InputDialog renders a text input prompt.
func InputDialog(title, input string) string {
	header := dialogTitleStyle.Render(SanitizeOneLine(title))
	field := dialogFieldStyle.Render("> " + input + "█")
	hint := dialogBodyStyle.Render("\nenter: submit | esc: cancel")
	return dialogStyle.Render(header + "\n\n" + field + hint)
}
