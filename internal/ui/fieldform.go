package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linkly-app/linkly-cli/internal/ui/components"
)

// formField describes one line of a fieldForm.
type formField struct {
	label       string
	value       string
	placeholder string
	limit       int
	secret      bool
}

// fieldForm is a plain stack of text inputs for the category and user
// dialogs. Submission is left to the owning tab.
type fieldForm struct {
	title   string
	labels  []string
	inputs  []textinput.Model
	focus   int
	errText string
}

func newFieldForm(title string, fields ...formField) *fieldForm {
	f := &fieldForm{
		title:  title,
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, field := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = field.placeholder
		if field.limit > 0 {
			in.CharLimit = field.limit
		}
		if field.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.SetValue(field.value)
		f.labels[i] = field.label
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *fieldForm) handleKey(msg tea.KeyMsg) tea.Cmd {
	n := len(f.inputs)
	switch {
	case n == 0:
		return nil
	case isNext(msg):
		f.setFocus((f.focus + 1) % n)
		return nil
	case isPrev(msg):
		f.setFocus((f.focus - 1 + n) % n)
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *fieldForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// value returns field i with surrounding spaces removed.
func (f *fieldForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *fieldForm) View(width int) string {
	lines := make([]string, 0, len(f.inputs)+3)
	for i, in := range f.inputs {
		label := fmt.Sprintf("%-14s", f.labels[i])
		if i == f.focus {
			label = SelectedStyle.Render("› " + label)
		} else {
			label = LabelStyle.Render("  " + label)
		}
		lines = append(lines, label+in.View())
	}
	if f.errText != "" {
		lines = append(lines, "", ErrorStyle.Render(components.SanitizeOneLine(f.errText)))
	}
	return components.Indent(components.ActiveTitledBox(f.title, strings.Join(lines, "\n"), width), 1)
}

func fieldFormHints(submit string) []string {
	return []string{
		components.Hint("tab", "Next field"),
		components.Hint("enter", submit),
		components.Hint("esc", "Cancel"),
	}
}
