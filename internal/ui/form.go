package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/ui/components"
	"github.com/linkly-app/linkly-cli/internal/workspace"
)

const (
	formFieldURL = iota
	formFieldTitle
	formFieldDescription
	formFieldTags
	formFieldCategory
	formFieldCount
)

var formLabels = []string{"URL", "Title", "Description", "Tags", "Category"}

// bookmarkForm edits one draft. The autofill owns the draft; the text inputs
// mirror it and push every keystroke back.
type bookmarkForm struct {
	af         *workspace.Autofill
	inputs     []textinput.Model
	focus      int
	categories []api.Category
	saving     bool
	errText    string
}

func newBookmarkForm(af *workspace.Autofill, categories []api.Category) *bookmarkForm {
	limits := []int{workspace.MaxURLLength, workspace.MaxTitleLength, 1000, 300}
	placeholders := []string{"https://", "page title", "optional", "comma, separated"}
	f := &bookmarkForm{
		af:         af,
		inputs:     make([]textinput.Model, formFieldCategory),
		categories: categories,
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = limits[i]
		in.Placeholder = placeholders[i]
		f.inputs[i] = in
	}
	f.sync()
	f.inputs[formFieldURL].Focus()
	return f
}

// sync pulls autofill results into the inputs.
func (f *bookmarkForm) sync() {
	d := f.af.Draft()
	values := []string{d.URL, d.Title, d.Description, d.Tags}
	for i, v := range values {
		if f.inputs[i].Value() != v {
			f.inputs[i].SetValue(v)
		}
	}
}

func (f *bookmarkForm) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case isKey(msg, "tab", "down"):
		f.setFocus((f.focus + 1) % formFieldCount)
		return nil
	case isKey(msg, "shift+tab", "up"):
		f.setFocus((f.focus - 1 + formFieldCount) % formFieldCount)
		return nil
	}

	if f.focus == formFieldCategory {
		switch {
		case isKey(msg, "right", "l"), isSpace(msg):
			f.cycleCategory(1)
		case isKey(msg, "left", "h"):
			f.cycleCategory(-1)
		}
		return nil
	}

	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if after := f.inputs[f.focus].Value(); after != before {
		f.push(f.focus, after)
	}
	return cmd
}

func (f *bookmarkForm) push(field int, value string) {
	switch field {
	case formFieldURL:
		f.af.SetURL(value)
	case formFieldTitle:
		f.af.SetTitle(value)
	case formFieldDescription:
		f.af.SetDescription(value)
	case formFieldTags:
		f.af.SetTags(value)
	}
}

func (f *bookmarkForm) setFocus(field int) {
	if f.focus < formFieldCategory {
		f.inputs[f.focus].Blur()
	}
	f.focus = field
	if f.focus < formFieldCategory {
		f.inputs[f.focus].Focus()
	}
}

// categoryIndex is the position of the draft's category, -1 for none.
func (f *bookmarkForm) categoryIndex() int {
	id := f.af.Draft().CategoryID
	if id == nil {
		return -1
	}
	for i, c := range f.categories {
		if c.ID == *id {
			return i
		}
	}
	return -1
}

// cycleCategory steps through none plus every category. A manual choice
// stops any later suggestion.
func (f *bookmarkForm) cycleCategory(step int) {
	n := len(f.categories) + 1
	next := (f.categoryIndex() + 1 + step + n) % n
	if next == 0 {
		f.af.SelectCategory(nil)
		return
	}
	id := f.categories[next-1].ID
	f.af.SelectCategory(&id)
}

func (f *bookmarkForm) close() {
	f.af.Close()
}

func (f *bookmarkForm) View(width int) string {
	title := "New bookmark"
	if f.af.Mode() == workspace.FormEdit {
		title = "Edit bookmark"
	}

	lines := make([]string, 0, formFieldCount+6)
	for i := 0; i < formFieldCategory; i++ {
		lines = append(lines, f.renderLabel(i)+f.inputs[i].View())
	}
	lines = append(lines, f.renderLabel(formFieldCategory)+f.renderCategory())

	if label := f.af.SuggestionLabel(); label != "" {
		lines = append(lines, "", AccentStyle.Render(fmt.Sprintf("Suggested category: %s", components.SanitizeOneLine(label))))
	}
	if f.af.Busy() {
		lines = append(lines, "", MutedStyle.Render("Fetching page details..."))
	}
	if f.saving {
		lines = append(lines, "", MutedStyle.Render("Saving..."))
	}
	if f.errText != "" {
		lines = append(lines, "", ErrorStyle.Render(components.SanitizeOneLine(f.errText)))
	}
	return components.Indent(components.ActiveTitledBox(title, strings.Join(lines, "\n"), width), 1)
}

func (f *bookmarkForm) renderLabel(field int) string {
	label := fmt.Sprintf("%-12s", formLabels[field])
	if field == f.focus {
		return SelectedStyle.Render("› " + label)
	}
	return LabelStyle.Render("  " + label)
}

func (f *bookmarkForm) renderCategory() string {
	name := "none"
	if idx := f.categoryIndex(); idx >= 0 {
		name = f.categories[idx].Name
	}
	if len(f.categories) == 0 {
		return MutedStyle.Render("none (no categories yet)")
	}
	if f.focus == formFieldCategory {
		return SelectedStyle.Render("‹ " + name + " ›")
	}
	return NormalStyle.Render(name)
}
