package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/ui/components"
	"github.com/linkly-app/linkly-cli/internal/workspace"
)

// --- Messages ---

type categoryCreatedMsg struct{ name string }
type categoryUpdatedMsg struct{ name string }
type categoryDeletedMsg struct{ name string }

// categoryStore is the write side of the categories tab.
type categoryStore interface {
	CreateCategory(ctx context.Context, input api.CategoryInput) (*api.Category, error)
	UpdateCategory(ctx context.Context, id int64, input api.CategoryInput) (*api.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// --- Categories Model ---

type CategoriesModel struct {
	store    categoryStore
	ws       *workspace.Workspace
	items    []api.Category
	filtered []api.Category
	list     *components.List
	loading  bool

	filtering bool
	filterBuf string

	adding bool
	addBuf string

	// editID is the category behind edit.
	editID int64
	edit   *fieldForm

	confirmDelete *api.Category

	width  int
	height int
}

// NewCategoriesModel builds the categories tab. Loaded categories are shared
// with the bookmark form through ws.
func NewCategoriesModel(store categoryStore, ws *workspace.Workspace) CategoriesModel {
	return CategoriesModel{
		store: store,
		ws:    ws,
		list:  components.NewList(12),
	}
}

func (m CategoriesModel) Init() tea.Cmd {
	return loadCategoriesCmd(m.ws)
}

func (m CategoriesModel) Update(msg tea.Msg) (CategoriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		m.items = msg.items
		m.applyFilter()
		return m, nil
	case categoryCreatedMsg:
		m.adding = false
		m.addBuf = ""
		m.loading = true
		return m, loadCategoriesCmd(m.ws)
	case categoryUpdatedMsg:
		m.edit = nil
		m.loading = true
		// Bookmarks show the category name.
		m.ws.Refresh()
		return m, loadCategoriesCmd(m.ws)
	case categoryDeletedMsg:
		m.confirmDelete = nil
		m.loading = true
		// Bookmarks that pointed at the category changed server-side.
		m.ws.Refresh()
		return m, loadCategoriesCmd(m.ws)
	case errMsg:
		m.loading = false
		m.confirmDelete = nil
		if m.edit != nil {
			m.edit.errText = api.Message(msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.confirmDelete != nil:
			return m.handleConfirmKeys(msg)
		case m.edit != nil:
			return m.handleEditKeys(msg)
		case m.adding:
			return m.handleAddKeys(msg)
		case m.filtering:
			return m.handleFilterKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m CategoriesModel) capturing() bool {
	return m.adding || m.filtering || m.confirmDelete != nil || m.edit != nil
}

func (m CategoriesModel) selected() *api.Category {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.filtered) {
		return nil
	}
	c := m.filtered[idx]
	return &c
}

func (m CategoriesModel) handleListKeys(msg tea.KeyMsg) (CategoriesModel, tea.Cmd) {
	switch {
	case isDown(msg), isKey(msg, "j"):
		m.list.Down()
	case isUp(msg), isKey(msg, "k"):
		m.list.Up()
	case isKey(msg, "/"):
		m.filtering = true
	case isKey(msg, "n"):
		m.adding = true
		m.addBuf = ""
	case isKey(msg, "e"):
		if c := m.selected(); c != nil {
			m.editID = c.ID
			m.edit = newFieldForm("Edit category",
				formField{label: "Name", value: c.Name, limit: 100},
				formField{label: "Description", value: c.Description, placeholder: "optional", limit: 500},
			)
		}
	case isKey(msg, "d"):
		m.confirmDelete = m.selected()
	case isKey(msg, "r"):
		m.loading = true
		return m, loadCategoriesCmd(m.ws)
	}
	return m, nil
}

func (m CategoriesModel) handleFilterKeys(msg tea.KeyMsg) (CategoriesModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.filtering = false
		m.filterBuf = ""
		m.applyFilter()
	case isEnter(msg):
		m.filtering = false
	case isKey(msg, "backspace"):
		if m.filterBuf != "" {
			m.filterBuf = trimLastRune(m.filterBuf)
			m.applyFilter()
		}
	case isSpace(msg):
		m.filterBuf += " "
		m.applyFilter()
	case msg.Type == tea.KeyRunes:
		m.filterBuf += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m CategoriesModel) handleAddKeys(msg tea.KeyMsg) (CategoriesModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.adding = false
		m.addBuf = ""
	case isEnter(msg):
		name := strings.TrimSpace(m.addBuf)
		if name == "" {
			return m, nil
		}
		return m, createCategoryCmd(m.store, name)
	case isKey(msg, "backspace"):
		m.addBuf = trimLastRune(m.addBuf)
	case isSpace(msg):
		m.addBuf += " "
	case msg.Type == tea.KeyRunes:
		m.addBuf += string(msg.Runes)
	}
	return m, nil
}

func (m CategoriesModel) handleEditKeys(msg tea.KeyMsg) (CategoriesModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.edit = nil
		return m, nil
	case isEnter(msg):
		input := api.CategoryInput{Name: m.edit.value(0), Description: m.edit.value(1)}
		if input.Name == "" {
			m.edit.errText = "Name is required."
			return m, nil
		}
		m.edit.errText = ""
		return m, updateCategoryCmd(m.store, m.editID, input)
	}
	return m, m.edit.handleKey(msg)
}

func (m CategoriesModel) handleConfirmKeys(msg tea.KeyMsg) (CategoriesModel, tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		return m, deleteCategoryCmd(m.store, *m.confirmDelete)
	case isKey(msg, "n"), isBack(msg):
		m.confirmDelete = nil
	}
	return m, nil
}

// applyFilter narrows items by fuzzy match on name, best match first.
func (m *CategoriesModel) applyFilter() {
	query := strings.TrimSpace(m.filterBuf)
	if query == "" {
		m.filtered = m.items
	} else {
		matches := fuzzy.FindFrom(query, categoryNames(m.items))
		m.filtered = make([]api.Category, 0, len(matches))
		for _, match := range matches {
			m.filtered = append(m.filtered, m.items[match.Index])
		}
	}
	names := make([]string, len(m.filtered))
	for i, c := range m.filtered {
		names[i] = c.Name
	}
	m.list.SetItems(names)
}

// categoryNames adapts a category slice to fuzzy.Source.
type categoryNames []api.Category

func (c categoryNames) String(i int) string { return c[i].Name }
func (c categoryNames) Len() int            { return len(c) }

func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

// --- Commands ---

func createCategoryCmd(store categoryStore, name string) tea.Cmd {
	return func() tea.Msg {
		if _, err := store.CreateCategory(context.Background(), api.CategoryInput{Name: name}); err != nil {
			return errMsg{err: fmt.Errorf("create category: %w", err)}
		}
		return categoryCreatedMsg{name: name}
	}
}

func updateCategoryCmd(store categoryStore, id int64, input api.CategoryInput) tea.Cmd {
	return func() tea.Msg {
		updated, err := store.UpdateCategory(context.Background(), id, input)
		if err != nil {
			return errMsg{err: fmt.Errorf("update category: %w", err)}
		}
		return categoryUpdatedMsg{name: updated.Name}
	}
}

func deleteCategoryCmd(store categoryStore, c api.Category) tea.Cmd {
	return func() tea.Msg {
		if err := store.DeleteCategory(context.Background(), c.ID); err != nil {
			return errMsg{err: fmt.Errorf("delete category: %w", err)}
		}
		return categoryDeletedMsg{name: c.Name}
	}
}

// --- View ---

func (m CategoriesModel) View() string {
	if m.confirmDelete != nil {
		body := fmt.Sprintf("Delete %q?\nIts bookmarks are kept without a category.", components.SanitizeOneLine(m.confirmDelete.Name))
		return components.Indent(components.ConfirmDialog("Delete category", body), 1)
	}
	if m.edit != nil {
		return m.edit.View(m.width)
	}
	if m.adding {
		return components.Indent(components.InputDialog("New category", m.addBuf), 1)
	}

	var b strings.Builder
	if m.filtering || m.filterBuf != "" {
		b.WriteString(LabelStyle.Render("Filter: ") + NormalStyle.Render(m.filterBuf))
		if m.filtering {
			b.WriteString("█")
		}
		b.WriteString("\n\n")
	}

	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString(MutedStyle.Render("Loading..."))
	case len(m.filtered) == 0 && m.filterBuf != "":
		b.WriteString(MutedStyle.Render("No categories match."))
	case len(m.filtered) == 0:
		b.WriteString(MutedStyle.Render("No categories yet. Press n to add one."))
	default:
		visible := m.list.Visible()
		lines := make([]string, 0, len(visible))
		for rel, name := range visible {
			abs := m.list.RelToAbs(rel)
			line := components.ClampTextWidth(name, 40)
			if desc := m.filtered[abs].Description; desc != "" {
				line = lipgloss.JoinHorizontal(lipgloss.Top, fmt.Sprintf("%-42s", line), MutedStyle.Render(components.ClampTextWidth(desc, 40)))
			}
			if m.list.IsSelected(abs) {
				lines = append(lines, SelectedStyle.Render("› "+line))
			} else {
				lines = append(lines, NormalStyle.Render("  "+line))
			}
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	title := fmt.Sprintf("Categories · %d", len(m.items))
	return components.Indent(components.TitledBox(title, b.String(), m.width), 1)
}

func (m CategoriesModel) hints() []string {
	switch {
	case m.confirmDelete != nil:
		return []string{components.Hint("y", "Delete"), components.Hint("n", "Cancel")}
	case m.edit != nil:
		return fieldFormHints("Save")
	case m.adding:
		return []string{components.Hint("enter", "Create"), components.Hint("esc", "Cancel")}
	case m.filtering:
		return []string{components.Hint("enter", "Apply"), components.Hint("esc", "Clear")}
	}
	return []string{
		components.Hint("↑/↓", "Scroll"),
		components.Hint("/", "Filter"),
		components.Hint("n", "New"),
		components.Hint("e", "Edit"),
		components.Hint("d", "Delete"),
		components.Hint("r", "Refresh"),
	}
}
