package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/ui/components"
	"github.com/linkly-app/linkly-cli/internal/workspace"
)

// --- Messages ---

type workspaceChangedMsg struct{}
type categoriesLoadedMsg struct{ items []api.Category }
type bookmarkSavedMsg struct {
	bookmark *api.Bookmark
	edited   bool
}
type formErrMsg struct{ err error }
type bookmarkDeletedMsg struct{ title string }
type linkCheckedMsg struct{ result api.HealthResult }
type urlCopiedMsg struct{ url string }

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// --- Bookmarks Model ---

// BookmarksModel renders the workspace list. All list state lives in the
// workspace; the model redraws from snapshots whenever it reports a change.
type BookmarksModel struct {
	ws      *workspace.Workspace
	changes chan struct{}
	list    *components.List

	snap     workspace.ListSnapshot
	health   map[int64]api.HealthResult
	checking map[int64]struct{}

	categories []api.Category
	filterIdx  int

	search    textinput.Model
	searching bool

	confirmDelete *api.Bookmark
	form          *bookmarkForm

	width  int
	height int
}

// NewBookmarksModel subscribes to ws. Change notifications are coalesced into
// a single pending message.
func NewBookmarksModel(ws *workspace.Workspace) BookmarksModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title, description or tags"
	search.CharLimit = 200

	changes := make(chan struct{}, 1)
	ws.OnChange(notifier(changes))

	return BookmarksModel{
		ws:      ws,
		changes: changes,
		list:    components.NewList(12),
		search:  search,
	}
}

// Init loads the list and starts listening for workspace changes. It must
// run once; later visits use Reload.
func (m BookmarksModel) Init() tea.Cmd {
	m.ws.Refresh()
	return waitForChange(m.changes)
}

// Reload refreshes the list and link health.
func (m BookmarksModel) Reload() tea.Cmd {
	m.ws.Refresh()
	return nil
}

func (m BookmarksModel) Update(msg tea.Msg) (BookmarksModel, tea.Cmd) {
	switch msg := msg.(type) {
	case workspaceChangedMsg:
		m.sync()
		return m, waitForChange(m.changes)
	case categoriesLoadedMsg:
		m.categories = msg.items
		if m.filterIdx > len(m.categories) {
			m.filterIdx = 0
			m.ws.List.SetCategoryFilter(nil)
		}
		return m, nil
	case bookmarkSavedMsg:
		if m.form != nil {
			m.form.close()
			m.form = nil
		}
		return m, nil
	case formErrMsg:
		if m.form != nil {
			m.form.saving = false
			if isValidation(msg.err) {
				m.form.errText = msg.err.Error()
			} else {
				m.form.errText = api.Message(msg.err)
			}
		}
		return m, nil
	case bookmarkDeletedMsg:
		m.confirmDelete = nil
		return m, nil
	case errMsg:
		m.confirmDelete = nil
		return m, nil
	case tea.KeyMsg:
		if m.form != nil {
			return m.handleFormKeys(msg)
		}
		if m.confirmDelete != nil {
			return m.handleConfirmKeys(msg)
		}
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// sync copies the latest workspace state into the model.
func (m *BookmarksModel) sync() {
	m.snap = m.ws.List.Snapshot()
	m.health = m.ws.Health.Results()
	m.checking = m.ws.Health.InFlightIDs()
	titles := make([]string, len(m.snap.Items))
	for i, b := range m.snap.Items {
		titles[i] = b.Title
	}
	m.list.ReplaceItems(titles)
	if m.form != nil {
		m.form.sync()
	}
}

func (m BookmarksModel) capturing() bool {
	return m.searching || m.form != nil || m.confirmDelete != nil
}

func (m BookmarksModel) selected() *api.Bookmark {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.snap.Items) {
		return nil
	}
	b := m.snap.Items[idx]
	return &b
}

func (m BookmarksModel) handleListKeys(msg tea.KeyMsg) (BookmarksModel, tea.Cmd) {
	switch {
	case isDown(msg), isKey(msg, "j"):
		m.list.Down()
	case isUp(msg), isKey(msg, "k"):
		m.list.Up()
	case isKey(msg, "/"):
		m.searching = true
		return m, m.search.Focus()
	case isKey(msg, "f"):
		m.filterIdx = (m.filterIdx + 1) % (len(m.categories) + 1)
		m.ws.List.SetCategoryFilter(m.filterID())
	case isKey(msg, "r"):
		m.ws.Refresh()
	case isKey(msg, "n"):
		m.openForm(m.ws.NewBookmark())
	case isKey(msg, "e"), isEnter(msg):
		if b := m.selected(); b != nil {
			m.openForm(m.ws.EditBookmark(*b))
		}
	case isKey(msg, "d"):
		m.confirmDelete = m.selected()
	case isKey(msg, "c"):
		b := m.selected()
		if b == nil || m.ws.Health.InFlight(b.ID) {
			return m, nil
		}
		return m, checkLinkCmd(m.ws, b.ID)
	case isKey(msg, "y"):
		if b := m.selected(); b != nil {
			return m, copyURLCmd(b.URL)
		}
	}
	return m, nil
}

func (m BookmarksModel) handleSearchKeys(msg tea.KeyMsg) (BookmarksModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.ws.List.SetKeyword("")
		return m, nil
	case isEnter(msg), isDown(msg):
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ws.List.SetKeyword(m.search.Value())
	return m, cmd
}

func (m BookmarksModel) handleConfirmKeys(msg tea.KeyMsg) (BookmarksModel, tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		b := *m.confirmDelete
		return m, deleteBookmarkCmd(m.ws, b)
	case isKey(msg, "n"), isBack(msg):
		m.confirmDelete = nil
	}
	return m, nil
}

func (m *BookmarksModel) openForm(af *workspace.Autofill) {
	af.OnChange(notifier(m.changes))
	m.form = newBookmarkForm(af, m.ws.Categories())
}

func (m BookmarksModel) handleFormKeys(msg tea.KeyMsg) (BookmarksModel, tea.Cmd) {
	if isBack(msg) {
		m.form.close()
		m.form = nil
		return m, nil
	}
	if isKey(msg, "ctrl+s") {
		if m.form.saving {
			return m, nil
		}
		m.form.saving = true
		m.form.errText = ""
		return m, saveBookmarkCmd(m.ws, m.form.af)
	}
	return m, m.form.handleKey(msg)
}

// filterID is the category the list is narrowed to, or nil for all.
func (m BookmarksModel) filterID() *int64 {
	if m.filterIdx <= 0 || m.filterIdx > len(m.categories) {
		return nil
	}
	id := m.categories[m.filterIdx-1].ID
	return &id
}

func (m BookmarksModel) filterLabel() string {
	if m.filterIdx <= 0 || m.filterIdx > len(m.categories) {
		return "All"
	}
	return m.categories[m.filterIdx-1].Name
}

// --- Commands ---

func notifier(ch chan struct{}) func() {
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return workspaceChangedMsg{}
	}
}

func loadCategoriesCmd(ws *workspace.Workspace) tea.Cmd {
	return func() tea.Msg {
		items, err := ws.LoadCategories(context.Background())
		if err != nil {
			return errMsg{err: fmt.Errorf("load categories: %w", err)}
		}
		return categoriesLoadedMsg{items: items}
	}
}

func saveBookmarkCmd(ws *workspace.Workspace, af *workspace.Autofill) tea.Cmd {
	return func() tea.Msg {
		saved, err := ws.Save(context.Background(), af)
		if err != nil {
			return formErrMsg{err: err}
		}
		return bookmarkSavedMsg{bookmark: saved, edited: af.Mode() == workspace.FormEdit}
	}
}

// deleteBookmarkCmd runs after the dialog was answered with yes, so the
// gate always confirms.
func deleteBookmarkCmd(ws *workspace.Workspace, b api.Bookmark) tea.Cmd {
	return func() tea.Msg {
		deleted, err := ws.List.DeleteBookmark(context.Background(), b.ID, func() bool { return true })
		if err != nil {
			return errMsg{err: fmt.Errorf("delete bookmark: %w", err)}
		}
		if !deleted {
			return nil
		}
		return bookmarkDeletedMsg{title: b.Title}
	}
}

func checkLinkCmd(ws *workspace.Workspace, id int64) tea.Cmd {
	return func() tea.Msg {
		result, err := ws.Health.CheckNow(context.Background(), id)
		if err != nil {
			return errMsg{err: fmt.Errorf("check link: %w", err)}
		}
		return linkCheckedMsg{result: result}
	}
}

func copyURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(url); err != nil {
			return errMsg{err: fmt.Errorf("copy url: %w", err)}
		}
		return urlCopiedMsg{url: url}
	}
}

// --- View ---

func (m BookmarksModel) View() string {
	if m.form != nil {
		return m.form.View(m.width)
	}
	if m.confirmDelete != nil {
		title := components.SanitizeOneLine(m.confirmDelete.Title)
		return components.Indent(components.ConfirmDialog("Delete bookmark", fmt.Sprintf("Delete %q?\n%s", title, m.confirmDelete.URL)), 1)
	}

	var b strings.Builder
	b.WriteString(m.renderToolbar())
	b.WriteString("\n\n")
	b.WriteString(m.renderBody())

	title := fmt.Sprintf("Bookmarks · %d", len(m.snap.Items))
	if m.snap.Mode == workspace.ModeSearch && strings.TrimSpace(m.snap.Keyword) != "" {
		title = fmt.Sprintf("Results · %d", len(m.snap.Items))
	}
	return components.Indent(components.TitledBox(title, b.String(), m.width), 1)
}

func (m BookmarksModel) renderToolbar() string {
	searchLine := m.search.View()
	if !m.searching && m.search.Value() == "" {
		searchLine = MutedStyle.Render("/ to search")
	}
	filter := LabelStyle.Render("Category: ") + NormalStyle.Render(m.filterLabel())
	return lipgloss.JoinHorizontal(lipgloss.Top, searchLine, "    ", filter)
}

func (m BookmarksModel) renderBody() string {
	contentWidth := components.BoxContentWidth(m.width)
	if contentWidth <= 0 {
		contentWidth = 90
	}

	switch {
	case m.snap.State == workspace.StateError:
		msg := ErrorStyle.Render("Could not load bookmarks: " + components.SanitizeOneLine(m.snap.Err))
		if len(m.snap.Items) == 0 {
			return msg
		}
		return msg + "\n\n" + m.renderTable(contentWidth)
	case m.snap.State == workspace.StateLoading && len(m.snap.Items) == 0:
		return MutedStyle.Render("Loading...")
	case m.snap.State == workspace.StateIdle:
		return MutedStyle.Render("Loading...")
	case len(m.snap.Items) == 0:
		if strings.TrimSpace(m.snap.Keyword) != "" {
			return MutedStyle.Render("No bookmarks match.")
		}
		return MutedStyle.Render("No bookmarks yet. Press n to add one.")
	}
	table := m.renderTable(contentWidth)
	if m.snap.State == workspace.StateLoading {
		table = MutedStyle.Render("Updating...") + "\n" + table
	}
	return table
}

func (m BookmarksModel) renderTable(width int) string {
	cols := []components.TableColumn{
		{Header: "", Width: 2},
		{Header: "Title", Width: 26},
		{Header: "Category", Width: 14},
		{Header: "Health", Width: 24},
		{Header: "URL", Width: 22},
	}
	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	active := -1
	for rel := range visible {
		abs := m.list.RelToAbs(rel)
		if abs >= len(m.snap.Items) {
			break
		}
		b := m.snap.Items[abs]
		mark, label := m.healthCell(b.ID)
		category := b.CategoryName
		if category == "" {
			category = m.ws.CategoryName(b.CategoryID)
		}
		rows = append(rows, []string{mark, b.Title, category, label, b.URL})
		if m.list.IsSelected(abs) {
			active = len(rows) - 1
		}
	}
	return components.TableGridWithActiveRow(cols, rows, width, active)
}

// healthCell returns the status marker and label for a bookmark. A check in
// flight keeps the last result on screen next to the busy marker.
func (m BookmarksModel) healthCell(id int64) (string, string) {
	_, checking := m.checking[id]
	r, ok := m.health[id]
	if !ok {
		if checking {
			return "…", "checking"
		}
		return "", workspace.StatusLabel("")
	}
	label := workspace.StatusLabel(r.Status)
	if r.HTTPStatus != nil {
		label = fmt.Sprintf("%s %d", label, *r.HTTPStatus)
	}
	if checking {
		return "…", label + " (checking)"
	}
	switch r.Status {
	case api.StatusHealthy:
		return components.MarkHealthy, label
	case api.StatusDead, api.StatusTimeout:
		return components.MarkBroken, label
	}
	return "?", label
}

func (m BookmarksModel) hints() []string {
	switch {
	case m.form != nil:
		return []string{
			components.Hint("tab", "Next"),
			components.Hint("←/→", "Category"),
			components.Hint("ctrl+s", "Save"),
			components.Hint("esc", "Cancel"),
		}
	case m.confirmDelete != nil:
		return []string{
			components.Hint("y", "Delete"),
			components.Hint("n", "Cancel"),
		}
	case m.searching:
		return []string{
			components.Hint("enter", "Done"),
			components.Hint("esc", "Clear"),
		}
	}
	hints := []string{
		components.Hint("↑/↓", "Scroll"),
		components.Hint("/", "Search"),
		components.Hint("f", "Category"),
		components.Hint("n", "New"),
	}
	if b := m.selected(); b != nil {
		hints = append(hints,
			components.Hint("e", "Edit"),
			components.Hint("d", "Delete"),
			components.Hint("y", "Copy URL"),
		)
		if !m.ws.Health.InFlight(b.ID) {
			hints = append(hints, components.Hint("c", "Check"))
		}
	}
	return append(hints, components.Hint("r", "Refresh"))
}
