package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/session"
	"github.com/linkly-app/linkly-cli/internal/ui/components"
	"github.com/linkly-app/linkly-cli/internal/workspace"
)

// --- Tab Constants ---

const (
	tabBookmarks = iota
	tabCategories
	tabUsers
)

var tabNames = []string{"Bookmarks", "Categories", "Users"}

// compactBannerHeight is the terminal height below which the big banner is
// swapped for a one-line header.
const compactBannerHeight = 32

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}
type startupCheckedMsg struct {
	status string
	err    string
}

type appToast struct {
	level string
	text  string
}

// --- App Model ---

// App is the root TUI model that routes between tabs.
type App struct {
	client  *api.Client
	session *session.Session
	ws      *workspace.Workspace

	tab          int
	width        int
	height       int
	err          string
	unauthorized bool
	helpOpen     bool

	startupChecking bool
	serverStatus    string
	toast           *appToast

	bookmarks  BookmarksModel
	categories CategoriesModel
	users      UsersModel
}

// NewApp creates the root application model. The caller owns ws and closes
// it once the program exits.
func NewApp(client *api.Client, sess *session.Session, ws *workspace.Workspace) App {
	return App{
		client:          client,
		session:         sess,
		ws:              ws,
		tab:             tabBookmarks,
		startupChecking: client != nil,
		serverStatus:    "checking",
		bookmarks:       NewBookmarksModel(ws),
		categories:      NewCategoriesModel(client, ws),
		users:           NewUsersModel(client, sess.UserID()),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.bookmarks.Init(), a.categories.Init()}
	if a.startupChecking {
		cmds = append(cmds, a.runStartupCheckCmd())
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.bookmarks.width, a.bookmarks.height = msg.Width, msg.Height
		a.categories.width, a.categories.height = msg.Width, msg.Height
		a.users.width, a.users.height = msg.Width, msg.Height
		return a, nil

	case errMsg:
		a.err = api.Message(msg.err)
		a.unauthorized = api.IsUnauthorized(msg.err)
		a.bookmarks, _ = a.bookmarks.Update(msg)
		a.categories, _ = a.categories.Update(msg)
		a.users, _ = a.users.Update(msg)
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case startupCheckedMsg:
		a.startupChecking = false
		if msg.err != "" {
			a.serverStatus = "unreachable"
			return a, a.setToast("error", "Server unreachable: "+msg.err)
		}
		a.serverStatus = strings.ToLower(msg.status)
		return a, a.setToast("info", fmt.Sprintf("Connected to %s (%s)", a.client.BaseURL(), a.serverStatus))

	case categoriesLoadedMsg:
		// Both the filter on the bookmarks tab and the categories tab use them.
		var c1, c2 tea.Cmd
		a.bookmarks, c1 = a.bookmarks.Update(msg)
		a.categories, c2 = a.categories.Update(msg)
		return a, tea.Batch(c1, c2)

	case workspaceChangedMsg, bookmarkSavedMsg, formErrMsg, bookmarkDeletedMsg, linkCheckedMsg, urlCopiedMsg:
		a.bookmarks, cmd = a.bookmarks.Update(msg)
		return a, a.withToast(msg, cmd)
	case categoryCreatedMsg, categoryUpdatedMsg, categoryDeletedMsg:
		a.categories, cmd = a.categories.Update(msg)
		return a, a.withToast(msg, cmd)
	case usersLoadedMsg, userCreatedMsg, userUpdatedMsg, userDeletedMsg, userRoleChangedMsg:
		a.users, cmd = a.users.Update(msg)
		return a, a.withToast(msg, cmd)

	case tea.KeyMsg:
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if a.err != "" {
			a.err = ""
			a.unauthorized = false
		}

		if !a.capturing() {
			if isKey(msg, "?") {
				a.helpOpen = true
				return a, nil
			}
			if isQuit(msg) {
				return a, tea.Quit
			}
			if idx, ok := tabIndexForKey(msg.String(), a.tabCount()); ok {
				return a.switchTab(idx)
			}
		} else if isKey(msg, "ctrl+c") {
			return a, tea.Quit
		}
	}

	// Delegate to active tab
	switch a.tab {
	case tabBookmarks:
		a.bookmarks, cmd = a.bookmarks.Update(msg)
	case tabCategories:
		a.categories, cmd = a.categories.Update(msg)
	case tabUsers:
		a.users, cmd = a.users.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	header := RenderBanner()
	if a.height > 0 && a.height < compactBannerHeight {
		header = RenderCompactBanner()
	}
	banner := centerBlockUniform(header, a.width)
	tabs := centerBlockUniform(a.renderTabs(), a.width)

	var content string
	switch a.tab {
	case tabBookmarks:
		content = a.bookmarks.View()
	case tabCategories:
		content = a.categories.View()
	case tabUsers:
		content = a.users.View()
	}
	if a.helpOpen {
		content = a.renderHelp()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		message := a.err
		if a.unauthorized {
			message += "\n\nYour session is no longer valid. Quit and run 'linkly login'."
		}
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", message, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s%s", banner, tabs, content, hints, feedback)
}

// tabCount hides the Users tab from non-admins.
func (a App) tabCount() int {
	if a.session.IsAdmin() {
		return len(tabNames)
	}
	return len(tabNames) - 1
}

// capturing reports whether the active tab is reading text or waiting on a
// dialog, in which case global single-letter keys belong to it.
func (a App) capturing() bool {
	switch a.tab {
	case tabBookmarks:
		return a.bookmarks.capturing()
	case tabCategories:
		return a.categories.capturing()
	case tabUsers:
		return a.users.capturing()
	}
	return false
}

func (a App) switchTab(newTab int) (App, tea.Cmd) {
	oldTab := a.tab
	a.tab = newTab
	if oldTab == newTab {
		return a, nil
	}
	switch newTab {
	case tabBookmarks:
		return a, a.bookmarks.Reload()
	case tabCategories:
		return a, a.categories.Init()
	case tabUsers:
		var cmd tea.Cmd
		a.users, cmd = a.users.Load()
		return a, cmd
	}
	return a, nil
}

func (a App) renderTabs() string {
	count := a.tabCount()
	segments := make([]string, 0, count)
	for i := 0; i < count; i++ {
		label := fmt.Sprintf("%d %s", i+1, tabNames[i])
		if i == a.tab {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) statusHints() []string {
	if a.helpOpen {
		return []string{components.Hint("esc", "Back")}
	}
	var hints []string
	switch a.tab {
	case tabBookmarks:
		hints = a.bookmarks.hints()
	case tabCategories:
		hints = a.categories.hints()
	case tabUsers:
		hints = a.users.hints()
	}
	if a.capturing() {
		return hints
	}
	return append(hints,
		components.Hint(fmt.Sprintf("1-%d", a.tabCount()), "Tabs"),
		components.Hint("?", "Help"),
		components.Hint("q", "Quit"),
	)
}

func (a App) renderHelp() string {
	var hints []string
	switch a.tab {
	case tabBookmarks:
		hints = a.bookmarks.hints()
	case tabCategories:
		hints = a.categories.hints()
	case tabUsers:
		hints = a.users.hints()
	}
	lines := make([]string, 0, len(hints)+6)
	lines = append(lines, MutedStyle.Render("esc to close"), "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	lines = append(lines, "",
		components.InfoRow("Server", a.serverStatus),
		components.InfoRow("Signed in as", a.identity()),
	)
	return components.Indent(components.TitledBox("Help", strings.Join(lines, "\n"), a.width), 1)
}

func (a App) identity() string {
	u := a.session.User()
	if u.Email == "" {
		return "unknown"
	}
	if u.Role != "" {
		return fmt.Sprintf("%s (%s)", u.Email, strings.ToLower(u.Role))
	}
	return u.Email
}

func (a App) runStartupCheckCmd() tea.Cmd {
	checkClient := a.client.WithTimeout(700 * time.Millisecond)
	return func() tea.Msg {
		status, err := checkClient.Health(context.Background())
		if err != nil {
			return startupCheckedMsg{err: api.Message(err)}
		}
		return startupCheckedMsg{status: status}
	}
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	return components.Toast(a.toast.text, a.toast.level == "error")
}

// withToast batches cmd with the toast a completed action deserves.
func (a *App) withToast(msg tea.Msg, cmd tea.Cmd) tea.Cmd {
	toastCmd := a.toastCmdForMsg(msg)
	if toastCmd == nil {
		return cmd
	}
	if cmd == nil {
		return toastCmd
	}
	return tea.Batch(cmd, toastCmd)
}

func (a *App) toastCmdForMsg(msg tea.Msg) tea.Cmd {
	var text string
	switch msg := msg.(type) {
	case bookmarkSavedMsg:
		text = "Bookmark saved."
		if msg.edited {
			text = "Bookmark updated."
		}
	case bookmarkDeletedMsg:
		text = fmt.Sprintf("Deleted %q.", msg.title)
	case urlCopiedMsg:
		text = "Copied " + msg.url
	case linkCheckedMsg:
		text = fmt.Sprintf("Link %s.", workspace.StatusLabel(msg.result.Status))
	case categoryCreatedMsg:
		text = fmt.Sprintf("Category %q created.", msg.name)
	case categoryUpdatedMsg:
		text = fmt.Sprintf("Category %q updated.", msg.name)
	case categoryDeletedMsg:
		text = fmt.Sprintf("Category %q deleted.", msg.name)
	case userCreatedMsg:
		text = fmt.Sprintf("Created %s.", msg.user.Email)
	case userUpdatedMsg:
		text = fmt.Sprintf("Updated %s.", msg.user.Email)
	case userDeletedMsg:
		text = fmt.Sprintf("Deleted %s.", msg.email)
	case userRoleChangedMsg:
		text = fmt.Sprintf("%s is now %s.", msg.user.Email, strings.ToLower(msg.user.Role))
	}
	if text == "" {
		return nil
	}
	return a.setToast("success", text)
}

// errCmd wraps err for the app-level error box.
func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err: err} }
}

// isValidation reports whether err is a local draft problem rather than a
// server failure.
func isValidation(err error) bool {
	var verr *workspace.ValidationError
	return errors.As(err, &verr)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
