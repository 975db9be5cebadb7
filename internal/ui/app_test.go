package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/session"
)

func newTestApp(t *testing.T, stub *stubServer, role string) App {
	t.Helper()
	client, sess := testClient(t, stub, role)
	return NewApp(client, sess, testWorkspace(t, client))
}

func updateApp(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	model, cmd := a.Update(msg)
	next, ok := model.(App)
	require.True(t, ok)
	return next, cmd
}

func TestAppQuit(t *testing.T) {
	a := newTestApp(t, newStubServer(), api.RoleUser)

	_, cmd := updateApp(t, a, keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = updateApp(t, a, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestAppTypingQWhileSearching(t *testing.T) {
	a := newTestApp(t, newStubServer(), api.RoleUser)

	a, _ = updateApp(t, a, keyMsg("/"))
	require.True(t, a.capturing())
	a, _ = updateApp(t, a, keyMsg("q"))
	a, _ = updateApp(t, a, keyMsg("2"))

	assert.Equal(t, "q2", a.bookmarks.search.Value())
	assert.Equal(t, tabBookmarks, a.tab)

	_, cmd := updateApp(t, a, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestAppUsersTabIsAdminOnly(t *testing.T) {
	stub := newStubServer()
	stub.categories = sampleCategories()

	user := newTestApp(t, stub, api.RoleUser)
	assert.Equal(t, 2, user.tabCount())
	user, cmd := updateApp(t, user, keyMsg("3"))
	assert.Equal(t, tabBookmarks, user.tab)
	assert.Nil(t, cmd)
	assert.NotContains(t, user.View(), "3 Users")

	user, cmd = updateApp(t, user, keyMsg("2"))
	assert.Equal(t, tabCategories, user.tab)
	require.NotNil(t, cmd)
	_, ok := cmd().(categoriesLoadedMsg)
	assert.True(t, ok)

	admin := newTestApp(t, stub, api.RoleAdmin)
	assert.Equal(t, 3, admin.tabCount())
	admin, cmd = updateApp(t, admin, keyMsg("3"))
	assert.Equal(t, tabUsers, admin.tab)
	require.NotNil(t, cmd)
	_, ok = cmd().(usersLoadedMsg)
	assert.True(t, ok)
	assert.Contains(t, admin.View(), "3 Users")
}

func TestAppStartupCheck(t *testing.T) {
	stub := newStubServer()
	a := newTestApp(t, stub, api.RoleUser)
	require.True(t, a.startupChecking)

	msg := a.runStartupCheckCmd()()
	assert.Equal(t, startupCheckedMsg{status: "UP"}, msg)
	assert.Equal(t, 1, stub.count("GET /health"))

	a, cmd := updateApp(t, a, msg)
	assert.NotNil(t, cmd)
	assert.False(t, a.startupChecking)
	assert.Equal(t, "up", a.serverStatus)
	assert.Contains(t, a.View(), "Connected to")

	a, _ = updateApp(t, a, clearToastMsg{})
	assert.Nil(t, a.toast)
}

func TestAppStartupUnreachable(t *testing.T) {
	sess := session.New("tok_test", session.User{ID: 7, Email: "ada@example.com"})
	client := api.NewClient("http://127.0.0.1:1", sess)
	a := NewApp(client, sess, testWorkspace(t, client))

	msg, ok := a.runStartupCheckCmd()().(startupCheckedMsg)
	require.True(t, ok)
	assert.NotEmpty(t, msg.err)

	a, _ = updateApp(t, a, msg)
	assert.Equal(t, "unreachable", a.serverStatus)
	assert.Contains(t, a.View(), "Server unreachable")
}

func TestAppErrorBox(t *testing.T) {
	a := newTestApp(t, newStubServer(), api.RoleUser)

	a, _ = updateApp(t, a, errMsg{err: &api.RemoteError{StatusCode: 500, Message: "boom"}})
	out := a.View()
	assert.Contains(t, out, "boom")
	assert.NotContains(t, out, "linkly login")

	a, _ = updateApp(t, a, errMsg{err: &api.RemoteError{StatusCode: 401, Message: "token expired"}})
	out = a.View()
	assert.Contains(t, out, "token expired")
	assert.Contains(t, out, "linkly login")

	// Any key dismisses it.
	a, _ = updateApp(t, a, keyMsg("j"))
	assert.Empty(t, a.err)
	assert.False(t, a.unauthorized)
}

func TestAppHelp(t *testing.T) {
	a := newTestApp(t, newStubServer(), api.RoleUser)

	a, _ = updateApp(t, a, keyMsg("?"))
	require.True(t, a.helpOpen)
	out := a.View()
	assert.Contains(t, out, "esc to close")
	assert.Contains(t, out, "ada@example.com (user)")

	// Keys other than esc and ? are swallowed while help is open.
	a, cmd := updateApp(t, a, keyMsg("q"))
	assert.Nil(t, cmd)
	assert.True(t, a.helpOpen)

	a, _ = updateApp(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, a.helpOpen)
}

func TestAppToastsForActions(t *testing.T) {
	a := newTestApp(t, newStubServer(), api.RoleUser)

	tests := []struct {
		msg  tea.Msg
		want string
	}{
		{bookmarkDeletedMsg{title: "Example"}, `Deleted "Example".`},
		{bookmarkSavedMsg{edited: true}, "Bookmark updated."},
		{urlCopiedMsg{url: "https://go.dev"}, "Copied https://go.dev"},
		{categoryCreatedMsg{name: "Video"}, `Category "Video" created.`},
		{categoryUpdatedMsg{name: "Videos"}, `Category "Videos" updated.`},
		{userCreatedMsg{user: api.User{Email: "cy@example.com"}}, "Created cy@example.com."},
		{linkCheckedMsg{result: api.HealthResult{Status: api.StatusTimeout}}, "Link timeout."},
	}
	for _, tt := range tests {
		next, cmd := updateApp(t, a, tt.msg)
		assert.NotNil(t, cmd)
		require.NotNil(t, next.toast)
		assert.Equal(t, tt.want, next.toast.text)
	}
}

func TestAppWindowSizePropagates(t *testing.T) {
	a := newTestApp(t, newStubServer(), api.RoleUser)
	a, _ = updateApp(t, a, tea.WindowSizeMsg{Width: 120, Height: 20})

	assert.Equal(t, 120, a.bookmarks.width)
	assert.Equal(t, 120, a.categories.width)
	assert.Equal(t, 20, a.users.height)
	assert.Contains(t, a.View(), RenderCompactBanner())
}
