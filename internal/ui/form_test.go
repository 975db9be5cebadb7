package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkly-app/linkly-cli/internal/api"
)

func newTestForm(t *testing.T) *bookmarkForm {
	t.Helper()
	client, _ := testClient(t, newStubServer(), api.RoleUser)
	ws := testWorkspace(t, client)
	f := newBookmarkForm(ws.NewBookmark(), []api.Category{{ID: 1, Name: "Reading"}, {ID: 3, Name: "Frontend"}})
	t.Cleanup(f.close)
	return f
}

func TestBookmarkFormFocusWraps(t *testing.T) {
	f := newTestForm(t)
	assert.Equal(t, formFieldURL, f.focus)
	assert.True(t, f.inputs[formFieldURL].Focused())

	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, formFieldTitle, f.focus)
	assert.False(t, f.inputs[formFieldURL].Focused())
	assert.True(t, f.inputs[formFieldTitle].Focused())

	f.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	f.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, formFieldCategory, f.focus)

	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, formFieldURL, f.focus)
}

func TestBookmarkFormTypingUpdatesDraft(t *testing.T) {
	f := newTestForm(t)

	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	f.handleKey(keyMsg("Notes"))
	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	f.handleKey(keyMsg("go, tui"))

	d := f.af.Draft()
	assert.Equal(t, "Notes", d.Title)
	assert.Equal(t, "go, tui", d.Tags)
}

func TestBookmarkFormCategoryCycle(t *testing.T) {
	f := newTestForm(t)
	f.setFocus(formFieldCategory)
	assert.Contains(t, f.View(0), "‹ none ›")

	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}

	f.handleKey(right)
	require.NotNil(t, f.af.Draft().CategoryID)
	assert.Equal(t, int64(1), *f.af.Draft().CategoryID)

	f.handleKey(right)
	assert.Equal(t, int64(3), *f.af.Draft().CategoryID)
	assert.Contains(t, f.View(0), "‹ Frontend ›")

	f.handleKey(right)
	assert.Nil(t, f.af.Draft().CategoryID)

	f.handleKey(left)
	assert.Equal(t, int64(3), *f.af.Draft().CategoryID)
}

func TestBookmarkFormWithoutCategories(t *testing.T) {
	client, _ := testClient(t, newStubServer(), api.RoleUser)
	ws := testWorkspace(t, client)
	f := newBookmarkForm(ws.NewBookmark(), nil)
	t.Cleanup(f.close)

	f.setFocus(formFieldCategory)
	f.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, f.af.Draft().CategoryID)
	assert.Contains(t, f.View(0), "no categories yet")
}
