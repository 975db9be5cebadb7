package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestLoginCmdRejectsEmptyEmail(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := LoginCmd()
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
}

func TestLoginCmdRejectsEmptyPassword(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := LoginCmd()
	cmd.SetIn(strings.NewReader("a@b.c\n\n"))
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "password is required")
}

func TestBookmarksCmdUnknownSubcommandDeterministicError(t *testing.T) {
	cmd := BookmarksCmd()
	cmd.SetArgs([]string{"nope"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestBookmarksCmdHelpWorks(t *testing.T) {
	cmd := BookmarksCmd()
	cmd.SetArgs([]string{"--help"})
	cmd.SetOut(&bytes.Buffer{})
	assert.NoError(t, cmd.Execute())
}

func TestCommandsNotLoggedInError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cases := []struct {
		name  string
		build func() *cobra.Command
		args  []string
	}{
		{"bookmarks list", BookmarksCmd, []string{"list"}},
		{"bookmarks search", BookmarksCmd, []string{"search", "go"}},
		{"categories list", CategoriesCmd, []string{"list"}},
		{"users list", UsersCmd, []string{"list"}},
		{"health", HealthCmd, []string{}},
		{"withdraw", WithdrawCmd, []string{"--yes"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := tc.build()
			cmd.SetArgs(tc.args)
			cmd.SetOut(&bytes.Buffer{})
			err := cmd.Execute()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "not logged in")
		})
	}
}

func TestLogoutWithoutConfigErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := LogoutCmd()
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestBookmarksAddRejectsInvalidURL(t *testing.T) {
	cmd := BookmarksCmd()
	cmd.SetArgs([]string{"add", "example.com"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid url")
}

func TestUsersRoleRejectsUnknownRole(t *testing.T) {
	cmd := UsersCmd()
	cmd.SetArgs([]string{"role", "3", "owner"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "role must be")
}
