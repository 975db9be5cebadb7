package workspace

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkly-app/linkly-cli/internal/api"
)

func TestIsValidURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a", true},
		{"http://localhost:8080", true},
		{"  https://example.com  ", true},
		{"example.com", false},
		{"ftp://example.com", false},
		{"https://", false},
		{"", false},
		{"http://exa mple.com", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidURL(tc.in), tc.in)
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"go", "cli", "go"}, ParseTags(" go, cli ,, go ,"))
	assert.Equal(t, []string{}, ParseTags(""))
	assert.Equal(t, []string{}, ParseTags(" , "))
}

func TestDraftValidate(t *testing.T) {
	cases := []struct {
		name  string
		draft Draft
		field string
	}{
		{"ok", Draft{URL: "https://example.com", Title: "Example"}, ""},
		{"missing url", Draft{Title: "x"}, "url"},
		{"bad scheme", Draft{URL: "mailto:a@b.c", Title: "x"}, "url"},
		{"url too long", Draft{URL: "https://example.com/" + strings.Repeat("a", MaxURLLength), Title: "x"}, "url"},
		{"missing title", Draft{URL: "https://example.com", Title: "   "}, "title"},
		{"title too long", Draft{URL: "https://example.com", Title: strings.Repeat("t", MaxTitleLength+1)}, "title"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if tc.field == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestDraftInputs(t *testing.T) {
	d := Draft{
		ID:         5,
		URL:        " https://example.com ",
		Title:      " Example ",
		CategoryID: idPtr(2),
		Tags:       "a, b",
	}

	create := d.CreateInput()
	assert.Equal(t, "https://example.com", create.URL)
	assert.Equal(t, "Example", create.Title)
	assert.Nil(t, create.Description)
	assert.Equal(t, []string{"a", "b"}, create.Tags)
	require.NotNil(t, create.CategoryID)
	assert.Equal(t, int64(2), *create.CategoryID)

	d.Description = "notes"
	update := d.UpdateInput()
	require.NotNil(t, update.Description)
	assert.Equal(t, "notes", *update.Description)
}

func TestDraftFromBookmark(t *testing.T) {
	b := api.Bookmark{ID: 3, URL: "https://x.dev", Title: "X", Description: "d", CategoryID: idPtr(9), Tags: []string{"a", "b"}}
	d := DraftFromBookmark(b)
	assert.Equal(t, int64(3), d.ID)
	assert.Equal(t, "a, b", d.Tags)
	*b.CategoryID = 1
	assert.Equal(t, int64(9), *d.CategoryID)
}
