// Package workspace drives the bookmark screens independently of any view:
// list population (fetch or debounced search), link health tracking and URL
// autofill for new bookmarks.
//
// Components run their network calls on goroutines and report state changes
// through a notify callback; all mutable state is guarded by each
// component's own mutex.
package workspace

import (
	"context"

	"github.com/linkly-app/linkly-cli/internal/api"
)

// BookmarkSource lists, searches and deletes bookmarks.
type BookmarkSource interface {
	ListBookmarks(ctx context.Context) ([]api.Bookmark, error)
	SearchBookmarks(ctx context.Context, keyword string, categoryID *int64) ([]api.Bookmark, error)
	DeleteBookmark(ctx context.Context, id int64) error
}

// HealthSource reads and triggers link checks.
type HealthSource interface {
	LatestHealth(ctx context.Context) ([]api.HealthResult, error)
	CheckNow(ctx context.Context, bookmarkID int64) (*api.HealthResult, error)
}

// MetadataSource powers autofill.
type MetadataSource interface {
	FetchMetadata(ctx context.Context, pageURL string) (*api.URLMetadata, error)
	SuggestCategory(ctx context.Context, input api.SuggestCategoryInput) (*api.CategorySuggestion, error)
}

// BookmarkWriter persists a submitted draft.
type BookmarkWriter interface {
	CreateBookmark(ctx context.Context, input api.CreateBookmarkInput) (*api.Bookmark, error)
	UpdateBookmark(ctx context.Context, id int64, input api.UpdateBookmarkInput) (*api.Bookmark, error)
}

// CategorySource lists the user's categories.
type CategorySource interface {
	ListCategories(ctx context.Context) ([]api.Category, error)
}

// Client is everything the workspace needs from the remote API.
type Client interface {
	BookmarkSource
	HealthSource
	MetadataSource
	BookmarkWriter
	CategorySource
}

// Ensure the API client satisfies Client at compile time.
var _ Client = (*api.Client)(nil)

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
