package importer

import (
	"context"
	"fmt"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/workspace"
)

// Target is the part of the API an import writes to.
type Target interface {
	ListCategories(ctx context.Context) ([]api.Category, error)
	CreateCategory(ctx context.Context, input api.CategoryInput) (*api.Category, error)
	CreateBookmark(ctx context.Context, input api.CreateBookmarkInput) (*api.Bookmark, error)
}

// Options controls how folders map to categories.
type Options struct {
	// CreateCategories creates a category for every folder without one.
	// Otherwise such bookmarks are imported uncategorised.
	CreateCategories bool
	DryRun           bool
}

// Failure records an entry that could not be imported.
type Failure struct {
	Entry Entry
	Err   error
}

// Result summarises an import.
type Result struct {
	Created           int
	Skipped           int
	CategoriesCreated []string
	Failures          []Failure
}

// Import creates a bookmark for every valid entry. Entries that fail
// validation are skipped; API failures are collected and the import carries
// on. Only a failure to list categories or a cancelled context aborts.
func Import(ctx context.Context, target Target, entries []Entry, opts Options) (Result, error) {
	var res Result

	existing, err := target.ListCategories(ctx)
	if err != nil {
		return res, fmt.Errorf("list categories: %w", err)
	}
	byName := make(map[string]int64, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		draft := workspace.Draft{URL: e.URL, Title: e.Title, Tags: strings.Join(e.Tags, ",")}
		if err := draft.Validate(); err != nil {
			zlog.Debug().Err(err).Str("url", e.URL).Msg("skipping import entry")
			res.Skipped++
			continue
		}

		if e.Folder != "" {
			id, ok := byName[e.Folder]
			if !ok && opts.CreateCategories {
				if opts.DryRun {
					res.CategoriesCreated = append(res.CategoriesCreated, e.Folder)
					byName[e.Folder] = 0
				} else {
					created, err := target.CreateCategory(ctx, api.CategoryInput{Name: e.Folder})
					if err != nil {
						res.Failures = append(res.Failures, Failure{Entry: e, Err: fmt.Errorf("create category %q: %w", e.Folder, err)})
						continue
					}
					id, ok = created.ID, true
					byName[e.Folder] = id
					res.CategoriesCreated = append(res.CategoriesCreated, e.Folder)
				}
			}
			if ok && id != 0 {
				draft.CategoryID = &id
			}
		}

		if opts.DryRun {
			res.Created++
			continue
		}
		if _, err := target.CreateBookmark(ctx, draft.CreateInput()); err != nil {
			zlog.Warn().Err(err).Str("url", e.URL).Msg("import bookmark failed")
			res.Failures = append(res.Failures, Failure{Entry: e, Err: err})
			continue
		}
		res.Created++
	}
	return res, nil
}
