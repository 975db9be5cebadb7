package workspace

import (
	"context"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/linkly-app/linkly-cli/internal/api"
)

// Option customises a Workspace.
type Option func(*options)

type options struct {
	searchDelay   time.Duration
	autofillDelay time.Duration
}

// WithSearchDelay overrides the keyword debounce.
func WithSearchDelay(d time.Duration) Option {
	return func(o *options) { o.searchDelay = d }
}

// WithAutofillDelay overrides the URL debounce.
func WithAutofillDelay(d time.Duration) Option {
	return func(o *options) { o.autofillDelay = d }
}

// Workspace ties the bookmark screen together: the list, link health and
// the categories that drafts choose from.
type Workspace struct {
	List   *ListController
	Health *Tracker

	client Client
	opts   options

	mu         sync.Mutex
	categories []api.Category
}

// New builds a workspace over client. Nothing is fetched until Refresh or
// LoadCategories is called.
func New(client Client, opts ...Option) *Workspace {
	o := options{searchDelay: DefaultSearchDelay, autofillDelay: DefaultAutofillDelay}
	for _, opt := range opts {
		opt(&o)
	}
	health := NewTracker(client)
	return &Workspace{
		List:   NewListController(client, health, o.searchDelay),
		Health: health,
		client: client,
		opts:   o,
	}
}

// OnChange routes list and health changes to one callback.
func (w *Workspace) OnChange(fn func()) {
	w.List.OnChange(fn)
	w.Health.OnChange(fn)
}

// Refresh reloads the list and link health.
func (w *Workspace) Refresh() {
	w.List.Refresh()
}

// LoadCategories fetches the user's categories for filters and drafts.
func (w *Workspace) LoadCategories(ctx context.Context) ([]api.Category, error) {
	categories, err := w.client.ListCategories(ctx)
	if err != nil {
		zlog.Warn().Err(err).Msg("load categories failed")
		return nil, err
	}
	w.mu.Lock()
	w.categories = categories
	w.mu.Unlock()
	return append([]api.Category(nil), categories...), nil
}

// Categories returns the last loaded categories.
func (w *Workspace) Categories() []api.Category {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]api.Category(nil), w.categories...)
}

// CategoryName resolves id against the loaded categories.
func (w *Workspace) CategoryName(id *int64) string {
	if id == nil {
		return ""
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range w.categories {
		if c.ID == *id {
			return c.Name
		}
	}
	return ""
}

// NewBookmark starts composing a bookmark with autofill enabled.
func (w *Workspace) NewBookmark() *Autofill {
	return NewAutofill(w.client, w.Categories(), Draft{}, FormCreate, w.opts.autofillDelay)
}

// EditBookmark opens b for editing. Autofill is disabled.
func (w *Workspace) EditBookmark(b api.Bookmark) *Autofill {
	return NewAutofill(w.client, w.Categories(), DraftFromBookmark(b), FormEdit, w.opts.autofillDelay)
}

// Save submits the draft and, on success, refreshes the list and health.
func (w *Workspace) Save(ctx context.Context, form *Autofill) (*api.Bookmark, error) {
	saved, err := form.Submit(ctx, w.client)
	if err != nil {
		return nil, err
	}
	w.Refresh()
	return saved, nil
}

// Close tears down timers and in-flight requests.
func (w *Workspace) Close() {
	w.List.Close()
}
