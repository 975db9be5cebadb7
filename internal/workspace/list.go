package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/debounce"
)

// DefaultSearchDelay is how long the keyword must be stable before searching.
const DefaultSearchDelay = 300 * time.Millisecond

const searchKey = "search"

// FetchState is the lifecycle of the latest list request.
type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
	StateLoaded
	StateError
)

func (s FetchState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// ListMode says how the displayed list was populated.
type ListMode int

const (
	// ModeFetch is the full list with the category filter applied locally.
	ModeFetch ListMode = iota
	// ModeSearch is the server's keyword+category result, shown unfiltered.
	ModeSearch
)

// ListSnapshot is what the view renders.
type ListSnapshot struct {
	Items      []api.Bookmark
	Total      int
	State      FetchState
	Mode       ListMode
	Err        string
	Keyword    string
	CategoryID *int64
}

// ListController populates the bookmark list from the keyword and category
// filter. Each request carries a monotonically increasing token; a response
// whose token is no longer current is discarded, and its context is
// cancelled as soon as it is superseded.
type ListController struct {
	source      BookmarkSource
	health      *Tracker
	debounce    *debounce.Scheduler
	searchDelay time.Duration

	ctx      context.Context
	shutdown context.CancelFunc

	mu         sync.Mutex
	keyword    string
	categoryID *int64
	bookmarks  []api.Bookmark
	loadedMode ListMode
	state      FetchState
	errText    string
	token      uint64
	cancel     context.CancelFunc
	onChange   func()
	closed     bool
	wg         sync.WaitGroup
}

// NewListController creates an idle controller. Call Refresh to load.
func NewListController(source BookmarkSource, health *Tracker, searchDelay time.Duration) *ListController {
	if searchDelay <= 0 {
		searchDelay = DefaultSearchDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ListController{
		source:      source,
		health:      health,
		debounce:    debounce.New(),
		searchDelay: searchDelay,
		ctx:         ctx,
		shutdown:    cancel,
	}
}

// OnChange sets the callback fired after every state change.
func (c *ListController) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SetKeyword updates the search keyword. An empty or whitespace-only keyword
// fetches the full list at once; anything else searches after the keyword
// has been stable for the search delay.
func (c *ListController) SetKeyword(keyword string) {
	c.mu.Lock()
	if c.closed || keyword == c.keyword {
		c.mu.Unlock()
		return
	}
	c.keyword = keyword
	fn := c.populateLocked(false)
	c.mu.Unlock()
	notify(fn)
}

// SetCategoryFilter sets or clears (nil) the category filter.
func (c *ListController) SetCategoryFilter(categoryID *int64) {
	c.mu.Lock()
	if c.closed || sameID(c.categoryID, categoryID) {
		c.mu.Unlock()
		return
	}
	c.categoryID = copyID(categoryID)
	fn := c.populateLocked(false)
	c.mu.Unlock()
	notify(fn)
}

// Refresh is the data-changed signal: it repopulates the list immediately
// and refreshes link health.
func (c *ListController) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn := c.populateLocked(true)
	c.mu.Unlock()
	notify(fn)

	if c.health != nil {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			// Failure is logged by the tracker and otherwise ignored.
			_ = c.health.RefreshAll(c.ctx)
		}()
	}
}

// populateLocked picks the strategy for the current filters. It returns the
// change callback for the caller to fire after unlocking.
func (c *ListController) populateLocked(immediate bool) func() {
	keyword := strings.TrimSpace(c.keyword)
	if keyword == "" {
		c.debounce.Cancel(searchKey)
		c.startLocked(ModeFetch, "", nil)
		return c.onChange
	}

	categoryID := copyID(c.categoryID)
	if immediate {
		c.debounce.Cancel(searchKey)
		c.startLocked(ModeSearch, keyword, categoryID)
		return c.onChange
	}

	// Whatever is in flight is already stale.
	c.invalidateLocked()
	scheduled := c.token
	c.state = StateLoading
	c.debounce.Schedule(searchKey, c.searchDelay, func() {
		c.mu.Lock()
		// The timer may have fired just before a newer population took the
		// lock; any such population has moved the token on.
		if c.closed || c.token != scheduled {
			c.mu.Unlock()
			return
		}
		c.startLocked(ModeSearch, keyword, categoryID)
		fn := c.onChange
		c.mu.Unlock()
		notify(fn)
	})
	return c.onChange
}

func (c *ListController) invalidateLocked() {
	c.token++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *ListController) startLocked(mode ListMode, keyword string, categoryID *int64) {
	c.invalidateLocked()
	token := c.token
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.state = StateLoading

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		var items []api.Bookmark
		var err error
		if mode == ModeSearch {
			items, err = c.source.SearchBookmarks(ctx, keyword, categoryID)
		} else {
			items, err = c.source.ListBookmarks(ctx)
		}
		c.finish(token, mode, items, err)
	}()
}

func (c *ListController) finish(token uint64, mode ListMode, items []api.Bookmark, err error) {
	c.mu.Lock()
	if token != c.token || c.closed {
		c.mu.Unlock()
		zlog.Debug().Uint64("token", token).Msg("discarding stale bookmark response")
		return
	}
	c.cancel = nil
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.mu.Unlock()
			return
		}
		// Keep showing the previous data.
		c.state = StateError
		c.errText = api.Message(err)
	} else {
		c.bookmarks = items
		c.loadedMode = mode
		c.state = StateLoaded
		c.errText = ""
	}
	fn := c.onChange
	c.mu.Unlock()
	notify(fn)
}

// Confirm is the yes/no gate shown before a destructive action.
type Confirm func() bool

// DeleteBookmark removes a bookmark after confirm agrees. It returns false
// with no remote call when declined. On success the list and health are
// refreshed; on failure local state is left alone and the error returned.
func (c *ListController) DeleteBookmark(ctx context.Context, id int64, confirm Confirm) (bool, error) {
	if confirm != nil && !confirm() {
		return false, nil
	}
	if err := c.source.DeleteBookmark(ctx, id); err != nil {
		zlog.Error().Err(err).Int64("bookmark_id", id).Msg("delete bookmark failed")
		return false, err
	}
	c.Refresh()
	return true, nil
}

// Snapshot returns the list as it should be displayed. The category filter
// is applied here only for fetched lists; search results already carry it.
func (c *ListController) Snapshot() ListSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.bookmarks
	if c.loadedMode == ModeFetch && c.categoryID != nil {
		items = filterByCategory(c.bookmarks, *c.categoryID)
	} else {
		items = append([]api.Bookmark(nil), items...)
	}
	return ListSnapshot{
		Items:      items,
		Total:      len(c.bookmarks),
		State:      c.state,
		Mode:       c.loadedMode,
		Err:        c.errText,
		Keyword:    c.keyword,
		CategoryID: copyID(c.categoryID),
	}
}

// Wait blocks until in-flight requests have settled. Pending debounced
// searches are not waited for.
func (c *ListController) Wait() {
	c.wg.Wait()
}

// Close cancels pending timers and in-flight requests. The controller ignores
// all calls afterwards.
func (c *ListController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.debounce.Stop()
	c.invalidateLocked()
	c.mu.Unlock()
	c.shutdown()
}

func filterByCategory(items []api.Bookmark, categoryID int64) []api.Bookmark {
	out := make([]api.Bookmark, 0, len(items))
	for _, b := range items {
		if b.HasCategory(categoryID) {
			out = append(out, b)
		}
	}
	return out
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
