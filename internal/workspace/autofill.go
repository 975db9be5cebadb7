package workspace

import (
	"context"
	"strings"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/debounce"
)

// DefaultAutofillDelay is how long the URL must be stable before autofill.
const DefaultAutofillDelay = 800 * time.Millisecond

const urlKey = "url"

// Autofill owns a draft while it is being composed. In create mode, a
// well-formed URL that stays unchanged for the autofill delay triggers a
// metadata fetch and, when the draft has no category, a category suggestion.
type Autofill struct {
	source     MetadataSource
	categories []api.Category
	mode       FormMode
	delay      time.Duration
	debounce   *debounce.Scheduler

	ctx      context.Context
	shutdown context.CancelFunc

	mu              sync.Mutex
	draft           Draft
	suggestion      string
	categoryTouched bool
	gen             uint64
	busy            int
	onChange        func()
	closed          bool
}

// NewAutofill takes ownership of draft. Categories are the user's current
// categories, used to resolve suggested names.
func NewAutofill(source MetadataSource, categories []api.Category, draft Draft, mode FormMode, delay time.Duration) *Autofill {
	if delay <= 0 {
		delay = DefaultAutofillDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Autofill{
		source:     source,
		categories: append([]api.Category(nil), categories...),
		mode:       mode,
		delay:      delay,
		debounce:   debounce.New(),
		ctx:        ctx,
		shutdown:   cancel,
		draft:      draft,
	}
}

// OnChange sets the callback fired whenever the draft or busy state changes.
func (a *Autofill) OnChange(fn func()) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// Mode returns whether the draft is new or an existing bookmark.
func (a *Autofill) Mode() FormMode {
	return a.mode
}

// Draft returns a copy of the current draft.
func (a *Autofill) Draft() Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.draft
	d.CategoryID = copyID(a.draft.CategoryID)
	return d
}

// SuggestionLabel is the name of the auto-selected category, or "".
func (a *Autofill) SuggestionLabel() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.suggestion
}

// Busy reports whether a metadata fetch or suggestion is outstanding.
func (a *Autofill) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy > 0
}

// SetURL stores the URL. A malformed URL leaves earlier autofill results in
// place and schedules nothing; a fetch already pending for the last
// well-formed URL still applies.
func (a *Autofill) SetURL(raw string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.draft.URL = raw
	schedule := a.mode == FormCreate && IsValidURL(raw)
	if schedule {
		a.gen++
	}
	gen := a.gen
	fn := a.onChange
	a.mu.Unlock()

	if schedule {
		pageURL := strings.TrimSpace(raw)
		a.debounce.Schedule(urlKey, a.delay, func() { a.settle(a.ctx, gen, pageURL) })
	}
	notify(fn)
}

// Fill runs autofill for the current URL right away and returns once the
// draft has been updated, cancelling any pending debounced fetch. It does
// nothing in edit mode or when the URL is malformed.
func (a *Autofill) Fill(ctx context.Context) {
	a.mu.Lock()
	if a.closed || a.mode != FormCreate || !IsValidURL(a.draft.URL) {
		a.mu.Unlock()
		return
	}
	a.gen++
	gen := a.gen
	pageURL := strings.TrimSpace(a.draft.URL)
	a.mu.Unlock()

	a.debounce.Cancel(urlKey)
	a.settle(ctx, gen, pageURL)
}

// SetTitle records a user edit.
func (a *Autofill) SetTitle(title string) {
	a.update(func(d *Draft) { d.Title = title })
}

// SetDescription records a user edit.
func (a *Autofill) SetDescription(description string) {
	a.update(func(d *Draft) { d.Description = description })
}

// SetTags records the raw comma-separated tag text.
func (a *Autofill) SetTags(tags string) {
	a.update(func(d *Draft) { d.Tags = tags })
}

// SelectCategory records a manual category choice (nil for none). It clears
// the suggestion label, and no later suggestion will replace it.
func (a *Autofill) SelectCategory(categoryID *int64) {
	a.update(func(d *Draft) {
		d.CategoryID = copyID(categoryID)
		a.categoryTouched = true
		a.suggestion = ""
	})
}

// update applies a user edit under the lock.
func (a *Autofill) update(apply func(*Draft)) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	apply(&a.draft)
	fn := a.onChange
	a.mu.Unlock()
	notify(fn)
}

// current reports whether gen is still the latest URL edit.
func (a *Autofill) current(gen uint64) bool {
	return !a.closed && gen == a.gen
}

func (a *Autofill) setBusy(delta int) {
	a.mu.Lock()
	a.busy += delta
	fn := a.onChange
	a.mu.Unlock()
	notify(fn)
}

func (a *Autofill) settle(ctx context.Context, gen uint64, pageURL string) {
	a.mu.Lock()
	if !a.current(gen) {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	a.setBusy(1)
	defer a.setBusy(-1)

	meta, err := a.source.FetchMetadata(ctx, pageURL)
	if err != nil {
		zlog.Warn().Err(err).Str("url", pageURL).Msg("metadata fetch failed")
		return
	}

	a.mu.Lock()
	if !a.current(gen) {
		a.mu.Unlock()
		return
	}
	// Anything typed while the fetch was in flight wins.
	if strings.TrimSpace(a.draft.Title) == "" && meta.Title != "" {
		a.draft.Title = meta.Title
	}
	if strings.TrimSpace(a.draft.Description) == "" && meta.Description != "" {
		a.draft.Description = meta.Description
	}
	title, description := a.draft.Title, a.draft.Description
	wantSuggestion := a.draft.CategoryID == nil && !a.categoryTouched &&
		len(a.categories) > 0 &&
		(strings.TrimSpace(title) != "" || strings.TrimSpace(description) != "")
	fn := a.onChange
	a.mu.Unlock()
	notify(fn)

	if wantSuggestion {
		a.suggest(ctx, gen, title, description)
	}
}

func (a *Autofill) suggest(ctx context.Context, gen uint64, title, description string) {
	suggestion, err := a.source.SuggestCategory(ctx, api.SuggestCategoryInput{
		Title:       title,
		Description: description,
	})
	if err != nil {
		zlog.Debug().Err(err).Msg("category suggestion failed")
		return
	}
	if suggestion == nil || suggestion.SuggestedCategory == "" {
		return
	}

	var match *api.Category
	for i := range a.categories {
		if a.categories[i].Name == suggestion.SuggestedCategory {
			match = &a.categories[i]
			break
		}
	}
	if match == nil {
		zlog.Debug().Str("suggested", suggestion.SuggestedCategory).Msg("suggested category does not exist")
		return
	}

	a.mu.Lock()
	// The user may have picked a category while the request was in flight.
	if !a.current(gen) || a.draft.CategoryID != nil || a.categoryTouched {
		a.mu.Unlock()
		return
	}
	id := match.ID
	a.draft.CategoryID = &id
	a.suggestion = match.Name
	fn := a.onChange
	a.mu.Unlock()
	notify(fn)
}

// Submit validates the draft and creates or updates the bookmark. A
// *ValidationError means no request was made.
func (a *Autofill) Submit(ctx context.Context, writer BookmarkWriter) (*api.Bookmark, error) {
	draft := a.Draft()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if a.mode == FormEdit {
		return writer.UpdateBookmark(ctx, draft.ID, draft.UpdateInput())
	}
	return writer.CreateBookmark(ctx, draft.CreateInput())
}

// Close drops pending autofill and abandons in-flight requests.
func (a *Autofill) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()
	a.debounce.Stop()
	a.shutdown()
}
