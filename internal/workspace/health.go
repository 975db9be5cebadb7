package workspace

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/linkly-app/linkly-cli/internal/api"
)

// Tracker holds the latest link check per bookmark and which bookmarks are
// being checked right now. Only its own methods mutate that state.
type Tracker struct {
	source HealthSource

	mu       sync.Mutex
	results  map[int64]api.HealthResult
	inFlight map[int64]int
	seq      uint64
	// checkSeq is the refresh sequence current when each CheckNow result
	// landed. A refresh that started no later than that is older than it.
	checkSeq map[int64]uint64
	onChange func()
}

// NewTracker creates an empty tracker.
func NewTracker(source HealthSource) *Tracker {
	return &Tracker{
		source:   source,
		results:  make(map[int64]api.HealthResult),
		inFlight: make(map[int64]int),
		checkSeq: make(map[int64]uint64),
	}
}

// OnChange sets the callback fired after every state change.
func (t *Tracker) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// RefreshAll replaces the whole mapping with the server's snapshot, except
// for results CheckNow stored after the refresh began, which are newer than
// the snapshot and kept. On failure the last known results stay in place and
// the error is returned for the caller to ignore or log. A refresh overtaken
// by a newer one is dropped.
func (t *Tracker) RefreshAll(ctx context.Context) error {
	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.mu.Unlock()

	results, err := t.source.LatestHealth(ctx)
	if err != nil {
		zlog.Warn().Err(err).Msg("link health refresh failed")
		return err
	}

	t.mu.Lock()
	if seq != t.seq {
		t.mu.Unlock()
		return nil
	}
	next := make(map[int64]api.HealthResult, len(results))
	for _, r := range results {
		next[r.BookmarkID] = r
	}
	for id, checked := range t.checkSeq {
		if checked < seq {
			delete(t.checkSeq, id)
			continue
		}
		if r, ok := t.results[id]; ok {
			next[id] = r
		}
	}
	t.results = next
	fn := t.onChange
	t.mu.Unlock()

	notify(fn)
	return nil
}

// CheckNow runs an immediate check for one bookmark. Duplicate concurrent
// calls are allowed; the bookmark stays in flight until all of them finish
// and the last to succeed wins. On failure the previous result is kept.
func (t *Tracker) CheckNow(ctx context.Context, bookmarkID int64) (api.HealthResult, error) {
	t.mu.Lock()
	t.inFlight[bookmarkID]++
	fn := t.onChange
	t.mu.Unlock()
	notify(fn)

	result, err := t.source.CheckNow(ctx, bookmarkID)

	t.mu.Lock()
	if t.inFlight[bookmarkID] <= 1 {
		delete(t.inFlight, bookmarkID)
	} else {
		t.inFlight[bookmarkID]--
	}
	if err == nil && result != nil {
		if result.BookmarkID == 0 {
			result.BookmarkID = bookmarkID
		}
		t.results[bookmarkID] = *result
		t.checkSeq[bookmarkID] = t.seq
	}
	fn = t.onChange
	t.mu.Unlock()
	notify(fn)

	if err != nil {
		zlog.Warn().Err(err).Int64("bookmark_id", bookmarkID).Msg("link check failed")
		return api.HealthResult{}, err
	}
	if result == nil {
		return api.HealthResult{}, nil
	}
	return *result, nil
}

// Result returns the latest completed check for a bookmark.
func (t *Tracker) Result(bookmarkID int64) (api.HealthResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.results[bookmarkID]
	return r, ok
}

// InFlight reports whether a check for the bookmark is outstanding.
func (t *Tracker) InFlight(bookmarkID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight[bookmarkID] > 0
}

// InFlightIDs returns the set of bookmarks being checked.
func (t *Tracker) InFlightIDs() map[int64]struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int64]struct{}, len(t.inFlight))
	for id := range t.inFlight {
		out[id] = struct{}{}
	}
	return out
}

// Results returns a copy of the mapping.
func (t *Tracker) Results() map[int64]api.HealthResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[int64]api.HealthResult, len(t.results))
	for id, r := range t.results {
		out[id] = r
	}
	return out
}

// StatusLabel renders a health status for display. Values outside the known
// set are shown as-is.
func StatusLabel(status string) string {
	switch status {
	case api.StatusHealthy:
		return "healthy"
	case api.StatusDead:
		return "dead"
	case api.StatusTimeout:
		return "timeout"
	case api.StatusUnknown:
		return "unknown"
	case "":
		return "unchecked"
	default:
		return status
	}
}
