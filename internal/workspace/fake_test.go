package workspace

import (
	"context"
	"sync"
	"testing"

	"github.com/linkly-app/linkly-cli/internal/api"
)

type searchCall struct {
	keyword    string
	categoryID *int64
}

// fakeClient records calls and answers from overridable hooks.
type fakeClient struct {
	mu sync.Mutex

	bookmarks []api.Bookmark
	listErr   error
	health    []api.HealthResult
	healthErr error

	healthFn  func(ctx context.Context) ([]api.HealthResult, error)
	searchFn  func(ctx context.Context, keyword string, categoryID *int64) ([]api.Bookmark, error)
	deleteFn  func(id int64) error
	checkFn   func(ctx context.Context, id int64) (*api.HealthResult, error)
	metaFn    func(ctx context.Context, pageURL string) (*api.URLMetadata, error)
	suggestFn func(ctx context.Context, input api.SuggestCategoryInput) (*api.CategorySuggestion, error)

	categories []api.Category

	listCalls    int
	healthCalls  int
	searches     []searchCall
	deletes      []int64
	metaCalls    []string
	suggestCalls []api.SuggestCategoryInput
	created      []api.CreateBookmarkInput
	updated      map[int64]api.UpdateBookmarkInput
}

var _ Client = (*fakeClient)(nil)

func (f *fakeClient) ListBookmarks(ctx context.Context) ([]api.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]api.Bookmark(nil), f.bookmarks...), nil
}

func (f *fakeClient) SearchBookmarks(ctx context.Context, keyword string, categoryID *int64) ([]api.Bookmark, error) {
	f.mu.Lock()
	f.searches = append(f.searches, searchCall{keyword: keyword, categoryID: copyID(categoryID)})
	fn := f.searchFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, keyword, categoryID)
	}
	return nil, nil
}

func (f *fakeClient) DeleteBookmark(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.deleteFn != nil {
		return f.deleteFn(id)
	}
	return nil
}

func (f *fakeClient) LatestHealth(ctx context.Context) ([]api.HealthResult, error) {
	f.mu.Lock()
	f.healthCalls++
	fn := f.healthFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return append([]api.HealthResult(nil), f.health...), nil
}

func (f *fakeClient) CheckNow(ctx context.Context, id int64) (*api.HealthResult, error) {
	f.mu.Lock()
	fn := f.checkFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return &api.HealthResult{BookmarkID: id, Status: api.StatusHealthy}, nil
}

func (f *fakeClient) FetchMetadata(ctx context.Context, pageURL string) (*api.URLMetadata, error) {
	f.mu.Lock()
	f.metaCalls = append(f.metaCalls, pageURL)
	fn := f.metaFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, pageURL)
	}
	return &api.URLMetadata{}, nil
}

func (f *fakeClient) SuggestCategory(ctx context.Context, input api.SuggestCategoryInput) (*api.CategorySuggestion, error) {
	f.mu.Lock()
	f.suggestCalls = append(f.suggestCalls, input)
	fn := f.suggestFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, input)
	}
	return &api.CategorySuggestion{}, nil
}

func (f *fakeClient) CreateBookmark(ctx context.Context, input api.CreateBookmarkInput) (*api.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, input)
	return &api.Bookmark{ID: int64(100 + len(f.created)), URL: input.URL, Title: input.Title, CategoryID: input.CategoryID, Tags: input.Tags}, nil
}

func (f *fakeClient) UpdateBookmark(ctx context.Context, id int64, input api.UpdateBookmarkInput) (*api.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = make(map[int64]api.UpdateBookmarkInput)
	}
	f.updated[id] = input
	return &api.Bookmark{ID: id, URL: input.URL, Title: input.Title, CategoryID: input.CategoryID, Tags: input.Tags}, nil
}

func (f *fakeClient) ListCategories(ctx context.Context) ([]api.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Category(nil), f.categories...), nil
}

func (f *fakeClient) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeClient) healthCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthCalls
}

func (f *fakeClient) searchCalls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.searches...)
}

func (f *fakeClient) deleteCalls() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.deletes...)
}

func (f *fakeClient) metadataCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.metaCalls...)
}

func (f *fakeClient) suggestionCalls() []api.SuggestCategoryInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.SuggestCategoryInput(nil), f.suggestCalls...)
}

func idPtr(id int64) *int64 { return &id }

func bookmark(id int64, title string, categoryID *int64) api.Bookmark {
	return api.Bookmark{ID: id, Title: title, URL: "https://example.com/" + title, CategoryID: categoryID}
}

func titles(items []api.Bookmark) []string {
	out := make([]string, 0, len(items))
	for _, b := range items {
		out = append(out, b.Title)
	}
	return out
}

func newTestList(t *testing.T, client *fakeClient) *ListController {
	t.Helper()
	lc := NewListController(client, NewTracker(client), testDelay)
	t.Cleanup(func() {
		lc.Close()
		lc.Wait()
	})
	return lc
}
