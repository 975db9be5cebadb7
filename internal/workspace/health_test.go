package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkly-app/linkly-cli/internal/api"
)

func TestTracker_RefreshAllReplacesSnapshot(t *testing.T) {
	client := &fakeClient{health: []api.HealthResult{
		{BookmarkID: 1, Status: api.StatusHealthy},
		{BookmarkID: 2, Status: api.StatusDead},
	}}
	tracker := NewTracker(client)

	require.NoError(t, tracker.RefreshAll(context.Background()))
	assert.Len(t, tracker.Results(), 2)

	client.mu.Lock()
	client.health = []api.HealthResult{{BookmarkID: 3, Status: api.StatusTimeout}}
	client.mu.Unlock()

	require.NoError(t, tracker.RefreshAll(context.Background()))
	results := tracker.Results()
	require.Len(t, results, 1)
	assert.Equal(t, api.StatusTimeout, results[3].Status)
	_, ok := tracker.Result(1)
	assert.False(t, ok)
}

func TestTracker_RefreshAllFailureKeepsLastKnownGood(t *testing.T) {
	client := &fakeClient{health: []api.HealthResult{{BookmarkID: 1, Status: api.StatusHealthy}}}
	tracker := NewTracker(client)
	require.NoError(t, tracker.RefreshAll(context.Background()))

	client.mu.Lock()
	client.healthErr = &api.NetworkError{Op: "GET /link-health", Err: errors.New("connection refused")}
	client.mu.Unlock()

	err := tracker.RefreshAll(context.Background())
	require.Error(t, err)
	r, ok := tracker.Result(1)
	require.True(t, ok)
	assert.Equal(t, api.StatusHealthy, r.Status)
}

func TestTracker_CheckNowOverwritesPrevious(t *testing.T) {
	client := &fakeClient{
		health: []api.HealthResult{{BookmarkID: 1, Status: api.StatusHealthy}},
		checkFn: func(_ context.Context, id int64) (*api.HealthResult, error) {
			code := 404
			return &api.HealthResult{BookmarkID: id, Status: api.StatusDead, HTTPStatus: &code}, nil
		},
	}
	tracker := NewTracker(client)
	require.NoError(t, tracker.RefreshAll(context.Background()))

	result, err := tracker.CheckNow(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, api.StatusDead, result.Status)

	stored, ok := tracker.Result(1)
	require.True(t, ok)
	assert.Equal(t, api.StatusDead, stored.Status)
	require.NotNil(t, stored.HTTPStatus)
	assert.Equal(t, 404, *stored.HTTPStatus)
	assert.False(t, tracker.InFlight(1))
}

func TestTracker_SlowRefreshKeepsNewerCheck(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{healthFn: func(context.Context) ([]api.HealthResult, error) {
		<-release
		return []api.HealthResult{
			{BookmarkID: 7, Status: api.StatusDead},
			{BookmarkID: 8, Status: api.StatusTimeout},
		}, nil
	}}
	tracker := NewTracker(client)

	done := make(chan error, 1)
	go func() { done <- tracker.RefreshAll(context.Background()) }()
	require.Eventually(t, func() bool { return client.healthCount() == 1 }, time.Second, 5*time.Millisecond)

	result, err := tracker.CheckNow(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, api.StatusHealthy, result.Status)

	close(release)
	require.NoError(t, <-done)

	r, ok := tracker.Result(7)
	require.True(t, ok)
	assert.Equal(t, api.StatusHealthy, r.Status)
	r, ok = tracker.Result(8)
	require.True(t, ok)
	assert.Equal(t, api.StatusTimeout, r.Status)

	// A refresh that starts after the check is authoritative again.
	client.mu.Lock()
	client.healthFn = nil
	client.health = []api.HealthResult{{BookmarkID: 7, Status: api.StatusDead}}
	client.mu.Unlock()
	require.NoError(t, tracker.RefreshAll(context.Background()))
	r, _ = tracker.Result(7)
	assert.Equal(t, api.StatusDead, r.Status)
	assert.Empty(t, tracker.checkSeq)
}

func TestTracker_CheckNowFailureLeavesMapping(t *testing.T) {
	client := &fakeClient{
		health: []api.HealthResult{{BookmarkID: 1, Status: api.StatusHealthy}},
		checkFn: func(context.Context, int64) (*api.HealthResult, error) {
			return nil, &api.RemoteError{StatusCode: 502, Message: "checker unavailable"}
		},
	}
	tracker := NewTracker(client)
	require.NoError(t, tracker.RefreshAll(context.Background()))
	before := tracker.Results()

	_, err := tracker.CheckNow(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, "checker unavailable", api.Message(err))
	assert.Equal(t, before, tracker.Results())
	assert.False(t, tracker.InFlight(1))
	assert.Empty(t, tracker.InFlightIDs())
}

func TestTracker_DuplicateCheckNowStaysInFlightOnce(t *testing.T) {
	gate := make(chan string)
	client := &fakeClient{checkFn: func(_ context.Context, id int64) (*api.HealthResult, error) {
		status := <-gate
		return &api.HealthResult{BookmarkID: id, Status: status}, nil
	}}
	tracker := NewTracker(client)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = tracker.CheckNow(context.Background(), 7)
		}()
	}

	require.Eventually(t, func() bool {
		tracker.mu.Lock()
		defer tracker.mu.Unlock()
		return tracker.inFlight[7] == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, map[int64]struct{}{7: {}}, tracker.InFlightIDs())

	gate <- api.StatusHealthy
	require.Eventually(t, func() bool {
		tracker.mu.Lock()
		defer tracker.mu.Unlock()
		return tracker.inFlight[7] == 1
	}, time.Second, 5*time.Millisecond)
	assert.True(t, tracker.InFlight(7))
	assert.Len(t, tracker.InFlightIDs(), 1)

	gate <- api.StatusDead
	wg.Wait()

	assert.False(t, tracker.InFlight(7))
	assert.Empty(t, tracker.InFlightIDs())
	r, ok := tracker.Result(7)
	require.True(t, ok)
	assert.Equal(t, api.StatusDead, r.Status)
}

func TestTracker_CheckNowFillsMissingBookmarkID(t *testing.T) {
	client := &fakeClient{checkFn: func(context.Context, int64) (*api.HealthResult, error) {
		return &api.HealthResult{Status: api.StatusHealthy}, nil
	}}
	tracker := NewTracker(client)

	_, err := tracker.CheckNow(context.Background(), 4)
	require.NoError(t, err)
	r, ok := tracker.Result(4)
	require.True(t, ok)
	assert.Equal(t, int64(4), r.BookmarkID)
}

func TestStatusLabel(t *testing.T) {
	cases := map[string]string{
		api.StatusHealthy: "healthy",
		api.StatusDead:    "dead",
		api.StatusTimeout: "timeout",
		api.StatusUnknown: "unknown",
		"":                "unchecked",
		"REDIRECT_LOOP":   "REDIRECT_LOOP",
	}
	for in, want := range cases {
		assert.Equal(t, want, StatusLabel(in), in)
	}
}
