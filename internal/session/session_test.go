package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/config"
)

func TestSessionLifecycle(t *testing.T) {
	s := FromLogin(&api.LoginResponse{AccessToken: "jwt-1", UserID: 3, Email: "a@example.com", Name: "A"})
	assert.True(t, s.Authenticated())
	assert.Equal(t, int64(3), s.UserID())
	assert.False(t, s.IsAdmin())

	s.SetRole(api.RoleAdmin)
	assert.True(t, s.IsAdmin())

	require.NoError(t, s.Renew("jwt-2"))
	assert.Equal(t, "jwt-2", s.Token())
	assert.Error(t, s.Renew(""))

	s.Clear()
	assert.False(t, s.Authenticated())
	assert.Equal(t, int64(0), s.UserID())
	assert.ErrorIs(t, s.Renew("jwt-3"), ErrCleared)
	s.SetRole(api.RoleAdmin)
	assert.False(t, s.IsAdmin())
}

func TestNilSessionIsUnauthenticated(t *testing.T) {
	var s *Session
	assert.Equal(t, "", s.Token())
	assert.Equal(t, int64(0), s.UserID())
	assert.False(t, s.Authenticated())
}

func TestPersistAndRestore(t *testing.T) {
	s := New("jwt-1", User{ID: 9, Email: "e@example.com", Name: "E", Role: api.RoleUser})
	cfg := &config.Config{BaseURL: "http://x"}
	s.Persist(cfg)

	restored := FromConfig(cfg)
	assert.Equal(t, s.Token(), restored.Token())
	assert.Equal(t, s.User(), restored.User())
	assert.False(t, FromConfig(nil).Authenticated())
}

func TestClientReadsRenewedToken(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	t.Cleanup(srv.Close)

	s := New("jwt-1", User{ID: 1})
	client := api.NewClient(srv.URL, s)

	_, err := client.ListCategories(t.Context())
	require.NoError(t, err)
	require.NoError(t, s.Renew("jwt-2"))
	_, err = client.ListCategories(t.Context())
	require.NoError(t, err)
	s.Clear()
	_, err = client.ListCategories(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer jwt-1", "Bearer jwt-2", ""}, seen)
}
