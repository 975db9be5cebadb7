package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/session"
	"github.com/linkly-app/linkly-cli/internal/workspace"
)

const testDelay = 20 * time.Millisecond

// stubServer fakes the endpoints the TUI talks to and records what it saw.
type stubServer struct {
	mu         sync.Mutex
	bookmarks  []map[string]any
	search     []map[string]any
	health     []map[string]any
	categories []map[string]any
	users      []map[string]any
	metadata   map[string]any
	suggestion string
	checkGate  chan struct{}
	checkWith  map[string]any
	failList   bool

	searches []string
	requests []string
	bodies   map[string]map[string]any
}

func newStubServer() *stubServer {
	return &stubServer{bodies: map[string]map[string]any{}}
}

func (s *stubServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		var body map[string]any
		if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, route)
		if body != nil {
			s.bodies[route] = body
		}
		s.mu.Unlock()

		switch {
		case route == "GET /health":
			writeData(w, map[string]any{"status": "UP"})
		case route == "GET /bookmarks" && s.failList:
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": map[string]any{"message": "database down"}})
		case route == "GET /bookmarks":
			writeData(w, s.snapshot(&s.bookmarks))
		case route == "GET /bookmarks/search":
			s.mu.Lock()
			s.searches = append(s.searches, r.URL.Query().Get("keyword"))
			s.mu.Unlock()
			writeData(w, s.snapshot(&s.search))
		case route == "GET /link-health":
			writeData(w, s.snapshot(&s.health))
		case strings.HasPrefix(route, "POST /link-health/"):
			if s.checkGate != nil {
				<-s.checkGate
			}
			writeData(w, s.checkWith)
		case route == "GET /bookmarks/metadata":
			writeData(w, s.metadata)
		case route == "POST /bookmarks/suggest-category":
			writeData(w, map[string]any{"suggestedCategory": s.suggestion})
		case route == "POST /bookmarks":
			body["id"] = 99
			writeData(w, body)
		case strings.HasPrefix(route, "PUT /bookmarks/"):
			body["id"] = 1
			writeData(w, body)
		case strings.HasPrefix(route, "DELETE /bookmarks/"):
			writeData(w, nil)
		case route == "GET /categories":
			writeData(w, s.snapshot(&s.categories))
		case route == "POST /categories":
			body["id"] = 50
			writeData(w, body)
		case strings.HasPrefix(route, "PUT /categories/"):
			body["id"] = 1
			writeData(w, body)
		case strings.HasPrefix(route, "DELETE /categories/"):
			writeData(w, nil)
		case route == "GET /users":
			writeData(w, s.snapshot(&s.users))
		case route == "POST /users":
			writeData(w, map[string]any{"id": 9, "email": body["email"], "name": body["name"], "role": "USER"})
		case strings.HasPrefix(route, "PUT /users/"):
			writeData(w, map[string]any{"id": 8, "email": "grace@example.com", "name": body["name"], "role": "USER"})
		case strings.HasPrefix(route, "PATCH /users/"):
			writeData(w, map[string]any{"id": 8, "email": "grace@example.com", "role": body["role"]})
		case strings.HasPrefix(route, "DELETE /users/"):
			writeData(w, nil)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func (s *stubServer) snapshot(items *[]map[string]any) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *items == nil {
		return []map[string]any{}
	}
	return append([]map[string]any(nil), (*items)...)
}

func (s *stubServer) count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r == route {
			n++
		}
	}
	return n
}

func (s *stubServer) body(route string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[route]
}

func (s *stubServer) searchKeywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.searches...)
}

func writeData(w http.ResponseWriter, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func testClient(t *testing.T, stub *stubServer, role string) (*api.Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	sess := session.New("tok_test", session.User{ID: 7, Email: "ada@example.com", Name: "Ada", Role: role})
	return api.NewClient(srv.URL, sess), sess
}

func testWorkspace(t *testing.T, client *api.Client) *workspace.Workspace {
	t.Helper()
	ws := workspace.New(client, workspace.WithSearchDelay(testDelay), workspace.WithAutofillDelay(testDelay))
	t.Cleanup(ws.Close)
	return ws
}

// pump feeds workspace change notifications into m until done holds.
func pump(t *testing.T, m BookmarksModel, done func(BookmarksModel) bool) BookmarksModel {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !done(m) {
		select {
		case <-m.changes:
			m, _ = m.Update(workspaceChangedMsg{})
		case <-deadline:
			t.Fatalf("timed out waiting for workspace state; last snapshot %+v", m.snap)
		}
	}
	return m
}

func loadedBookmarks(t *testing.T, stub *stubServer) BookmarksModel {
	t.Helper()
	client, _ := testClient(t, stub, api.RoleUser)
	ws := testWorkspace(t, client)
	m := NewBookmarksModel(ws)
	require.NotNil(t, m.Init())
	return pump(t, m, func(m BookmarksModel) bool {
		return m.snap.State == workspace.StateLoaded && len(m.health) == len(stub.health)
	})
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleBookmarks() []map[string]any {
	return []map[string]any{
		{"id": 1, "userId": 7, "categoryId": 1, "url": "https://example.com", "title": "Example", "tags": []string{"docs"}},
		{"id": 2, "userId": 7, "url": "https://go.dev", "title": "Go", "tags": []string{}},
	}
}

func sampleCategories() []map[string]any {
	return []map[string]any{
		{"id": 1, "userId": 7, "name": "Reading"},
		{"id": 3, "userId": 7, "name": "Frontend", "description": "css and friends"},
	}
}
