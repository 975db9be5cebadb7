// Package session holds the authenticated identity used by the API client.
//
// A Session is created at login (or restored from config), renewed when the
// server issues a fresh token, and cleared at logout. It is otherwise
// read-only and safe for concurrent use.
package session

import (
	"errors"
	"sync"

	"github.com/linkly-app/linkly-cli/internal/api"
	"github.com/linkly-app/linkly-cli/internal/config"
)

// ErrCleared is returned when renewing a session after logout.
var ErrCleared = errors.New("session cleared")

// User identifies the account behind a session.
type User struct {
	ID    int64
	Email string
	Name  string
	Role  string
}

// Session carries the bearer token for outgoing API calls.
type Session struct {
	mu      sync.RWMutex
	token   string
	user    User
	cleared bool
}

var _ api.Credentials = (*Session)(nil)

// New creates a session from an issued token.
func New(token string, user User) *Session {
	return &Session{token: token, user: user}
}

// FromLogin creates a session from a login response.
func FromLogin(resp *api.LoginResponse) *Session {
	if resp == nil {
		return &Session{}
	}
	return New(resp.AccessToken, User{
		ID:    resp.UserID,
		Email: resp.Email,
		Name:  resp.Name,
		Role:  resp.Role,
	})
}

// FromConfig restores a session from persisted config. A nil config yields an
// unauthenticated session.
func FromConfig(cfg *config.Config) *Session {
	if cfg == nil {
		return &Session{}
	}
	return New(cfg.AccessToken, User{
		ID:    cfg.UserID,
		Email: cfg.Email,
		Name:  cfg.Name,
		Role:  cfg.Role,
	})
}

// Token returns the bearer token, or "" when unauthenticated.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserID returns the authenticated user's id, or 0.
func (s *Session) UserID() int64 {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.ID
}

// User returns a copy of the identity.
func (s *Session) User() User {
	if s == nil {
		return User{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the user holds the admin role.
func (s *Session) IsAdmin() bool {
	return s.User().Role == api.RoleAdmin
}

// SetRole records the role once it is known (it is not part of the login response).
func (s *Session) SetRole(role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleared {
		return
	}
	s.user.Role = role
}

// Renew swaps in a fresh token.
func (s *Session) Renew(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleared {
		return ErrCleared
	}
	if token == "" {
		return errors.New("empty token")
	}
	s.token = token
	return nil
}

// Clear drops the token and identity. Subsequent calls go out unauthenticated.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = User{}
	s.cleared = true
}

// Persist copies the session into cfg so the next run can restore it.
func (s *Session) Persist(cfg *config.Config) {
	u := s.User()
	cfg.AccessToken = s.Token()
	cfg.UserID = u.ID
	cfg.Email = u.Email
	cfg.Name = u.Name
	cfg.Role = u.Role
}
