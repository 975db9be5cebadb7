// Package debounce delays actions until their trigger has been quiet for a
// fixed interval. Each key holds at most one pending action; scheduling again
// replaces it.
package debounce

import (
	"sync"
	"time"
)

// Scheduler runs keyed actions after a quiet period. The zero value is not
// usable; call New.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*pendingAction
	gen     uint64
	stopped bool
}

type pendingAction struct {
	timer *time.Timer
	gen   uint64
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{pending: make(map[string]*pendingAction)}
}

// Schedule registers action to run after delay unless key is scheduled or
// cancelled again first. The action runs on its own goroutine. Schedule is a
// no-op after Stop.
func (s *Scheduler) Schedule(key string, delay time.Duration, action func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.pending[key] = &pendingAction{
		gen:   gen,
		timer: time.AfterFunc(delay, func() { s.fire(key, gen, action) }),
	}
}

// fire runs action only if it is still the registration for key. A timer
// whose Stop lost the race with expiry lands here with a stale gen.
func (s *Scheduler) fire(key string, gen uint64, action func()) {
	s.mu.Lock()
	cur, ok := s.pending[key]
	if !ok || cur.gen != gen || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.mu.Unlock()

	action()
}

// Cancel drops the pending action for key without running it.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
		delete(s.pending, key)
	}
}

// Pending reports whether key has an action waiting.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// Stop cancels everything and rejects later Schedule calls.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, key)
	}
	s.stopped = true
}
