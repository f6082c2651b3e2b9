package editor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry manages editing sessions with thread-safe access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates a new session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Open registers a new session and returns it.
func (r *Registry) Open(now time.Time) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New().String()
	s := newSession(id, now)
	r.sessions[id] = s
	return s
}

// Get retrieves a session by ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session. Removing an unknown session is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// RemoveIdle closes and drops every session last touched before cutoff and
// returns their IDs. Sessions are closed outside the registry lock.
func (r *Registry) RemoveIdle(cutoff time.Time) []string {
	r.mu.RLock()
	candidates := make(map[string]*Session, len(r.sessions))
	for id, s := range r.sessions {
		candidates[id] = s
	}
	r.mu.RUnlock()

	var removed []string
	for id, s := range candidates {
		if !s.closeIfIdle(cutoff) {
			continue
		}
		r.mu.Lock()
		if r.sessions[id] == s {
			delete(r.sessions, id)
		}
		r.mu.Unlock()
		removed = append(removed, id)
	}
	return removed
}

// Count returns the number of open sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
