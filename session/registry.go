package session

import (
	"strings"
	"sync"
)

// Registry tracks live sessions by the username they logged in with.
type Registry struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewRegistry ...
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// AddSession registers s under username and removes it again once s is closed.
func (r *Registry) AddSession(username string, s *Session) {
	key := strings.ToLower(username)
	r.mu.Lock()
	r.sessions[key] = s
	r.mu.Unlock()

	go func() {
		<-s.Closed()
		r.RemoveSession(username, s)
	}()
}

// GetSession returns the session of username, matched case-insensitively, or nil.
func (r *Registry) GetSession(username string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[strings.ToLower(username)]
}

// RemoveSession removes s from under username. A newer session registered under the same name is
// left in place.
func (r *Registry) RemoveSession(username string, s *Session) {
	key := strings.ToLower(username)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[key] == s {
		delete(r.sessions, key)
	}
}

// GetSessions returns every registered session.
func (r *Registry) GetSessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}
