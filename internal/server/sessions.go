// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/interview"
)

// sessionRegistry holds interview sessions in memory, keyed by session ID.
// Completed sessions stay registered so status reads and repeated end calls
// keep working; only final reports outlive the process.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*interview.Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[uuid.UUID]*interview.Session),
	}
}

// Add registers a session under its ID.
func (r *sessionRegistry) Add(s *interview.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get looks up a session by ID.
func (r *sessionRegistry) Get(id uuid.UUID) (*interview.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len reports the number of registered sessions.
func (r *sessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
