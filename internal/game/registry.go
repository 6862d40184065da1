package game

import (
	"sync"

	"trivia-skill/internal/domain"
)

// SessionRegistry owns the set of live sessions and mediates all access to
// them. Insert and Remove are the only operations that take the registry
// exclusively; With combines the registry's shared lock with the target
// session's own exclusive lock, so unrelated groups never block each other.
type SessionRegistry interface {
	Insert(key domain.GroupKey, s *Session) error
	With(key domain.GroupKey, fn func(*Session) error) error
	Remove(key domain.GroupKey) error
	Exists(key domain.GroupKey) bool
}

// Registry is the in-memory SessionRegistry.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.GroupKey]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.GroupKey]*Session)}
}

func (r *Registry) Insert(key domain.GroupKey, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[key]; ok {
		return domain.ErrGameAlreadyStarted
	}
	r.sessions[key] = s
	return nil
}

// With runs fn against the session for key while holding the registry's
// shared lock and the session's exclusive lock, guaranteeing at most one
// concurrent mutator per session.
func (r *Registry) With(key domain.GroupKey, fn func(*Session) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[key]
	if !ok {
		return domain.ErrGameNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (r *Registry) Remove(key domain.GroupKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[key]; !ok {
		return domain.ErrGameNotFound
	}
	delete(r.sessions, key)
	return nil
}

func (r *Registry) Exists(key domain.GroupKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[key]
	return ok
}
