package app

import (
	"context"
	"sync"

	"campfind/internal/domain"
)

// Session tracks at most one active identity. Transitions happen only through Login and Logout.
type Session struct {
	dir *Directory

	mu      sync.RWMutex
	current *domain.Identity
	pending *domain.Draft
}

func NewSession(dir *Directory) *Session { return &Session{dir: dir} }

// Login authenticates and makes the identity active. On failure the session is unchanged.
func (s *Session) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	id, err := s.dir.Authenticate(ctx, username, password)
	if err != nil {
		return domain.Identity{}, err
	}
	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return id, nil
}

// Register creates an account but does not log it in.
func (s *Session) Register(ctx context.Context, in RegisterInput) (domain.Identity, error) {
	return s.dir.Register(ctx, in)
}

// Logout clears the active identity and any held draft. Safe when already anonymous.
func (s *Session) Logout() {
	s.mu.Lock()
	s.current = nil
	s.pending = nil
	s.mu.Unlock()
}

func (s *Session) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// HoldDraft keeps a draft that could not be submitted for lack of a login.
func (s *Session) HoldDraft(d domain.Draft) {
	s.mu.Lock()
	s.pending = &d
	s.mu.Unlock()
}

// TakePendingDraft returns the held draft once. Re-submitting it is up to the caller.
func (s *Session) TakePendingDraft() (domain.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return domain.Draft{}, false
	}
	d := *s.pending
	s.pending = nil
	return d, true
}
