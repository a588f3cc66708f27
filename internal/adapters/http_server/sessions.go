package httpserver

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"campfind/internal/app"
	"campfind/internal/domain"
)

// Sessions maps an opaque cookie token to its own app.Session, so the single-active-identity
// rule holds per client. Only sessions with state worth keeping (a login or a held draft)
// are stored; anonymous requests get a throwaway session.
type Sessions struct {
	dir    *app.Directory
	cookie string
	secure bool

	mu   sync.Mutex
	byID map[string]*app.Session
}

func NewSessions(dir *app.Directory, cookieName string, secure bool) *Sessions {
	if cookieName == "" {
		cookieName = "campfind_session"
	}
	return &Sessions{dir: dir, cookie: cookieName, secure: secure, byID: map[string]*app.Session{}}
}

// Get returns the caller's stored session, or a fresh unstored one.
func (s *Sessions) Get(r *http.Request) (*app.Session, bool) {
	if c, err := r.Cookie(s.cookie); err == nil && c.Value != "" {
		s.mu.Lock()
		sess, ok := s.byID[c.Value]
		s.mu.Unlock()
		if ok {
			return sess, true
		}
	}
	return app.NewSession(s.dir), false
}

// Keep stores sess under a new token and sets the cookie.
func (s *Sessions) Keep(w http.ResponseWriter, sess *app.Session) {
	token := uuid.NewString()
	s.mu.Lock()
	s.byID[token] = sess
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Drop forgets the caller's session and expires the cookie.
func (s *Sessions) Drop(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(s.cookie)
	if err != nil || c.Value == "" {
		return
	}
	s.mu.Lock()
	delete(s.byID, c.Value)
	s.mu.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Holding returns a session handle that is stored the first time a draft is held on it.
func (s *Sessions) Holding(w http.ResponseWriter, r *http.Request) app.SessionHandle {
	sess, stored := s.Get(r)
	if stored {
		return sess
	}
	return &unstored{Session: sess, keep: func() { s.Keep(w, sess) }}
}

func (s *Sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type unstored struct {
	*app.Session
	keep func()
	once sync.Once
}

func (u *unstored) HoldDraft(d domain.Draft) {
	u.once.Do(u.keep)
	u.Session.HoldDraft(d)
}
