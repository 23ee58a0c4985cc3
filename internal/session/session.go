// Package session implements the server-side session store.
//
// Sessions are ephemeral: they live in process memory keyed by an opaque
// identifier delivered via cookie, with TTL expiry and size-bounded LRU
// eviction. A session is created anonymous (to carry the CSRF token for the
// login and register forms), replaced wholesale on login to prevent
// fixation, and destroyed on logout.
package session

import (
	"sync"
	"time"

	"conti/internal/auth"
)

// Session holds the per-browser state: the authenticated user (zero values
// when anonymous), the anti-forgery token, and one-shot flash data.
//
// User fields and CSRFToken are set once at creation and never mutated;
// only flash access needs the lock.
type Session struct {
	ID        string
	UserID    int64
	UserName  string
	UserEmail string
	CSRFToken string

	mu    sync.Mutex
	flash map[string]any
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s *Session) Authenticated() bool {
	return s.UserID > 0
}

// PutFlash stores a one-shot value shown on the next rendered page.
func (s *Session) PutFlash(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flash == nil {
		s.flash = make(map[string]any)
	}
	s.flash[key] = value
}

// PopFlash removes and returns a one-shot value.
func (s *Session) PopFlash(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.flash[key]
	if ok {
		delete(s.flash, key)
	}
	return v, ok
}

// PopString is PopFlash for string values; missing or mistyped values
// return "".
func (s *Session) PopString(key string) string {
	v, ok := s.PopFlash(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// PopStringMap is PopFlash for map[string]string values (field errors, old
// form input). Missing or mistyped values return nil.
func (s *Session) PopStringMap(key string) map[string]string {
	v, ok := s.PopFlash(key)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]string)
	return m
}

// newSession builds a session with a fresh CSRF token.
func newSession(id string, userID int64, name, email string) (*Session, error) {
	token, err := auth.GenerateCSRFToken()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		UserID:    userID,
		UserName:  name,
		UserEmail: email,
		CSRFToken: token,
		flash:     make(map[string]any),
	}, nil
}

// entry carries the store's expiry bookkeeping for a session.
type entry struct {
	sess      *Session
	expiresAt time.Time
}
