package http

import (
	"net/http"
	"time"

	"conti/internal/auth"
	"conti/internal/session"
)

const sessionCookieName = "conti_session"

// currentSession returns the session attached to the request, nil when
// the cookie is missing or stale.
func (s *Server) currentSession(r *http.Request) *session.Session {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	sess, ok := s.sessions.Get(c.Value)
	if !ok {
		return nil
	}
	return sess
}

// ensureSession returns the request's session, creating an anonymous
// one when needed so that login and register forms carry a CSRF token.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if sess := s.currentSession(r); sess != nil {
		return sess, nil
	}
	sess, err := s.sessions.Create(0, "", "")
	if err != nil {
		return nil, err
	}
	s.setSessionCookie(w, sess.ID)
	return sess, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// checkCSRF compares the posted token against the session's in constant
// time. A request without a session always fails.
func (s *Server) checkCSRF(r *http.Request) bool {
	sess := s.currentSession(r)
	if sess == nil {
		return false
	}
	if err := r.ParseForm(); err != nil {
		return false
	}
	return auth.TokensEqual(sess.CSRFToken, r.PostFormValue("csrf_token"))
}
