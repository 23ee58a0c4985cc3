package http

import (
	"errors"
	"net/http"

	"conti/internal/auth"
	"conti/internal/core"
	"conti/internal/log"
	"conti/internal/validate"
)

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request, _ []string) {
	sess, err := s.ensureSession(w, r)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if sess.Authenticated() {
		http.Redirect(w, r, "/dashboard/index", http.StatusFound)
		return
	}
	s.render(w, r, "login.html", s.view(sess, "Sign in", nil))
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request, _ []string) {
	sess, err := s.ensureSession(w, r)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if sess.Authenticated() {
		http.Redirect(w, r, "/dashboard/index", http.StatusFound)
		return
	}
	s.render(w, r, "register.html", s.view(sess, "Create account", nil))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ []string) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	sess := s.currentSession(r)

	if !s.loginLimiter.allow(clientIP(r)) {
		logger.WarnContext(ctx, "Login rate limit exceeded", log.FieldClientIP, clientIP(r))
		w.Header().Set("Retry-After", "60")
		http.Error(w, "Too many attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	email := validate.Sanitize(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	fieldErrs := validate.Fields(
		map[string]string{"email": email, "password": password},
		map[string]string{"email": "required|email", "password": "required"},
	)
	if len(fieldErrs) > 0 {
		vd := s.view(sess, "Sign in", nil)
		vd.Errors = fieldErrs
		vd.Old = map[string]string{"email": email}
		s.render(w, r, "login.html", vd)
		return
	}

	user, err := s.store.Users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		logger.ErrorContext(ctx, "Login lookup failed", log.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	// Missing account and wrong password must be indistinguishable.
	if errors.Is(err, core.ErrNotFound) || !auth.CheckPassword(password, user.PasswordHash) {
		logger.WarnContext(ctx, "Login failed", log.FieldClientIP, clientIP(r))
		vd := s.view(sess, "Sign in", nil)
		vd.Error = "Invalid email or password."
		vd.Old = map[string]string{"email": email}
		s.render(w, r, "login.html", vd)
		return
	}

	// Fresh session id on every login.
	oldID := ""
	if sess != nil {
		oldID = sess.ID
	}
	newSess, err := s.sessions.Regenerate(oldID, user.ID, user.FullName, user.Email)
	if err != nil {
		logger.ErrorContext(ctx, "Session create failed", log.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.setSessionCookie(w, newSess.ID)

	logger.InfoContext(ctx, "User logged in", log.FieldUserID, user.ID)
	http.Redirect(w, r, "/dashboard/index", http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, _ []string) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	sess := s.currentSession(r)

	if !s.loginLimiter.allow(clientIP(r)) {
		logger.WarnContext(ctx, "Register rate limit exceeded", log.FieldClientIP, clientIP(r))
		w.Header().Set("Retry-After", "60")
		http.Error(w, "Too many attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	fullName := validate.Sanitize(r.PostFormValue("full_name"))
	email := validate.Sanitize(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm_password")

	fieldErrs := validate.Fields(
		map[string]string{"full_name": fullName, "email": email, "password": password},
		map[string]string{
			"full_name": "required|min:3",
			"email":     "required|email",
			"password":  "required|min:6",
		},
	)
	if password != confirm {
		if _, taken := fieldErrs["confirm_password"]; !taken {
			fieldErrs["confirm_password"] = "Passwords do not match."
		}
	}

	rerender := func() {
		vd := s.view(sess, "Create account", nil)
		vd.Errors = fieldErrs
		vd.Old = map[string]string{"full_name": fullName, "email": email}
		s.render(w, r, "register.html", vd)
	}

	if len(fieldErrs) > 0 {
		rerender()
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.ErrorContext(ctx, "Password hash failed", log.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, err := s.store.Users.Create(ctx, fullName, email, hash)
	if errors.Is(err, core.ErrEmailTaken) {
		fieldErrs["email"] = "Email already registered."
		rerender()
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "User create failed", log.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.store.Categories.SeedDefaults(ctx, user.ID); err != nil {
		// The account exists; defaults can be recreated by hand.
		logger.ErrorContext(ctx, "Seed default categories failed",
			log.FieldError, err, log.FieldUserID, user.ID)
	}

	logger.InfoContext(ctx, "User registered", log.FieldUserID, user.ID)

	if sess != nil {
		sess.PutFlash("success", "Registration successful. Please sign in.")
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ []string) {
	if sess := s.currentSession(r); sess != nil {
		s.sessions.Destroy(sess.ID)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/auth/login", http.StatusFound)
}
