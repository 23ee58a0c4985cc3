package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"conti/internal/config"
	"conti/internal/log"
	"conti/internal/session"
	"conti/internal/storage"
	appweb "conti/web"
)

type Server struct {
	http.Server

	templates    *template.Template
	store        *storage.Store
	sessions     *session.Store
	logger       *log.Logger
	loginLimiter *rateLimiter
	secureCookie bool
	routes       routeTable

	expenseHandlers *transactionHandlers
	incomeHandlers  *transactionHandlers

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(cfg *config.Config, store *storage.Store, sessions *session.Store, logger *log.Logger) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    ":" + cfg.Port,
			Handler: mux,
		},
		store:        store,
		sessions:     sessions,
		logger:       logger.WithComponent(log.ComponentHTTP),
		loginLimiter: newRateLimiter(cfg.LoginRateLimit),
		secureCookie: cfg.SecureCookie,
	}
	s.expenseHandlers = newTransactionHandlers(s, "expense", store.Expenses)
	s.incomeHandlers = newTransactionHandlers(s, "income", store.Incomes)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	if err := s.buildRoutes(); err != nil {
		return nil, err
	}

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/", s.withMiddleware(s.route))

	return s, nil
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.loginLimiter != nil {
			s.loginLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds panic recovery, security headers, and request
// logging around the route dispatcher.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), log.LoggerContextKey,
			s.logger.With(log.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				s.logger.ErrorContext(ctx, "Panic recovered",
					log.FieldError, fmt.Sprint(rec),
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				http.Error(rw, "internal server error", http.StatusInternalServerError)
			}

			duration := time.Since(start)
			s.logger.InfoContext(ctx, "Request completed",
				log.FieldRequestID, requestID,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldStatusCode, rw.statusCode,
				log.FieldDuration, duration.Milliseconds(),
				log.FieldClientIP, clientIP)
		}()

		next(rw, r)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Users.EmailExists(r.Context(), "readyz@probe.invalid"); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
