package http

import (
	"fmt"
	"net/http"
	"strings"
)

// handlerFunc receives the positional path arguments that follow the
// group and operation segments.
type handlerFunc func(w http.ResponseWriter, r *http.Request, args []string)

// routeTable maps group → operation → handler. Both lookups are
// case-insensitive; keys must be registered lowercase.
type routeTable map[string]map[string]handlerFunc

// splitRoute resolves a request path into group, operation and args.
// The empty path falls back to dashboard/index; a group without an
// operation gets "index".
func splitRoute(path string) (group, op string, args []string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	group = "dashboard"
	op = "index"

	if len(parts) > 0 && parts[0] != "" {
		group = strings.ToLower(parts[0])
	}
	if len(parts) > 1 && parts[1] != "" {
		op = strings.ToLower(parts[1])
	}
	if len(parts) > 2 {
		args = parts[2:]
	}
	return group, op, args
}

func (s *Server) buildRoutes() error {
	s.routes = routeTable{
		"auth": {
			"login":          s.handleLoginForm,
			"register":       s.handleRegisterForm,
			"handlelogin":    s.postOnly(s.handleLogin, "/auth/login"),
			"handleregister": s.postOnly(s.handleRegister, "/auth/register"),
			"logout":         s.handleLogout,
		},
		"dashboard": {
			"index": s.requireAuth(s.handleDashboard),
		},
		"expense": s.transactionRoutes(s.expenseHandlers),
		"income":  s.transactionRoutes(s.incomeHandlers),
		"category": {
			"index":  s.requireAuth(s.handleCategoryIndex),
			"store":  s.requireAuth(s.postOnly(s.handleCategoryStore, "/category/index")),
			"delete": s.requireAuth(s.postOnly(s.handleCategoryDelete, "/category/index")),
		},
	}

	// The default route must exist or every bare "/" request would 404.
	if _, ok := s.routes["dashboard"]["index"]; !ok {
		return fmt.Errorf("route table missing dashboard/index")
	}
	return nil
}

func (s *Server) transactionRoutes(h *transactionHandlers) map[string]handlerFunc {
	base := "/" + h.group + "/index"
	return map[string]handlerFunc{
		"index":  s.requireAuth(h.index),
		"create": s.requireAuth(h.create),
		"store":  s.requireAuth(s.postOnly(h.store, "/"+h.group+"/create")),
		"edit":   s.requireAuth(h.edit),
		"update": s.requireAuth(s.postOnly(h.update, base)),
		"delete": s.requireAuth(s.postOnly(h.delete, base)),
	}
}

// route dispatches by path segments. Unknown groups and operations get
// a plain 404 rather than falling through to a default page.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	group, op, args := splitRoute(r.URL.Path)

	ops, ok := s.routes[group]
	if !ok {
		http.NotFound(w, r)
		return
	}
	h, ok := ops[op]
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r, args)
}

// requireAuth redirects anonymous visitors to the login page.
func (s *Server) requireAuth(next handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request, args []string) {
		sess := s.currentSession(r)
		if sess == nil || !sess.Authenticated() {
			http.Redirect(w, r, "/auth/login", http.StatusFound)
			return
		}
		next(w, r, args)
	}
}

// postOnly redirects non-POST requests to the given page, then verifies
// the CSRF token before handing off. A bad token aborts with 403 before
// any side effect.
func (s *Server) postOnly(next handlerFunc, getPath string) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request, args []string) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, getPath, http.StatusFound)
			return
		}
		if !s.checkCSRF(r) {
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}
		next(w, r, args)
	}
}
