package http

import (
	"net/http"

	"conti/internal/log"
	"conti/internal/session"
)

// viewData is the payload every template receives. Flash messages and
// stale form input are popped from the session, so they render once.
type viewData struct {
	Title         string
	Authenticated bool
	UserName      string
	CSRFToken     string
	Success       string
	Error         string
	Errors        map[string]string
	Old           map[string]string
	Data          any
}

// view assembles the common payload for the given session.
func (s *Server) view(sess *session.Session, title string, data any) viewData {
	vd := viewData{
		Title:  title,
		Errors: map[string]string{},
		Old:    map[string]string{},
		Data:   data,
	}
	if sess != nil {
		vd.Authenticated = sess.Authenticated()
		vd.UserName = sess.UserName
		vd.CSRFToken = sess.CSRFToken
		vd.Success = sess.PopString("success")
		vd.Error = sess.PopString("error")
		if errs := sess.PopStringMap("errors"); errs != nil {
			vd.Errors = errs
		}
		if old := sess.PopStringMap("old"); old != nil {
			vd.Old = old
		}
	}
	return vd
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, vd viewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, vd); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
