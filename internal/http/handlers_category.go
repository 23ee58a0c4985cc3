package http

import (
	"errors"
	"net/http"

	"conti/internal/core"
	"conti/internal/log"
	"conti/internal/validate"
)

type categoryItem struct {
	core.Category
	Stock bool
}

type categoryPage struct {
	Income  []categoryItem
	Expense []categoryItem
}

func (s *Server) handleCategoryIndex(w http.ResponseWriter, r *http.Request, _ []string) {
	ctx := r.Context()
	sess := s.currentSession(r)

	cats, err := s.store.Categories.ListByUser(ctx, sess.UserID)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Category list failed",
			log.FieldError, err, log.FieldUserID, sess.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var data categoryPage
	for _, c := range cats {
		item := categoryItem{Category: c, Stock: core.IsDefaultCategory(c.Type, c.Name)}
		if c.Type == core.CategoryIncome {
			data.Income = append(data.Income, item)
		} else {
			data.Expense = append(data.Expense, item)
		}
	}

	s.render(w, r, "categories.html", s.view(sess, "Categories", data))
}

func (s *Server) handleCategoryStore(w http.ResponseWriter, r *http.Request, _ []string) {
	ctx := r.Context()
	sess := s.currentSession(r)

	name := validate.Sanitize(r.PostFormValue("name"))
	kind := core.CategoryType(r.PostFormValue("type"))

	fieldErrs := validate.Fields(
		map[string]string{"name": name},
		map[string]string{"name": "required|min:2"},
	)
	if kind.Validate() != nil {
		fieldErrs["type"] = "Choose income or expense."
	}

	if len(fieldErrs) == 0 {
		_, err := s.store.Categories.Create(ctx, sess.UserID, name, kind)
		switch {
		case errors.Is(err, core.ErrDuplicateCategory):
			fieldErrs["name"] = "You already have that category."
		case err != nil:
			log.FromContext(ctx).ErrorContext(ctx, "Category create failed",
				log.FieldError, err, log.FieldUserID, sess.UserID)
			sess.PutFlash("error", "Something went wrong. Please try again.")
			http.Redirect(w, r, "/category/index", http.StatusSeeOther)
			return
		default:
			sess.PutFlash("success", "Category added.")
			http.Redirect(w, r, "/category/index", http.StatusSeeOther)
			return
		}
	}

	sess.PutFlash("errors", fieldErrs)
	sess.PutFlash("old", map[string]string{"name": name, "type": string(kind)})
	http.Redirect(w, r, "/category/index", http.StatusSeeOther)
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request, args []string) {
	ctx := r.Context()
	sess := s.currentSession(r)

	id, ok := pathID(args)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := s.store.Categories.Delete(ctx, sess.UserID, id)
	switch {
	case errors.Is(err, core.ErrCategoryInUse):
		sess.PutFlash("error", "That category still has transactions.")
	case errors.Is(err, core.ErrNotFound):
		sess.PutFlash("error", "Category not found.")
	case err != nil:
		log.FromContext(ctx).ErrorContext(ctx, "Category delete failed",
			log.FieldError, err, log.FieldRecordID, id)
		sess.PutFlash("error", "Something went wrong. Please try again.")
	default:
		sess.PutFlash("success", "Category deleted.")
	}
	http.Redirect(w, r, "/category/index", http.StatusSeeOther)
}
