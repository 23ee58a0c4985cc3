package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"conti/internal/core"
	"conti/internal/log"
	"conti/internal/storage"
	"conti/internal/validate"
)

// transactionHandlers serves one route group (expense or income) over
// the matching table gateway. Both groups share the same templates.
type transactionHandlers struct {
	srv   *Server
	group string
	label string
	kind  core.CategoryType
	gw    *storage.Transactions
}

func newTransactionHandlers(srv *Server, group string, gw *storage.Transactions) *transactionHandlers {
	label := "Expense"
	if gw.Kind() == core.CategoryIncome {
		label = "Income"
	}
	return &transactionHandlers{
		srv:   srv,
		group: group,
		label: label,
		kind:  gw.Kind(),
		gw:    gw,
	}
}

func (h *transactionHandlers) indexPath() string {
	return "/" + h.group + "/index"
}

// formCategories lists the categories offered by the entry form. A user
// who deleted every category of this kind gets the stock set back, so
// the form never renders an empty select.
func (h *transactionHandlers) formCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	cats, err := h.srv.store.Categories.ListByUserAndType(ctx, userID, h.kind)
	if err != nil || len(cats) > 0 {
		return cats, err
	}
	return h.srv.store.Categories.EnsureDefaults(ctx, userID, h.kind)
}

type transactionPage struct {
	Group string
	Label string
	Items []core.Transaction
	Total string
}

type transactionFormPage struct {
	Group      string
	Label      string
	Action     string
	Categories []core.Category
	Editing    bool
	ID         int64
}

func (h *transactionHandlers) index(w http.ResponseWriter, r *http.Request, _ []string) {
	ctx := r.Context()
	s := h.srv
	sess := s.currentSession(r)

	items, err := h.gw.ListByUser(ctx, sess.UserID)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Transaction list failed",
			log.FieldError, err, log.FieldKind, string(h.kind), log.FieldUserID, sess.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	total, err := h.gw.TotalByUser(ctx, sess.UserID)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Transaction total failed",
			log.FieldError, err, log.FieldKind, string(h.kind), log.FieldUserID, sess.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := transactionPage{
		Group: h.group,
		Label: h.label,
		Items: items,
		Total: total.String(),
	}
	s.render(w, r, "transactions.html", s.view(sess, h.label+"s", data))
}

func (h *transactionHandlers) create(w http.ResponseWriter, r *http.Request, _ []string) {
	s := h.srv
	sess := s.currentSession(r)

	cats, err := h.formCategories(r.Context(), sess.UserID)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Category list failed",
			log.FieldError, err, log.FieldUserID, sess.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := transactionFormPage{
		Group:      h.group,
		Label:      h.label,
		Action:     "/" + h.group + "/store",
		Categories: cats,
	}
	s.render(w, r, "transaction_form.html", s.view(sess, "New "+h.label, data))
}

func (h *transactionHandlers) store(w http.ResponseWriter, r *http.Request, _ []string) {
	h.save(w, r, 0)
}

func (h *transactionHandlers) edit(w http.ResponseWriter, r *http.Request, args []string) {
	ctx := r.Context()
	s := h.srv
	sess := s.currentSession(r)

	id, ok := pathID(args)
	if !ok {
		http.NotFound(w, r)
		return
	}

	tr, err := h.gw.GetByID(ctx, sess.UserID, id)
	if errors.Is(err, core.ErrNotFound) {
		sess.PutFlash("error", h.label+" not found.")
		http.Redirect(w, r, h.indexPath(), http.StatusSeeOther)
		return
	}
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Transaction load failed",
			log.FieldError, err, log.FieldRecordID, id)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	cats, err := h.formCategories(ctx, sess.UserID)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Category list failed", log.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := transactionFormPage{
		Group:      h.group,
		Label:      h.label,
		Action:     "/" + h.group + "/update/" + strconv.FormatInt(id, 10),
		Categories: cats,
		Editing:    true,
		ID:         id,
	}
	vd := s.view(sess, "Edit "+h.label, data)
	if len(vd.Old) == 0 {
		vd.Old = map[string]string{
			"amount":      tr.Amount.String(),
			"category_id": strconv.FormatInt(tr.CategoryID, 10),
			"description": tr.Description,
			"date":        tr.Date.String(),
		}
	}
	s.render(w, r, "transaction_form.html", vd)
}

func (h *transactionHandlers) update(w http.ResponseWriter, r *http.Request, args []string) {
	id, ok := pathID(args)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.save(w, r, id)
}

// save backs both store (id == 0) and update (id > 0).
func (h *transactionHandlers) save(w http.ResponseWriter, r *http.Request, id int64) {
	ctx := r.Context()
	s := h.srv
	logger := log.FromContext(ctx)
	sess := s.currentSession(r)

	form := validate.SanitizeMap(map[string]string{
		"amount":      r.PostFormValue("amount"),
		"category_id": r.PostFormValue("category_id"),
		"description": r.PostFormValue("description"),
		"date":        r.PostFormValue("date"),
	})
	amountStr := form["amount"]
	categoryStr := form["category_id"]
	description := form["description"]
	dateStr := form["date"]

	fieldErrs := validate.Fields(form,
		map[string]string{
			"amount":      "required",
			"category_id": "required|numeric",
			"date":        "required",
		},
	)

	var cents int64
	if _, bad := fieldErrs["amount"]; !bad {
		var err error
		cents, err = core.ParseDecimalToCents(amountStr)
		if err != nil || cents <= 0 {
			fieldErrs["amount"] = "The amount must be a positive number."
		}
	}

	var date core.Date
	if _, bad := fieldErrs["date"]; !bad {
		var err error
		date, err = core.ParseDate(dateStr)
		if err != nil {
			fieldErrs["date"] = "The date must be a valid date."
		}
	}

	categoryID, _ := strconv.ParseInt(categoryStr, 10, 64)

	if len(fieldErrs) == 0 {
		tr := core.Transaction{
			ID:          id,
			UserID:      sess.UserID,
			CategoryID:  categoryID,
			Amount:      core.Money{Cents: cents},
			Description: description,
			Date:        date,
			Kind:        h.kind,
		}
		if err := tr.Validate(); err != nil {
			field, msg := transactionFieldError(err)
			fieldErrs[field] = msg
		} else if err := h.persist(ctx, tr); err != nil {
			switch {
			case errors.Is(err, core.ErrNotFound):
				sess.PutFlash("error", h.label+" could not be saved: category or record not found.")
				http.Redirect(w, r, h.indexPath(), http.StatusSeeOther)
				return
			case errors.Is(err, core.ErrInvalidType):
				fieldErrs["category_id"] = "Choose a " + strings.ToLower(h.label) + " category."
			default:
				logger.ErrorContext(ctx, "Transaction save failed",
					log.FieldError, err, log.FieldKind, string(h.kind), log.FieldUserID, sess.UserID)
				sess.PutFlash("error", "Something went wrong. Please try again.")
				http.Redirect(w, r, h.indexPath(), http.StatusSeeOther)
				return
			}
		} else {
			verb := "added"
			if id > 0 {
				verb = "updated"
			}
			sess.PutFlash("success", h.label+" "+verb+".")
			http.Redirect(w, r, h.indexPath(), http.StatusSeeOther)
			return
		}
	}

	// Re-render the originating form with errors and the typed input.
	sess.PutFlash("errors", fieldErrs)
	sess.PutFlash("old", form)
	back := "/" + h.group + "/create"
	if id > 0 {
		back = "/" + h.group + "/edit/" + strconv.FormatInt(id, 10)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *transactionHandlers) persist(ctx context.Context, tr core.Transaction) error {
	if tr.ID > 0 {
		return h.gw.Update(ctx, tr)
	}
	saved, err := h.gw.Create(ctx, tr)
	if err != nil {
		return err
	}
	log.FromContext(ctx).InfoContext(ctx, "Transaction saved",
		log.FieldKind, string(h.kind),
		log.FieldUserID, saved.UserID,
		log.FieldAmountCents, saved.Amount.Cents,
		log.FieldCategory, saved.CategoryName,
		log.FieldRecordID, saved.ID)
	return nil
}

func (h *transactionHandlers) delete(w http.ResponseWriter, r *http.Request, args []string) {
	ctx := r.Context()
	s := h.srv
	sess := s.currentSession(r)

	id, ok := pathID(args)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := h.gw.Delete(ctx, sess.UserID, id)
	switch {
	case errors.Is(err, core.ErrNotFound):
		sess.PutFlash("error", h.label+" not found.")
	case err != nil:
		log.FromContext(ctx).ErrorContext(ctx, "Transaction delete failed",
			log.FieldError, err, log.FieldRecordID, id)
		sess.PutFlash("error", "Something went wrong. Please try again.")
	default:
		sess.PutFlash("success", h.label+" deleted.")
	}
	http.Redirect(w, r, h.indexPath(), http.StatusSeeOther)
}

// transactionFieldError maps a validation failure to the form field it
// belongs to and a user-facing message.
func transactionFieldError(err error) (string, string) {
	switch {
	case errors.Is(err, core.ErrCategoryRequired), errors.Is(err, core.ErrInvalidType):
		return "category_id", "Choose a category."
	case errors.Is(err, core.ErrEmptyDate), errors.Is(err, core.ErrInvalidDate):
		return "date", "The date must be a valid date."
	case errors.Is(err, core.ErrDescriptionTooLong):
		return "description", "The description must be at most 200 characters."
	default:
		return "amount", "The amount must be a positive number."
	}
}

// pathID parses the first positional argument as a record id.
func pathID(args []string) (int64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
