package http

import (
	"net/http"

	"conti/internal/core"
	"conti/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, _ []string) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	sess := s.currentSession(r)

	incomeTotal, err := s.store.Incomes.TotalByUser(ctx, sess.UserID)
	if err != nil {
		logger.ErrorContext(ctx, "Income total failed", log.FieldError, err, log.FieldUserID, sess.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	expenseTotal, err := s.store.Expenses.TotalByUser(ctx, sess.UserID)
	if err != nil {
		logger.ErrorContext(ctx, "Expense total failed", log.FieldError, err, log.FieldUserID, sess.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	recentExpenses, err := s.store.Expenses.ListByUser(ctx, sess.UserID)
	if err != nil {
		logger.ErrorContext(ctx, "Expense list failed", log.FieldError, err, log.FieldUserID, sess.UserID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if len(recentExpenses) > 5 {
		recentExpenses = recentExpenses[:5]
	}

	balance := core.Money{Cents: incomeTotal.Cents - expenseTotal.Cents}

	data := struct {
		IncomeTotal    string
		ExpenseTotal   string
		Balance        string
		Negative       bool
		RecentExpenses []core.Transaction
	}{
		IncomeTotal:    incomeTotal.String(),
		ExpenseTotal:   expenseTotal.String(),
		Balance:        balance.String(),
		Negative:       balance.Cents < 0,
		RecentExpenses: recentExpenses,
	}

	s.render(w, r, "dashboard.html", s.view(sess, "Dashboard", data))
}
