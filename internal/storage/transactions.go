package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"conti/internal/core"
)

// Transactions is the gateway for one of the two transaction tables.
// Expenses and incomes share the same schema, so a single gateway is
// parameterized by table name and kind.
type Transactions struct {
	db    *sql.DB
	table string
	kind  core.CategoryType
}

func NewExpenses(db *sql.DB) *Transactions {
	return &Transactions{db: db, table: "expenses", kind: core.CategoryExpense}
}

func NewIncomes(db *sql.DB) *Transactions {
	return &Transactions{db: db, table: "incomes", kind: core.CategoryIncome}
}

func (t *Transactions) Kind() core.CategoryType {
	return t.kind
}

// Create inserts a transaction after validating it and checking the
// category belongs to the same user and has the right type. Returns
// core.ErrNotFound when the category is missing or owned by someone else.
func (t *Transactions) Create(ctx context.Context, tr core.Transaction) (core.Transaction, error) {
	if err := tr.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := t.checkCategory(ctx, tr.UserID, tr.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	res, err := t.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, category_id, amount_cents, description, date)
		             VALUES (?, ?, ?, ?, ?)`, t.table),
		tr.UserID, tr.CategoryID, tr.Amount.Cents, tr.Description, tr.Date.String())
	if err != nil {
		if strings.Contains(err.Error(), "CHECK") {
			return core.Transaction{}, core.ErrInvalidAmount
		}
		return core.Transaction{}, fmt.Errorf("insert %s: %w", t.kind, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%s id: %w", t.kind, err)
	}

	return t.GetByID(ctx, tr.UserID, id)
}

func (t *Transactions) GetByID(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row := t.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT t.id, t.user_id, t.category_id, c.name, t.amount_cents,
		                    t.description, t.date, t.created_at, t.updated_at
		             FROM %s t
		             JOIN categories c ON c.id = t.category_id
		             WHERE t.id = ? AND t.user_id = ?`, t.table),
		id, userID)
	return t.scan(row)
}

// ListByUser returns the user's transactions ordered by date descending,
// newest row first within the same day.
func (t *Transactions) ListByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := t.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT t.id, t.user_id, t.category_id, c.name, t.amount_cents,
		                    t.description, t.date, t.created_at, t.updated_at
		             FROM %s t
		             JOIN categories c ON c.id = t.category_id
		             WHERE t.user_id = ?
		             ORDER BY t.date DESC, t.id DESC`, t.table),
		userID)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", t.kind, err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tr, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of the user's transaction. Returns
// core.ErrNotFound when the row does not exist or belongs to another user.
func (t *Transactions) Update(ctx context.Context, tr core.Transaction) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	if err := t.checkCategory(ctx, tr.UserID, tr.CategoryID); err != nil {
		return err
	}

	res, err := t.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s
		             SET category_id = ?, amount_cents = ?, description = ?, date = ?,
		                 updated_at = CURRENT_TIMESTAMP
		             WHERE id = ? AND user_id = ?`, t.table),
		tr.CategoryID, tr.Amount.Cents, tr.Description, tr.Date.String(), tr.ID, tr.UserID)
	if err != nil {
		if strings.Contains(err.Error(), "CHECK") {
			return core.ErrInvalidAmount
		}
		return fmt.Errorf("update %s: %w", t.kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", t.kind, err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Delete removes the user's transaction. Returns core.ErrNotFound when
// nothing matched, so a repeated delete reports cleanly.
func (t *Transactions) Delete(ctx context.Context, userID, id int64) error {
	res, err := t.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND user_id = ?`, t.table),
		id, userID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.kind, err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// TotalByUser sums the user's transactions, zero when there are none.
func (t *Transactions) TotalByUser(ctx context.Context, userID int64) (core.Money, error) {
	var cents int64
	err := t.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COALESCE(SUM(amount_cents), 0) FROM %s WHERE user_id = ?`, t.table),
		userID).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("total %ss: %w", t.kind, err)
	}
	return core.Money{Cents: cents}, nil
}

func (t *Transactions) checkCategory(ctx context.Context, userID, categoryID int64) error {
	var kind string
	err := t.db.QueryRowContext(ctx,
		`SELECT type FROM categories WHERE id = ? AND user_id = ?`,
		categoryID, userID).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if core.CategoryType(kind) != t.kind {
		return core.ErrInvalidType
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (t *Transactions) scan(row rowScanner) (core.Transaction, error) {
	var tr core.Transaction
	var dateStr string
	err := row.Scan(&tr.ID, &tr.UserID, &tr.CategoryID, &tr.CategoryName,
		&tr.Amount.Cents, &tr.Description, &dateStr, &tr.CreatedAt, &tr.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return tr, core.ErrNotFound
	}
	if err != nil {
		return tr, fmt.Errorf("scan %s: %w", t.kind, err)
	}
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return tr, fmt.Errorf("scan %s date: %w", t.kind, err)
	}
	tr.Date = d
	tr.Kind = t.kind
	return tr, nil
}
