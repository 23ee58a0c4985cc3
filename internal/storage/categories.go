package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"conti/internal/core"
)

// Categories is the gateway for the categories table. Every query is
// scoped to the owning user.
type Categories struct {
	db *sql.DB
}

func (c *Categories) Create(ctx context.Context, userID int64, name string, t core.CategoryType) (core.Category, error) {
	var cat core.Category

	res, err := c.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type) VALUES (?, ?, ?)`,
		userID, name, string(t))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return cat, core.ErrDuplicateCategory
		}
		return cat, fmt.Errorf("insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return cat, fmt.Errorf("category id: %w", err)
	}

	return core.Category{ID: id, UserID: userID, Name: name, Type: t}, nil
}

func (c *Categories) GetByID(ctx context.Context, userID, id int64) (core.Category, error) {
	var cat core.Category
	var t string
	err := c.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type FROM categories WHERE id = ? AND user_id = ?`,
		id, userID).
		Scan(&cat.ID, &cat.UserID, &cat.Name, &t)
	if errors.Is(err, sql.ErrNoRows) {
		return cat, core.ErrNotFound
	}
	if err != nil {
		return cat, fmt.Errorf("get category: %w", err)
	}
	cat.Type = core.CategoryType(t)
	return cat, nil
}

func (c *Categories) ListByUser(ctx context.Context, userID int64) ([]core.Category, error) {
	return c.list(ctx,
		`SELECT id, user_id, name, type FROM categories WHERE user_id = ? ORDER BY type, name`,
		userID)
}

func (c *Categories) ListByUserAndType(ctx context.Context, userID int64, t core.CategoryType) ([]core.Category, error) {
	return c.list(ctx,
		`SELECT id, user_id, name, type FROM categories WHERE user_id = ? AND type = ? ORDER BY name`,
		userID, string(t))
}

func (c *Categories) list(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var cat core.Category
		var t string
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &t); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cat.Type = core.CategoryType(t)
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

// Delete removes the category if it belongs to userID and no transaction
// references it. Returns core.ErrNotFound when nothing matched and
// core.ErrCategoryInUse when expenses or incomes still point at it.
func (c *Categories) Delete(ctx context.Context, userID, id int64) error {
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(1) FROM expenses WHERE category_id = ? AND user_id = ?)
		      + (SELECT COUNT(1) FROM incomes  WHERE category_id = ? AND user_id = ?)`,
		id, userID, id, userID).Scan(&n)
	if err != nil {
		return fmt.Errorf("check category usage: %w", err)
	}
	if n > 0 {
		return core.ErrCategoryInUse
	}

	res, err := c.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// EnsureDefaults restores the static catalog of one type for a user who
// has no categories left of it, then returns the stored list. Rows that
// already exist are left alone.
func (c *Categories) EnsureDefaults(ctx context.Context, userID int64, t core.CategoryType) ([]core.Category, error) {
	for _, name := range core.DefaultCategories(t) {
		if _, err := c.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (user_id, name, type) VALUES (?, ?, ?)`,
			userID, name, string(t)); err != nil {
			return nil, fmt.Errorf("restore category %s/%s: %w", t, name, err)
		}
	}
	return c.ListByUserAndType(ctx, userID, t)
}

// SeedDefaults inserts the stock income and expense categories for a
// freshly registered user.
func (c *Categories) SeedDefaults(ctx context.Context, userID int64) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, t := range []core.CategoryType{core.CategoryIncome, core.CategoryExpense} {
		for _, name := range core.DefaultCategories(t) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO categories (user_id, name, type) VALUES (?, ?, ?)`,
				userID, name, string(t)); err != nil {
				return fmt.Errorf("seed category %s/%s: %w", t, name, err)
			}
		}
	}

	return tx.Commit()
}
