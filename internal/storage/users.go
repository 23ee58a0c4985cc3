package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"conti/internal/core"
)

// Users is the gateway for the users table.
type Users struct {
	db *sql.DB
}

func (u *Users) Create(ctx context.Context, fullName, email, passwordHash string) (core.User, error) {
	var user core.User

	exists, err := u.EmailExists(ctx, email)
	if err != nil {
		return user, err
	}
	if exists {
		return user, core.ErrEmailTaken
	}

	res, err := u.db.ExecContext(ctx,
		`INSERT INTO users (full_name, email, password_hash) VALUES (?, ?, ?)`,
		fullName, email, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return user, core.ErrEmailTaken
		}
		return user, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return user, fmt.Errorf("user id: %w", err)
	}

	return u.GetByID(ctx, id)
}

func (u *Users) GetByID(ctx context.Context, id int64) (core.User, error) {
	var user core.User
	err := u.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, created_at FROM users WHERE id = ?`, id).
		Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user, core.ErrNotFound
	}
	if err != nil {
		return user, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (u *Users) GetByEmail(ctx context.Context, email string) (core.User, error) {
	var user core.User
	err := u.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user, core.ErrNotFound
	}
	if err != nil {
		return user, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (u *Users) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := u.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}
