package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

type (
	// CategoryType distinguishes income and expense categories.
	CategoryType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID           int64
		FullName     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	Category struct {
		ID     int64
		UserID int64
		Name   string
		Type   CategoryType
	}

	// Transaction is a single income or expense row. Incomes and expenses
	// are structurally identical and live in separate tables; Kind tells
	// them apart in memory.
	Transaction struct {
		ID           int64
		UserID       int64
		CategoryID   int64
		CategoryName string // joined from categories for display
		Amount       Money
		Description  string
		Date         Date
		CreatedAt    time.Time
		UpdatedAt    time.Time
		Kind         CategoryType
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDate          = errors.New("date is required")
	ErrInvalidDate        = errors.New("invalid date")
	ErrCategoryRequired   = errors.New("category is required")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidType        = errors.New("invalid category type")
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrDuplicateCategory  = errors.New("category already exists")
	ErrCategoryInUse      = errors.New("category still in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
)

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrEmptyDate
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// String renders the date back in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrEmptyDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c CategoryType) Validate() error {
	switch c {
	case CategoryIncome, CategoryExpense:
		return nil
	}
	return ErrInvalidType
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return c.Type.Validate()
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if t.CategoryID <= 0 {
		return ErrCategoryRequired
	}
	return nil
}
