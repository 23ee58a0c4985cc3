package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2024-01-15" {
		t.Errorf("round trip = %q", d.String())
	}

	if _, err := ParseDate(""); !errors.Is(err, ErrEmptyDate) {
		t.Errorf("empty date: got %v, want ErrEmptyDate", err)
	}
	if _, err := ParseDate("15/01/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad format: got %v, want ErrInvalidDate", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		CategoryID: 1,
		Amount:     Money{Cents: 4250},
		Date:       NewDate(2024, 1, 15),
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid transaction rejected: %v", err)
	}

	tests := []struct {
		name string
		mod  func(tx *Transaction)
		want error
	}{
		{"zero amount", func(tx *Transaction) { tx.Amount.Cents = 0 }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -100 }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrEmptyDate},
		{"no category", func(tx *Transaction) { tx.CategoryID = 0 }, ErrCategoryRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mod(&tx)
			err := tx.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCategoryTypeValidate(t *testing.T) {
	if err := CategoryIncome.Validate(); err != nil {
		t.Errorf("income: %v", err)
	}
	if err := CategoryExpense.Validate(); err != nil {
		t.Errorf("expense: %v", err)
	}
	if err := CategoryType("transfer").Validate(); !errors.Is(err, ErrInvalidType) {
		t.Errorf("transfer: got %v, want ErrInvalidType", err)
	}
}

func TestDefaultCategories(t *testing.T) {
	if len(DefaultCategories(CategoryIncome)) == 0 {
		t.Error("no default income categories")
	}
	if len(DefaultCategories(CategoryExpense)) == 0 {
		t.Error("no default expense categories")
	}
	if !IsDefaultCategory(CategoryExpense, "Food") {
		t.Error("Food should be a default expense category")
	}
	if IsDefaultCategory(CategoryIncome, "Food") {
		t.Error("Food should not be a default income category")
	}
}
