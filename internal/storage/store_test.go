package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"conti/internal/core"
)

type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	user  core.User
	other core.User
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()

	store, err := Open(":memory:")
	s.Require().NoError(err)
	s.store = store

	s.user = s.mustRegister("Ada Lovelace", "ada@example.com")
	s.other = s.mustRegister("Charles Babbage", "charles@example.com")
}

func (s *StoreSuite) TearDownTest() {
	s.store.Close()
}

func (s *StoreSuite) mustRegister(name, email string) core.User {
	u, err := s.store.Users.Create(s.ctx, name, email, "hash")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Categories.SeedDefaults(s.ctx, u.ID))
	return u
}

func (s *StoreSuite) categoryID(userID int64, t core.CategoryType, name string) int64 {
	cats, err := s.store.Categories.ListByUserAndType(s.ctx, userID, t)
	s.Require().NoError(err)
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	s.FailNowf("category not found", "%s/%s", t, name)
	return 0
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) TestCreateUserDuplicateEmail() {
	_, err := s.store.Users.Create(s.ctx, "Someone Else", "ada@example.com", "hash")
	s.ErrorIs(err, core.ErrEmailTaken)
}

func (s *StoreSuite) TestGetUserByEmail() {
	u, err := s.store.Users.GetByEmail(s.ctx, "ada@example.com")
	s.NoError(err)
	s.Equal(s.user.ID, u.ID)
	s.Equal("Ada Lovelace", u.FullName)

	_, err = s.store.Users.GetByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *StoreSuite) TestSeedDefaults() {
	incomes, err := s.store.Categories.ListByUserAndType(s.ctx, s.user.ID, core.CategoryIncome)
	s.NoError(err)
	s.Len(incomes, len(core.DefaultCategories(core.CategoryIncome)))

	expenses, err := s.store.Categories.ListByUserAndType(s.ctx, s.user.ID, core.CategoryExpense)
	s.NoError(err)
	s.Len(expenses, len(core.DefaultCategories(core.CategoryExpense)))
}

func (s *StoreSuite) TestCategoryDuplicate() {
	_, err := s.store.Categories.Create(s.ctx, s.user.ID, "Food", core.CategoryExpense)
	s.ErrorIs(err, core.ErrDuplicateCategory)

	// Same name is fine for a different user or a different type.
	_, err = s.store.Categories.Create(s.ctx, s.user.ID, "Food", core.CategoryIncome)
	s.NoError(err)
}

func (s *StoreSuite) TestCategoryOwnerScoping() {
	catID := s.categoryID(s.user.ID, core.CategoryExpense, "Food")

	_, err := s.store.Categories.GetByID(s.ctx, s.other.ID, catID)
	s.ErrorIs(err, core.ErrNotFound)

	err = s.store.Categories.Delete(s.ctx, s.other.ID, catID)
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *StoreSuite) TestCategoryDeleteInUse() {
	catID := s.categoryID(s.user.ID, core.CategoryExpense, "Food")

	_, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: catID,
		Amount:     core.Money{Cents: 1250},
		Date:       core.NewDate(2026, 8, 1),
	})
	s.Require().NoError(err)

	err = s.store.Categories.Delete(s.ctx, s.user.ID, catID)
	s.ErrorIs(err, core.ErrCategoryInUse)
}

func (s *StoreSuite) TestCreateAndListExpenses() {
	food := s.categoryID(s.user.ID, core.CategoryExpense, "Food")
	rent := s.categoryID(s.user.ID, core.CategoryExpense, "Rent")

	first, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:      s.user.ID,
		CategoryID:  food,
		Amount:      core.Money{Cents: 4250},
		Description: "groceries",
		Date:        core.NewDate(2026, 8, 10),
	})
	s.Require().NoError(err)
	s.Equal("Food", first.CategoryName)
	s.Equal(int64(4250), first.Amount.Cents)

	_, err = s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: rent,
		Amount:     core.Money{Cents: 90000},
		Date:       core.NewDate(2026, 8, 1),
	})
	s.Require().NoError(err)

	second, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: food,
		Amount:     core.Money{Cents: 800},
		Date:       core.NewDate(2026, 8, 10),
	})
	s.Require().NoError(err)

	list, err := s.store.Expenses.ListByUser(s.ctx, s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	// Newest date first, then newest insert within the same day.
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)
	s.Equal("2026-08-01", list[2].Date.String())

	total, err := s.store.Expenses.TotalByUser(s.ctx, s.user.ID)
	s.NoError(err)
	s.Equal(int64(95050), total.Cents)
}

func (s *StoreSuite) TestTotalEmpty() {
	total, err := s.store.Incomes.TotalByUser(s.ctx, s.user.ID)
	s.NoError(err)
	s.Equal(int64(0), total.Cents)
}

func (s *StoreSuite) TestCreateValidatesTransaction() {
	food := s.categoryID(s.user.ID, core.CategoryExpense, "Food")

	_, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: food,
		Amount:     core.Money{Cents: 100},
	})
	s.ErrorIs(err, core.ErrEmptyDate)

	_, err = s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: food,
		Amount:     core.Money{Cents: 0},
		Date:       core.NewDate(2026, 8, 1),
	})
	s.ErrorIs(err, core.ErrInvalidAmount)

	list, err := s.store.Expenses.ListByUser(s.ctx, s.user.ID)
	s.NoError(err)
	s.Empty(list)
}

func (s *StoreSuite) TestUpdateValidatesTransaction() {
	food := s.categoryID(s.user.ID, core.CategoryExpense, "Food")
	tr, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: food,
		Amount:     core.Money{Cents: 1000},
		Date:       core.NewDate(2026, 8, 1),
	})
	s.Require().NoError(err)

	tr.Amount = core.Money{Cents: -500}
	s.ErrorIs(s.store.Expenses.Update(s.ctx, tr), core.ErrInvalidAmount)

	got, err := s.store.Expenses.GetByID(s.ctx, s.user.ID, tr.ID)
	s.Require().NoError(err)
	s.Equal(int64(1000), got.Amount.Cents)
}

func (s *StoreSuite) TestEnsureDefaultsRestoresCatalog() {
	cats, err := s.store.Categories.ListByUserAndType(s.ctx, s.user.ID, core.CategoryExpense)
	s.Require().NoError(err)
	for _, c := range cats {
		s.Require().NoError(s.store.Categories.Delete(s.ctx, s.user.ID, c.ID))
	}

	restored, err := s.store.Categories.EnsureDefaults(s.ctx, s.user.ID, core.CategoryExpense)
	s.Require().NoError(err)
	s.Len(restored, len(core.DefaultCategories(core.CategoryExpense)))

	// Idempotent: a second call leaves the stored set alone.
	again, err := s.store.Categories.EnsureDefaults(s.ctx, s.user.ID, core.CategoryExpense)
	s.Require().NoError(err)
	s.Len(again, len(restored))
}

func (s *StoreSuite) TestCreateRejectsForeignCategory() {
	otherCat := s.categoryID(s.other.ID, core.CategoryExpense, "Food")

	_, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: otherCat,
		Amount:     core.Money{Cents: 100},
		Date:       core.NewDate(2026, 8, 1),
	})
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *StoreSuite) TestCreateRejectsWrongCategoryType() {
	salary := s.categoryID(s.user.ID, core.CategoryIncome, "Salary")

	_, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: salary,
		Amount:     core.Money{Cents: 100},
		Date:       core.NewDate(2026, 8, 1),
	})
	s.ErrorIs(err, core.ErrInvalidType)
}

func (s *StoreSuite) TestUpdateExpense() {
	food := s.categoryID(s.user.ID, core.CategoryExpense, "Food")
	bills := s.categoryID(s.user.ID, core.CategoryExpense, "Bills")

	tr, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: food,
		Amount:     core.Money{Cents: 1000},
		Date:       core.NewDate(2026, 8, 1),
	})
	s.Require().NoError(err)

	tr.CategoryID = bills
	tr.Amount = core.Money{Cents: 2000}
	tr.Description = "electricity"
	s.Require().NoError(s.store.Expenses.Update(s.ctx, tr))

	got, err := s.store.Expenses.GetByID(s.ctx, s.user.ID, tr.ID)
	s.Require().NoError(err)
	s.Equal("Bills", got.CategoryName)
	s.Equal(int64(2000), got.Amount.Cents)
	s.Equal("electricity", got.Description)
}

func (s *StoreSuite) TestUpdateCrossUser() {
	food := s.categoryID(s.user.ID, core.CategoryExpense, "Food")
	tr, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: food,
		Amount:     core.Money{Cents: 1000},
		Date:       core.NewDate(2026, 8, 1),
	})
	s.Require().NoError(err)

	tr.UserID = s.other.ID
	tr.CategoryID = s.categoryID(s.other.ID, core.CategoryExpense, "Food")
	err = s.store.Expenses.Update(s.ctx, tr)
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *StoreSuite) TestDeleteTwice() {
	food := s.categoryID(s.user.ID, core.CategoryExpense, "Food")
	tr, err := s.store.Expenses.Create(s.ctx, core.Transaction{
		UserID:     s.user.ID,
		CategoryID: food,
		Amount:     core.Money{Cents: 1000},
		Date:       core.NewDate(2026, 8, 1),
	})
	s.Require().NoError(err)

	s.NoError(s.store.Expenses.Delete(s.ctx, s.user.ID, tr.ID))
	s.ErrorIs(s.store.Expenses.Delete(s.ctx, s.user.ID, tr.ID), core.ErrNotFound)
}

func TestOpenCreatesSchema(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Users.GetByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, core.ErrNotFound)
}
