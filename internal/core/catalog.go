package core

// Static category catalog. These names seed the per-user categories table at
// registration time and serve as a fallback when a user has no stored
// categories yet.
var (
	DefaultIncomeCategories = []string{
		"Salary",
		"Bonus",
		"Investment",
		"Freelance",
		"Gift",
		"Other",
	}

	DefaultExpenseCategories = []string{
		"Food",
		"Rent",
		"Transport",
		"Shopping",
		"Entertainment",
		"Bills",
		"Healthcare",
		"Other",
	}
)

// DefaultCategories returns the static catalog for the given type.
func DefaultCategories(t CategoryType) []string {
	switch t {
	case CategoryIncome:
		return DefaultIncomeCategories
	case CategoryExpense:
		return DefaultExpenseCategories
	}
	return nil
}

// IsDefaultCategory reports whether name belongs to the static catalog for
// the given type.
func IsDefaultCategory(t CategoryType, name string) bool {
	for _, n := range DefaultCategories(t) {
		if n == name {
			return true
		}
	}
	return false
}
