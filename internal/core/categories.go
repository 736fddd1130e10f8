package core

// Fixed category taxonomy with display colors. The engine never branches on a
// specific category name; these lists exist so the API can serve the taxonomy
// and so breakdowns can carry a stable display color.

const defaultCategoryColor = "#BDC3C7"

var ExpenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Personal Care",
	"Home & Garden",
	"Insurance",
	"Taxes",
	"Gifts & Donations",
	"Business",
	"Other",
}

var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Business",
	"Investments",
	"Rental",
	"Gifts",
	"Refunds",
	"Other",
}

var categoryColors = map[string]string{
	"Food & Dining":     "#FF6B6B",
	"Transportation":    "#4ECDC4",
	"Shopping":          "#45B7D1",
	"Entertainment":     "#96CEB4",
	"Bills & Utilities": "#FFEAA7",
	"Healthcare":        "#DDA0DD",
	"Education":         "#98D8C8",
	"Travel":            "#F7DC6F",
	"Personal Care":     "#BB8FCE",
	"Home & Garden":     "#85C1E9",
	"Insurance":         "#F8C471",
	"Taxes":             "#EC7063",
	"Gifts & Donations": "#58D68D",
	"Business":          "#5DADE2",
	"Other":             "#BDC3C7",

	"Salary":      "#2ECC71",
	"Freelance":   "#3498DB",
	"Investments": "#F39C12",
	"Rental":      "#9B59B6",
	"Gifts":       "#1ABC9C",
	"Refunds":     "#34495E",
}

// CategoryColor returns the display color for a category, falling back to a
// neutral grey for unknown names.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultCategoryColor
}

// CategoriesFor returns the taxonomy list for a transaction type. The
// returned slice is a copy; the taxonomy itself is never mutated at runtime.
func CategoriesFor(t TransactionType) []string {
	var src []string
	switch t {
	case Income:
		src = IncomeCategories
	case Expense:
		src = ExpenseCategories
	default:
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
