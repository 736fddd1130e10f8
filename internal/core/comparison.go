package core

import "sort"

// BudgetComparison pairs one month's budget with the actual spend in that
// category.
type BudgetComparison struct {
	Category    string  `json:"category"`
	Budgeted    Money   `json:"budgeted"`
	Actual      Money   `json:"actual"`
	Delta       Money   `json:"delta"`       // budgeted - actual, negative when over
	PercentUsed float64 `json:"percentUsed"` // actual/budgeted*100, 0 when actual is 0
}

// CompareBudgetToActual builds budget-vs-actual rows for the given YYYY-MM
// month. The comparison is budget-centric: expense transactions with no
// matching budget category contribute to no row. Results are sorted by
// budgeted amount descending; ties keep budget input order. A malformed month
// key yields no rows.
func CompareBudgetToActual(budgets []Budget, txns []Transaction, month string) []BudgetComparison {
	anchor, err := ParseMonth(month)
	if err != nil {
		return []BudgetComparison{}
	}
	key := MonthKey(anchor)

	actuals := map[string]int64{}
	for _, t := range txns {
		if t.Type != Expense || t.Date.IsZero() {
			continue
		}
		if MonthKey(t.Date.Time) != key {
			continue
		}
		actuals[t.Category] += t.Amount.Cents
	}

	out := make([]BudgetComparison, 0, len(budgets))
	for _, b := range budgets {
		if b.Month != key {
			continue
		}
		actual := actuals[b.Category]
		percent := 0.0
		if b.Amount.Cents > 0 && actual > 0 {
			percent = float64(actual) / float64(b.Amount.Cents) * 100
		}
		out = append(out, BudgetComparison{
			Category:    b.Category,
			Budgeted:    b.Amount,
			Actual:      Money{Cents: actual},
			Delta:       Money{Cents: b.Amount.Cents - actual},
			PercentUsed: percent,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Budgeted.Cents > out[j].Budgeted.Cents
	})
	return out
}
