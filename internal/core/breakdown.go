package core

import "sort"

// CategoryBreakdown is one slice of a per-category breakdown.
type CategoryBreakdown struct {
	Category string  `json:"category"`
	Amount   Money   `json:"amount"`
	Share    float64 `json:"share"` // fraction of the filtered total, 0 when the total is 0
	Color    string  `json:"color"`
}

// BreakdownByCategory groups transactions of the given type by category and
// computes each category's share of the filtered total. Results are sorted by
// amount descending; ties keep first-seen category order. An empty filtered
// set yields an empty slice.
func BreakdownByCategory(txns []Transaction, t TransactionType) []CategoryBreakdown {
	totals := map[string]int64{}
	var order []string
	var grand int64

	for _, tx := range txns {
		if tx.Type != t {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] += tx.Amount.Cents
		grand += tx.Amount.Cents
	}

	out := make([]CategoryBreakdown, 0, len(order))
	for _, cat := range order {
		share := 0.0
		if grand > 0 {
			share = float64(totals[cat]) / float64(grand)
		}
		out = append(out, CategoryBreakdown{
			Category: cat,
			Amount:   Money{Cents: totals[cat]},
			Share:    share,
			Color:    CategoryColor(cat),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}
