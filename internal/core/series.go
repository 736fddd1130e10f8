package core

import "time"

// DefaultWindowMonths is the trailing window used by the dashboard chart.
const DefaultWindowMonths = 6

// MonthPoint is one dense bucket of the monthly income/expense series.
type MonthPoint struct {
	Month   string `json:"month"` // canonical YYYY-MM key
	Label   string `json:"label"` // e.g. "Jan 2006"
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
}

// MonthlySeries buckets transactions into exactly windowMonths consecutive
// calendar months ending at the anchor's month, oldest first. Months without
// transactions still appear with zero sums so chart rendering stays dense.
// Transactions with a zero date match no bucket and are skipped.
func MonthlySeries(txns []Transaction, windowMonths int, anchor time.Time) []MonthPoint {
	if windowMonths <= 0 {
		windowMonths = DefaultWindowMonths
	}

	type sums struct{ income, expense int64 }
	byMonth := map[string]*sums{}

	series := make([]MonthPoint, 0, windowMonths)
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(windowMonths - 1), 0)
	for i := 0; i < windowMonths; i++ {
		m := start.AddDate(0, i, 0)
		key := MonthKey(m)
		byMonth[key] = &sums{}
		series = append(series, MonthPoint{Month: key, Label: m.Format("Jan 2006")})
	}

	for _, t := range txns {
		if t.Date.IsZero() {
			continue
		}
		bucket, ok := byMonth[MonthKey(t.Date.Time)]
		if !ok {
			continue
		}
		switch t.Type {
		case Income:
			bucket.income += t.Amount.Cents
		case Expense:
			bucket.expense += t.Amount.Cents
		}
	}

	for i := range series {
		b := byMonth[series[i].Month]
		series[i].Income = Money{Cents: b.income}
		series[i].Expense = Money{Cents: b.expense}
	}
	return series
}
