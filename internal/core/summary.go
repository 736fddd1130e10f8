package core

import "sort"

// CategoryAmount is an amount aggregated under one category name.
type CategoryAmount struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// DashboardSummary is the headline view over the full transaction list.
type DashboardSummary struct {
	TotalIncome        Money           `json:"totalIncome"`
	TotalExpense       Money           `json:"totalExpense"`
	Net                Money           `json:"net"`
	TransactionCount   int             `json:"transactionCount"`
	TopExpenseCategory *CategoryAmount `json:"topExpenseCategory"`
	RecentTransactions []Transaction   `json:"recentTransactions"`
}

// Summarize computes the dashboard summary over a snapshot of transactions.
// TopExpenseCategory is the largest expense category by summed amount; ties
// go to the category seen first in input order. RecentTransactions are the
// newest 5 by CreatedAt, ties keeping input order.
func Summarize(txns []Transaction) DashboardSummary {
	var income, expense int64
	byCategory := map[string]int64{}
	var order []string

	for _, t := range txns {
		switch t.Type {
		case Income:
			income += t.Amount.Cents
		case Expense:
			expense += t.Amount.Cents
			if _, seen := byCategory[t.Category]; !seen {
				order = append(order, t.Category)
			}
			byCategory[t.Category] += t.Amount.Cents
		}
	}

	var top *CategoryAmount
	for _, cat := range order {
		if top == nil || byCategory[cat] > top.Amount.Cents {
			top = &CategoryAmount{Category: cat, Amount: Money{Cents: byCategory[cat]}}
		}
	}

	recent := make([]Transaction, len(txns))
	copy(recent, txns)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	if recent == nil {
		recent = []Transaction{}
	}

	return DashboardSummary{
		TotalIncome:        Money{Cents: income},
		TotalExpense:       Money{Cents: expense},
		Net:                Money{Cents: income - expense},
		TransactionCount:   len(txns),
		TopExpenseCategory: top,
		RecentTransactions: recent,
	}
}
