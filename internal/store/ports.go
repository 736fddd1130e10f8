// Package store defines the persistence ports consumed by the HTTP layer and
// the report worker. Implementations live in store/memory and storage.
package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateBudget reports a violation of the one-budget-per-
	// (category, month) invariant.
	ErrDuplicateBudget = errors.New("budget already exists for this category and month")
)

type (
	TransactionStore interface {
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
		// ListTransactions returns all transactions, newest date first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		GetBudget(ctx context.Context, id int64) (core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, id int64) error
		// ListBudgets returns budgets sorted by category; month filters to a
		// single YYYY-MM key when non-empty.
		ListBudgets(ctx context.Context, month string) ([]core.Budget, error)
	}

	// Store is the full persistence surface.
	Store interface {
		TransactionStore
		BudgetStore
	}
)
