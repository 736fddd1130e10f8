package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Amount:      core.Money{Cents: 2550},
		Description: "groceries",
		Date:        core.NewDate(2024, 6, 10),
		Type:        core.Expense,
		Category:    "Food & Dining",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount.Cents != 2550 || got.Description != "groceries" || got.Type != core.Expense {
		t.Fatalf("got = %+v", got)
	}
	if got.Date.Format("2006-01-02") != "2024-06-10" {
		t.Fatalf("date = %v", got.Date)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps = %v, %v", got.CreatedAt, got.UpdatedAt)
	}

	got.Amount = core.Money{Cents: 3000}
	updated, err := repo.UpdateTransaction(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 3000 {
		t.Fatalf("amount = %d", updated.Amount.Cents)
	}

	if err := repo.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListTransactionsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dates := []core.Date{
		core.NewDate(2024, 6, 1),
		core.NewDate(2024, 6, 20),
		core.NewDate(2024, 5, 15),
	}
	for _, d := range dates {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			Amount:      core.Money{Cents: 1000},
			Description: "entry",
			Date:        d,
			Type:        core.Expense,
			Category:    "Other",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2024-06-20", "2024-06-01", "2024-05-15"}
	for i, w := range want {
		if got[i].Date.Format("2006-01-02") != w {
			t.Fatalf("position %d = %s, want %s", i, got[i].Date.Format("2006-01-02"), w)
		}
	}
}

func TestBudgetUniqueConstraint(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := core.Budget{Category: "Travel", Amount: core.Money{Cents: 50000}, Month: "2024-06"}
	if _, err := repo.CreateBudget(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateBudget(ctx, b); !errors.Is(err, store.ErrDuplicateBudget) {
		t.Fatalf("err = %v", err)
	}

	b.Month = "2024-07"
	if _, err := repo.CreateBudget(ctx, b); err != nil {
		t.Fatalf("create other month: %v", err)
	}
}

func TestListBudgetsMonthFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, b := range []core.Budget{
		{Category: "Travel", Amount: core.Money{Cents: 100}, Month: "2024-06"},
		{Category: "Food & Dining", Amount: core.Money{Cents: 100}, Month: "2024-06"},
		{Category: "Travel", Amount: core.Money{Cents: 100}, Month: "2024-07"},
	} {
		if _, err := repo.CreateBudget(ctx, b); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListBudgets(ctx, "2024-06")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Category != "Food & Dining" || got[1].Category != "Travel" {
		t.Fatalf("order = %q, %q", got[0].Category, got[1].Category)
	}
}

func TestDeleteBudgetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.DeleteBudget(context.Background(), 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
