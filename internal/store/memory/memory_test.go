package memory

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func tx(cents int64, category string, date core.Date) core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: cents},
		Description: "entry",
		Date:        date,
		Type:        core.Expense,
		Category:    category,
	}
}

func TestTransactionLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateTransaction(ctx, tx(1000, "Other", core.NewDate(2024, 6, 1)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("created = %+v", created)
	}

	got, err := s.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount.Cents != 1000 {
		t.Fatalf("amount = %d", got.Amount.Cents)
	}

	got.Category = "Shopping"
	updated, err := s.UpdateTransaction(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Category != "Shopping" {
		t.Fatalf("category = %q", updated.Category)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must preserve CreatedAt")
	}

	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestListTransactionsNewestDateFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, d := range []core.Date{
		core.NewDate(2024, 6, 1),
		core.NewDate(2024, 6, 20),
		core.NewDate(2024, 5, 15),
	} {
		if _, err := s.CreateTransaction(ctx, tx(1000, "Other", d)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2024-06-20", "2024-06-01", "2024-05-15"}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i, w := range want {
		if got[i].Date.Format("2006-01-02") != w {
			t.Fatalf("position %d = %s, want %s", i, got[i].Date.Format("2006-01-02"), w)
		}
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	s := New()
	bad := tx(0, "Other", core.NewDate(2024, 6, 1))
	if _, err := s.CreateTransaction(context.Background(), bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v", err)
	}
}

func TestBudgetUniquePerCategoryMonth(t *testing.T) {
	s := New()
	ctx := context.Background()

	b := core.Budget{Category: "Travel", Amount: core.Money{Cents: 50000}, Month: "2024-06"}
	first, err := s.CreateBudget(ctx, b)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.CreateBudget(ctx, b); !errors.Is(err, store.ErrDuplicateBudget) {
		t.Fatalf("err = %v", err)
	}

	// Same category in another month is fine.
	b.Month = "2024-07"
	second, err := s.CreateBudget(ctx, b)
	if err != nil {
		t.Fatalf("create other month: %v", err)
	}

	// Updating the second onto the first's slot collides.
	second.Month = "2024-06"
	if _, err := s.UpdateBudget(ctx, second); !errors.Is(err, store.ErrDuplicateBudget) {
		t.Fatalf("err = %v", err)
	}

	// Updating a budget in place does not collide with itself.
	first.Amount = core.Money{Cents: 60000}
	if _, err := s.UpdateBudget(ctx, first); err != nil {
		t.Fatalf("update in place: %v", err)
	}
}

func TestListBudgetsFilterAndOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, b := range []core.Budget{
		{Category: "Travel", Amount: core.Money{Cents: 100}, Month: "2024-06"},
		{Category: "Food & Dining", Amount: core.Money{Cents: 100}, Month: "2024-06"},
		{Category: "Travel", Amount: core.Money{Cents: 100}, Month: "2024-07"},
	} {
		if _, err := s.CreateBudget(ctx, b); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := s.ListBudgets(ctx, "2024-06")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Category != "Food & Dining" || got[1].Category != "Travel" {
		t.Fatalf("order = %q, %q", got[0].Category, got[1].Category)
	}

	all, err := s.ListBudgets(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d", len(all))
	}
}
