package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

type fakeAppender struct {
	rows [][]any
	err  error
}

func (f *fakeAppender) AppendRow(_ context.Context, values []any) error {
	f.rows = append(f.rows, values)
	return f.err
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := st.CreateTransaction(ctx, core.Transaction{
		Amount:      core.Money{Cents: 12000},
		Description: "flights",
		Date:        core.NewDate(now.Year(), int(now.Month()), 5),
		Type:        core.Expense,
		Category:    "Travel",
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	_, err = st.CreateBudget(ctx, core.Budget{
		Category: "Travel",
		Amount:   core.Money{Cents: 10000},
		Month:    core.MonthKey(now),
	})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	return st
}

func TestHandleChangeRebuildsReport(t *testing.T) {
	w := NewReportWorker(seedStore(t), nil)

	msg := amqp.NewChangeMessage("transaction", "created", 1, "")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("handle change: %v", err)
	}

	report := w.Latest()
	if report == nil {
		t.Fatal("expected report")
	}
	if report.Month != core.MonthKey(time.Now().UTC()) {
		t.Fatalf("month = %q", report.Month)
	}
	if report.Summary.TotalExpense.Cents != 12000 {
		t.Fatalf("total expense = %d", report.Summary.TotalExpense.Cents)
	}
	if len(report.Comparison) != 1 || report.Comparison[0].Delta.Cents != -2000 {
		t.Fatalf("comparison = %+v", report.Comparison)
	}
	if len(report.Insights) == 0 || report.Insights[0].Title != "Over Budget: Travel" {
		t.Fatalf("insights = %+v", report.Insights)
	}
}

func TestRebuildExportsRow(t *testing.T) {
	app := &fakeAppender{}
	w := NewReportWorker(seedStore(t), app)

	if err := w.RebuildCurrentMonth(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(app.rows) != 1 {
		t.Fatalf("rows = %d", len(app.rows))
	}
	row := app.rows[0]
	if len(row) != 8 {
		t.Fatalf("row = %v", row)
	}
	if row[1] != core.MonthKey(time.Now().UTC()) {
		t.Fatalf("month cell = %v", row[1])
	}
	if row[6] != 1 {
		t.Fatalf("over-budget cell = %v", row[6])
	}
}

func TestExportFailureDoesNotFailRebuild(t *testing.T) {
	app := &fakeAppender{err: errors.New("sheets down")}
	w := NewReportWorker(seedStore(t), app)

	if err := w.RebuildCurrentMonth(context.Background()); err != nil {
		t.Fatalf("rebuild should survive export failure: %v", err)
	}
	if w.Latest() == nil {
		t.Fatal("expected report despite export failure")
	}
}

func TestEmptyLedgerStillBuildsReport(t *testing.T) {
	w := NewReportWorker(memory.New(), nil)

	if err := w.RebuildCurrentMonth(context.Background()); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	report := w.Latest()
	if report.Summary.TransactionCount != 0 {
		t.Fatalf("count = %d", report.Summary.TransactionCount)
	}
	if len(report.Insights) != 1 || report.Insights[0].Title != "Getting Started" {
		t.Fatalf("insights = %+v", report.Insights)
	}
}
