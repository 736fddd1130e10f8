// Package worker rebuilds the current-month report when the ledger changes
// and optionally pushes a summary row to Google Sheets.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// RowAppender is the slice of the sheets exporter the worker needs. A nil
// appender keeps reports local.
type RowAppender interface {
	AppendRow(ctx context.Context, values []any) error
}

// MonthlyReport is the rebuilt aggregate for one calendar month.
type MonthlyReport struct {
	Month      string
	Summary    core.DashboardSummary
	Comparison []core.BudgetComparison
	Insights   []core.Insight
	BuiltAt    time.Time
}

type ReportWorker struct {
	store    store.Store
	exporter RowAppender

	mu     sync.Mutex
	latest *MonthlyReport
}

func NewReportWorker(st store.Store, exporter RowAppender) *ReportWorker {
	return &ReportWorker{store: st, exporter: exporter}
}

// Latest returns the most recently built report, or nil before the first
// rebuild.
func (w *ReportWorker) Latest() *MonthlyReport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

// HandleChange processes one change message by rebuilding the current-month
// report. Deletes carry no month, so every change triggers a rebuild.
func (w *ReportWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"entity", msg.Entity,
		"action", msg.Action,
		"id", msg.ID)

	return w.RebuildCurrentMonth(ctx)
}

// RebuildCurrentMonth recomputes the report for the month containing now.
func (w *ReportWorker) RebuildCurrentMonth(ctx context.Context) error {
	now := time.Now().UTC()
	report, err := w.buildReport(ctx, now)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.latest = report
	w.mu.Unlock()

	slog.InfoContext(ctx, "Monthly report rebuilt",
		"month", report.Month,
		"transactions", report.Summary.TransactionCount,
		"comparison_rows", len(report.Comparison),
		"insights", len(report.Insights))

	if w.exporter != nil {
		if err := w.exportReport(ctx, report); err != nil {
			slog.ErrorContext(ctx, "Failed to export report", "month", report.Month, "error", err)
			// The rebuild itself succeeded; export retries on the next cycle.
		}
	}

	return nil
}

// Run rebuilds the report on a fixed interval until ctx is done. This is the
// backup path for lost change messages.
func (w *ReportWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.RebuildCurrentMonth(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial report rebuild failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic report rebuild", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.RebuildCurrentMonth(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic report rebuild failed", "error", err)
			}
		}
	}
}

func (w *ReportWorker) buildReport(ctx context.Context, now time.Time) (*MonthlyReport, error) {
	txns, err := w.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	budgets, err := w.store.ListBudgets(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	month := core.MonthKey(now)
	return &MonthlyReport{
		Month:      month,
		Summary:    core.Summarize(txns),
		Comparison: core.CompareBudgetToActual(budgets, txns, month),
		Insights:   core.DeriveInsights(txns, budgets, now),
		BuiltAt:    now,
	}, nil
}

func (w *ReportWorker) exportReport(ctx context.Context, report *MonthlyReport) error {
	overBudget := 0
	for _, row := range report.Comparison {
		if row.Delta.Cents < 0 {
			overBudget++
		}
	}

	topInsight := ""
	if len(report.Insights) > 0 {
		topInsight = report.Insights[0].Title
	}

	return w.exporter.AppendRow(ctx, []any{
		report.BuiltAt.Format(time.RFC3339),
		report.Month,
		report.Summary.TotalIncome.Dollars(),
		report.Summary.TotalExpense.Dollars(),
		report.Summary.Net.Dollars(),
		report.Summary.TransactionCount,
		overBudget,
		topInsight,
	})
}
