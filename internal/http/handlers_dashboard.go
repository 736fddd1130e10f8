package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	typ := core.TransactionType(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ != "" && !typ.Valid() {
		writeError(w, http.StatusBadRequest, core.ErrInvalidType.Error())
		return
	}

	if typ != "" {
		cats := core.CategoriesFor(typ)
		writeJSON(w, http.StatusOK, map[string]any{
			"categories": cats,
			"colors":     colorsFor(cats),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"expense": core.ExpenseCategories,
		"income":  core.IncomeCategories,
		"colors":  colorsFor(append(core.CategoriesFor(core.Expense), core.IncomeCategories...)),
	})
}

func colorsFor(categories []string) map[string]string {
	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		colors[c] = core.CategoryColor(c)
	}
	return colors
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	const key = "summary"
	if summary, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
		return
	}

	txns, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	summary := core.Summarize(txns)
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (s *Server) handleDashboardSeries(w http.ResponseWriter, r *http.Request) {
	months := core.DefaultWindowMonths
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			writeError(w, http.StatusBadRequest, "months must be between 1 and 60")
			return
		}
		months = n
	}

	key := "series:" + strconv.Itoa(months)
	if series, ok := s.seriesCache.Get(key); ok {
		writeJSON(w, http.StatusOK, map[string]any{"series": series})
		return
	}

	txns, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	series := core.MonthlySeries(txns, months, time.Now().UTC())
	s.seriesCache.Set(key, series)
	writeJSON(w, http.StatusOK, map[string]any{"series": series})
}

func (s *Server) handleDashboardBreakdown(w http.ResponseWriter, r *http.Request) {
	typ := core.Expense
	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		typ = core.TransactionType(v)
		if !typ.Valid() {
			writeError(w, http.StatusBadRequest, core.ErrInvalidType.Error())
			return
		}
	}
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month != "" {
		if _, err := core.ParseMonth(month); err != nil {
			writeError(w, http.StatusBadRequest, core.ErrInvalidMonth.Error())
			return
		}
	}

	key := "breakdown:" + string(typ) + ":" + month
	if breakdown, ok := s.breakdownCache.Get(key); ok {
		writeJSON(w, http.StatusOK, map[string]any{"breakdown": breakdown})
		return
	}

	txns, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if month != "" {
		filtered := txns[:0:0]
		for _, t := range txns {
			if !t.Date.IsZero() && core.MonthKey(t.Date.Time) == month {
				filtered = append(filtered, t)
			}
		}
		txns = filtered
	}

	breakdown := core.BreakdownByCategory(txns, typ)
	s.breakdownCache.Set(key, breakdown)
	writeJSON(w, http.StatusOK, map[string]any{"breakdown": breakdown})
}

func (s *Server) handleDashboardComparison(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = core.MonthKey(time.Now().UTC())
	}
	if _, err := core.ParseMonth(month); err != nil {
		writeError(w, http.StatusBadRequest, core.ErrInvalidMonth.Error())
		return
	}

	key := "comparison:" + month
	if rows, ok := s.comparisonCache.Get(key); ok {
		writeJSON(w, http.StatusOK, map[string]any{"comparison": rows, "month": month})
		return
	}

	txns, budgets, err := s.fetchLedger(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	rows := core.CompareBudgetToActual(budgets, txns, month)
	s.comparisonCache.Set(key, rows)
	writeJSON(w, http.StatusOK, map[string]any{"comparison": rows, "month": month})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	txns, budgets, err := s.fetchLedger(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	insights := core.DeriveInsights(txns, budgets, time.Now().UTC())
	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

// fetchLedger loads transactions and budgets concurrently.
func (s *Server) fetchLedger(r *http.Request) ([]core.Transaction, []core.Budget, error) {
	var (
		txns    []core.Transaction
		budgets []core.Budget
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		txns, err = s.store.ListTransactions(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(ctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return txns, budgets, nil
}
