package core

import (
	"fmt"
	"time"
)

const (
	InsightWarning InsightKind = "warning"
	InsightInfo    InsightKind = "info"
	InsightSuccess InsightKind = "success"
)

// MaxInsights caps the evaluator output after all rules have run.
const MaxInsights = 6

type (
	InsightKind string

	// Insight is one human-readable observation derived from the threshold
	// rules.
	Insight struct {
		Kind        InsightKind `json:"kind"`
		Title       string      `json:"title"`
		Description string      `json:"description"`
		Value       string      `json:"value,omitempty"`
	}
)

// DeriveInsights evaluates the fixed rule set over the current and prior
// calendar month relative to now. Rules run in priority order, none
// short-circuits, and the combined result is truncated to MaxInsights.
// When no rule fires, a single getting-started insight is returned.
func DeriveInsights(txns []Transaction, budgets []Budget, now time.Time) []Insight {
	currentKey := MonthKey(now)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	priorKey := MonthKey(firstOfMonth.AddDate(0, -1, 0))

	current := expensesByCategory(txns, currentKey)
	prior := expensesByCategory(txns, priorKey)

	var currentTotal, priorTotal int64
	for _, cat := range current.order {
		currentTotal += current.cents[cat]
	}
	for _, cat := range prior.order {
		priorTotal += prior.cents[cat]
	}

	var out []Insight

	// Rule 1: budgets exceeded this month.
	for _, b := range budgets {
		if b.Month != currentKey || b.Amount.Cents <= 0 {
			continue
		}
		spent := current.cents[b.Category]
		percent := float64(spent) / float64(b.Amount.Cents) * 100
		if percent > 100 {
			out = append(out, Insight{
				Kind:        InsightWarning,
				Title:       "Over Budget: " + b.Category,
				Description: fmt.Sprintf("You've exceeded your budget by %s", Money{Cents: spent - b.Amount.Cents}),
				Value:       fmt.Sprintf("%.1f%%", percent),
			})
		}
	}

	// Rule 2: budgets in the (80%, 100%] warning band.
	for _, b := range budgets {
		if b.Month != currentKey || b.Amount.Cents <= 0 {
			continue
		}
		spent := current.cents[b.Category]
		percent := float64(spent) / float64(b.Amount.Cents) * 100
		if percent > 80 && percent <= 100 {
			out = append(out, Insight{
				Kind:        InsightWarning,
				Title:       "Budget Warning: " + b.Category,
				Description: fmt.Sprintf("You've used %.1f%% of your budget", percent),
				Value:       fmt.Sprintf("%s left", Money{Cents: b.Amount.Cents - spent}),
			})
		}
	}

	// Rule 3: budgets comfortably on track.
	for _, b := range budgets {
		if b.Month != currentKey || b.Amount.Cents <= 0 {
			continue
		}
		spent := current.cents[b.Category]
		percent := float64(spent) / float64(b.Amount.Cents) * 100
		if percent < 50 {
			out = append(out, Insight{
				Kind:        InsightSuccess,
				Title:       "On Track: " + b.Category,
				Description: "Great job staying within budget!",
				Value:       fmt.Sprintf("%.1f%% used", percent),
			})
		}
	}

	// Rule 4: month-over-month change in total spending. A prior month with
	// zero spend disables the rule entirely.
	if priorTotal > 0 {
		change := float64(currentTotal-priorTotal) / float64(priorTotal) * 100
		if change > 5 || change < -5 {
			delta := currentTotal - priorTotal
			ins := Insight{
				Kind:        InsightSuccess,
				Title:       "Monthly Spending Decreased",
				Description: fmt.Sprintf("Saved %s compared to last month", Money{Cents: -delta}),
				Value:       fmt.Sprintf("%.1f%%", change),
			}
			if change > 0 {
				ins = Insight{
					Kind:        InsightWarning,
					Title:       "Monthly Spending Increased",
					Description: fmt.Sprintf("Spent more %s compared to last month", Money{Cents: delta}),
					Value:       fmt.Sprintf("+%.1f%%", change),
				}
			}
			out = append(out, ins)
		}
	}

	// Rule 5: per-category spikes vs the prior month.
	for _, cat := range current.order {
		prev := prior.cents[cat]
		if prev <= 0 {
			continue
		}
		cur := current.cents[cat]
		change := float64(cur-prev) / float64(prev) * 100
		if change > 50 {
			out = append(out, Insight{
				Kind:        InsightInfo,
				Title:       cat + " Spending Spike",
				Description: fmt.Sprintf("%.1f%% increase from last month", change),
				Value:       fmt.Sprintf("+%s", Money{Cents: cur - prev}),
			})
		}
	}

	// Rule 6: a single category dominating this month's spending.
	if currentTotal > 0 {
		var topCat string
		var topCents int64
		for _, cat := range current.order {
			if current.cents[cat] > topCents {
				topCat, topCents = cat, current.cents[cat]
			}
		}
		if percent := float64(topCents) / float64(currentTotal) * 100; percent > 30 {
			out = append(out, Insight{
				Kind:        InsightInfo,
				Title:       "Top Spending Category",
				Description: fmt.Sprintf("%s accounts for %.1f%% of your monthly expenses", topCat, percent),
				Value:       Money{Cents: topCents}.String(),
			})
		}
	}

	// Fallback when nothing fired.
	if len(out) == 0 {
		out = append(out, Insight{
			Kind:        InsightInfo,
			Title:       "Getting Started",
			Description: "Set up some budgets to get personalized spending insights",
		})
	}

	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

// orderedCents is a category-to-cents map that remembers first-seen order.
type orderedCents struct {
	cents map[string]int64
	order []string
}

func expensesByCategory(txns []Transaction, monthKey string) orderedCents {
	oc := orderedCents{cents: map[string]int64{}}
	for _, t := range txns {
		if t.Type != Expense || t.Date.IsZero() {
			continue
		}
		if MonthKey(t.Date.Time) != monthKey {
			continue
		}
		if _, seen := oc.cents[t.Category]; !seen {
			oc.order = append(oc.order, t.Category)
		}
		oc.cents[t.Category] += t.Amount.Cents
	}
	return oc
}
