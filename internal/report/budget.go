// Package report computes the derived views over in-memory expense records:
// budget consumption, calendar heatmap buckets, and chart series. Everything
// here is a pure function over a snapshot; no state is carried between calls.
package report

import (
	"fmt"
	"math"
	"time"

	"expensewise/internal/core"
)

// BudgetProgress summarizes consumption of one budget.
type BudgetProgress struct {
	BudgetID        string  `json:"budget_id"`
	Amount          float64 `json:"amount"`
	Spent           float64 `json:"spent"`
	Remaining       float64 `json:"remaining"`  // floored at 0
	Percentage      float64 `json:"percentage"` // capped at 100
	TotalDays       int     `json:"total_days"`
	ElapsedDays     int     `json:"elapsed_days"`
	RemainingDays   int     `json:"remaining_days"`
	AvgSpentPerDay  float64 `json:"avg_spent_per_day"`
	SuggestedPerDay float64 `json:"suggested_per_day"`
	Exceeded        bool    `json:"exceeded"`
	Message         string  `json:"message"`
}

// Progress computes consumption of b from the full expense set as of today.
// Day counts are floored at 1 so the per-day averages never divide by zero.
func Progress(b core.Budget, expenses []core.Expense, today time.Time) (BudgetProgress, error) {
	from, err := core.ParseDate(b.FromDate)
	if err != nil {
		return BudgetProgress{}, fmt.Errorf("budget from date: %w", err)
	}
	to, err := core.ParseDate(b.ToDate)
	if err != nil {
		return BudgetProgress{}, fmt.Errorf("budget to date: %w", err)
	}

	var spent float64
	for _, e := range expenses {
		if core.DateInRange(e.Date, b.FromDate, b.ToDate) {
			spent += e.Amount
		}
	}

	totalDays := core.DaysBetween(from, to)
	if totalDays < 1 {
		totalDays = 1
	}
	elapsed := core.DaysBetween(from, today)
	if elapsed > totalDays {
		elapsed = totalDays
	}
	if elapsed < 1 {
		elapsed = 1
	}
	remainingDays := totalDays - elapsed

	// A zero-amount budget can occur: a legacy record missing the amount is
	// reconciled to the schema default. Any spending against it counts as
	// fully consumed; dividing by it would produce NaN.
	var percentage float64
	if b.Amount > 0 {
		percentage = math.Min(spent/b.Amount*100, 100)
	} else if spent > 0 {
		percentage = 100
	}

	p := BudgetProgress{
		BudgetID:       b.BudgetID,
		Amount:         b.Amount,
		Spent:          round2(spent),
		Remaining:      round2(math.Max(b.Amount-spent, 0)),
		Percentage:     round2(percentage),
		TotalDays:      totalDays,
		ElapsedDays:    elapsed,
		RemainingDays:  remainingDays,
		AvgSpentPerDay: round2(spent / float64(elapsed)),
		Exceeded:       spent > b.Amount,
	}

	suggestDays := remainingDays
	if suggestDays < 1 {
		suggestDays = 1
	}
	p.SuggestedPerDay = round2(math.Max(b.Amount-spent, 0) / float64(suggestDays))

	switch {
	case p.Exceeded:
		p.Message = fmt.Sprintf("Budget exceeded by %.2f", round2(spent-b.Amount))
	case p.Percentage >= 90:
		p.Message = "Almost at the limit"
	default:
		p.Message = fmt.Sprintf("%.2f left for %d days", p.Remaining, remainingDays)
	}

	return p, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
