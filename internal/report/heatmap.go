package report

import (
	"fmt"

	"expensewise/internal/core"
)

// Bucket is the spend classification of one calendar day.
type Bucket string

const (
	BucketNoExpense Bucket = "no-expense"
	BucketLow       Bucket = "low"
	BucketMedium    Bucket = "medium"
	BucketHigh      Bucket = "high"
)

// Thresholds are the heatmap classification boundaries. Emerald is the
// low/medium boundary, rose the medium/high one.
type Thresholds struct {
	Emerald float64 `json:"emerald"`
	Rose    float64 `json:"rose"`
}

// AutoThresholds derives the boundaries from a budget's suggested-per-day
// and average-spent-per-day figures: the lower of the two becomes emerald,
// the higher rose.
func AutoThresholds(p BudgetProgress) Thresholds {
	lo, hi := p.SuggestedPerDay, p.AvgSpentPerDay
	if lo > hi {
		lo, hi = hi, lo
	}
	return Thresholds{Emerald: lo, Rose: hi}
}

// Classify places a day's total into a bucket.
func Classify(amount float64, th Thresholds) Bucket {
	switch {
	case amount == 0:
		return BucketNoExpense
	case amount < th.Emerald:
		return BucketLow
	case amount < th.Rose:
		return BucketMedium
	default:
		return BucketHigh
	}
}

// DayCell is one heatmap cell.
type DayCell struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Bucket Bucket  `json:"bucket"`
}

// BucketSummary accumulates per-bucket figures over a heatmap window.
type BucketSummary struct {
	Bucket  Bucket  `json:"bucket"`
	Days    int     `json:"days"`
	Total   float64 `json:"total"`
	Display string  `json:"display"`
}

// Heatmap classifies every day in [from, to] and accumulates the per-bucket
// summary. Days without expenses land in the no-expense bucket.
func Heatmap(expenses []core.Expense, from, to string, th Thresholds) ([]DayCell, []BucketSummary, error) {
	start, err := core.ParseDate(from)
	if err != nil {
		return nil, nil, err
	}
	end, err := core.ParseDate(to)
	if err != nil {
		return nil, nil, err
	}
	if end.Before(start) {
		return []DayCell{}, summarize(nil), nil
	}

	perDay := make(map[string]float64)
	for _, e := range expenses {
		if core.DateInRange(e.Date, from, to) {
			perDay[e.Date] += e.Amount
		}
	}

	var cells []DayCell
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := core.FormatDate(d)
		amount := perDay[date]
		cells = append(cells, DayCell{Date: date, Amount: round2(amount), Bucket: Classify(amount, th)})
	}
	return cells, summarize(cells), nil
}

func summarize(cells []DayCell) []BucketSummary {
	order := []Bucket{BucketNoExpense, BucketLow, BucketMedium, BucketHigh}
	byBucket := make(map[Bucket]*BucketSummary, len(order))
	out := make([]BucketSummary, len(order))
	for i, b := range order {
		out[i] = BucketSummary{Bucket: b}
		byBucket[b] = &out[i]
	}

	for _, c := range cells {
		s := byBucket[c.Bucket]
		s.Days++
		s.Total = round2(s.Total + c.Amount)
	}
	for i := range out {
		if out[i].Bucket == BucketNoExpense {
			out[i].Display = fmt.Sprintf("%d days without expenses", out[i].Days)
		} else {
			out[i].Display = fmt.Sprintf("%d %s days, %.2f total", out[i].Days, out[i].Bucket, out[i].Total)
		}
	}
	return out
}
