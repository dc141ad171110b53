package report

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"expensewise/internal/core"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func exp(date string, amount float64) core.Expense {
	return core.Expense{Date: date, Amount: amount}
}

func TestProgressExceededIsCapped(t *testing.T) {
	b := core.Budget{BudgetID: "b1", Amount: 1000, FromDate: "2025-01-01", ToDate: "2025-01-31"}
	expenses := []core.Expense{
		exp("2025-01-05", 700),
		exp("2025-01-10", 500),
		exp("2025-02-01", 999), // outside range, ignored
	}

	p, err := Progress(b, expenses, day(t, "2025-01-15"))
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.Spent != 1200 {
		t.Errorf("spent = %v, want 1200", p.Spent)
	}
	if p.Percentage != 100 {
		t.Errorf("percentage = %v, want capped 100", p.Percentage)
	}
	if p.Remaining != 0 {
		t.Errorf("remaining = %v, want floored 0", p.Remaining)
	}
	if !p.Exceeded {
		t.Errorf("exceeded flag not set")
	}
	if p.Message != "Budget exceeded by 200.00" {
		t.Errorf("message = %q", p.Message)
	}
}

func TestProgressZeroAmountBudget(t *testing.T) {
	// A stored budget missing its amount reconciles to 0; the figures must
	// stay finite so the result survives JSON encoding.
	b := core.Budget{BudgetID: "b0", Amount: 0, FromDate: "2025-01-01", ToDate: "2025-01-31"}

	p, err := Progress(b, nil, day(t, "2025-01-15"))
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.Percentage != 0 {
		t.Errorf("percentage = %v, want 0", p.Percentage)
	}
	if math.IsNaN(p.Percentage) || math.IsInf(p.Percentage, 0) {
		t.Errorf("percentage = %v, not finite", p.Percentage)
	}
	if p.Exceeded {
		t.Errorf("exceeded flag set with no spending")
	}

	p, err = Progress(b, []core.Expense{exp("2025-01-05", 10)}, day(t, "2025-01-15"))
	if err != nil {
		t.Fatalf("progress with spending: %v", err)
	}
	if p.Percentage != 100 {
		t.Errorf("percentage = %v, want 100 once anything is spent", p.Percentage)
	}
	if !p.Exceeded {
		t.Errorf("exceeded flag not set")
	}
	if _, err := json.Marshal(p); err != nil {
		t.Errorf("encode progress: %v", err)
	}
}

func TestProgressDayArithmetic(t *testing.T) {
	b := core.Budget{Amount: 310, FromDate: "2025-01-01", ToDate: "2025-01-31"}
	expenses := []core.Expense{exp("2025-01-02", 50)}

	p, err := Progress(b, expenses, day(t, "2025-01-10"))
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.TotalDays != 31 || p.ElapsedDays != 10 || p.RemainingDays != 21 {
		t.Errorf("days = %d/%d/%d, want 31/10/21", p.TotalDays, p.ElapsedDays, p.RemainingDays)
	}
	if p.AvgSpentPerDay != 5 {
		t.Errorf("avg/day = %v, want 5", p.AvgSpentPerDay)
	}
	// (310-50)/21 days left
	if p.SuggestedPerDay != 12.38 {
		t.Errorf("suggested/day = %v, want 12.38", p.SuggestedPerDay)
	}
}

func TestProgressBeforeRangeStartFloorsElapsed(t *testing.T) {
	b := core.Budget{Amount: 100, FromDate: "2025-06-01", ToDate: "2025-06-30"}

	p, err := Progress(b, nil, day(t, "2025-05-01"))
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.ElapsedDays != 1 {
		t.Errorf("elapsed = %d, want floor of 1", p.ElapsedDays)
	}
}

func TestClassifyBuckets(t *testing.T) {
	th := Thresholds{Emerald: 500, Rose: 1000}
	cases := []struct {
		amount float64
		want   Bucket
	}{
		{0, BucketNoExpense},
		{499, BucketLow},
		{500, BucketMedium},
		{750, BucketMedium},
		{999.99, BucketMedium},
		{1000, BucketHigh},
		{1500, BucketHigh},
	}
	for _, tc := range cases {
		if got := Classify(tc.amount, th); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.amount, got, tc.want)
		}
	}
}

func TestAutoThresholdsSwapsLowerToEmerald(t *testing.T) {
	th := AutoThresholds(BudgetProgress{SuggestedPerDay: 80, AvgSpentPerDay: 120})
	if th.Emerald != 80 || th.Rose != 120 {
		t.Fatalf("thresholds = %+v", th)
	}
	th = AutoThresholds(BudgetProgress{SuggestedPerDay: 200, AvgSpentPerDay: 90})
	if th.Emerald != 90 || th.Rose != 200 {
		t.Fatalf("swapped thresholds = %+v", th)
	}
}

func TestHeatmapCellsAndSummary(t *testing.T) {
	th := Thresholds{Emerald: 50, Rose: 100}
	expenses := []core.Expense{
		exp("2025-03-01", 20),  // low
		exp("2025-03-02", 60),  // medium
		exp("2025-03-03", 150), // high
		// 2025-03-04 no expenses
	}

	cells, summary, err := Heatmap(expenses, "2025-03-01", "2025-03-04", th)
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	wantBuckets := []Bucket{BucketLow, BucketMedium, BucketHigh, BucketNoExpense}
	for i, w := range wantBuckets {
		if cells[i].Bucket != w {
			t.Errorf("cell %d bucket = %s, want %s", i, cells[i].Bucket, w)
		}
	}

	byBucket := map[Bucket]BucketSummary{}
	for _, s := range summary {
		byBucket[s.Bucket] = s
	}
	if byBucket[BucketNoExpense].Days != 1 {
		t.Errorf("no-expense days = %d", byBucket[BucketNoExpense].Days)
	}
	if byBucket[BucketHigh].Days != 1 || byBucket[BucketHigh].Total != 150 {
		t.Errorf("high summary = %+v", byBucket[BucketHigh])
	}
}

func TestHeatmapInvertedRange(t *testing.T) {
	cells, summary, err := Heatmap(nil, "2025-03-10", "2025-03-01", Thresholds{Emerald: 1, Rose: 2})
	if err != nil {
		t.Fatalf("inverted range must not error: %v", err)
	}
	if len(cells) != 0 {
		t.Fatalf("inverted range produced %d cells", len(cells))
	}
	if len(summary) != 4 {
		t.Fatalf("summary must still list all buckets, got %d", len(summary))
	}
}

func TestByHourPreseedsAllBuckets(t *testing.T) {
	expenses := []core.Expense{
		{Date: "2025-03-01", Time: "09:15:00", Amount: 10},
		{Date: "2025-03-01", Time: "09:55:00", Amount: 5},
		{Date: "2025-03-01", Time: "21:00:00", Amount: 7},
		{Date: "2025-03-02", Time: "09:00:00", Amount: 99}, // other day
	}
	s := ByHour(expenses, "2025-03-01")
	if len(s.Labels) != 24 || len(s.Values) != 24 {
		t.Fatalf("expected 24 pre-seeded buckets, got %d", len(s.Values))
	}
	if s.Values[9] != 15 || s.Values[21] != 7 {
		t.Fatalf("hour sums wrong: 9h=%v 21h=%v", s.Values[9], s.Values[21])
	}
	if s.Values[0] != 0 {
		t.Fatalf("empty hour not zero")
	}
}

func TestLastSevenDaysPreseeded(t *testing.T) {
	today := day(t, "2025-03-10")
	expenses := []core.Expense{
		exp("2025-03-04", 9),  // oldest in window
		exp("2025-03-10", 3),  // today
		exp("2025-03-03", 99), // outside window
	}
	s := LastSevenDays(expenses, today)
	if len(s.Values) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(s.Values))
	}
	if s.Labels[0] != "2025-03-04" || s.Labels[6] != "2025-03-10" {
		t.Fatalf("window labels wrong: %v", s.Labels)
	}
	if s.Values[0] != 9 || s.Values[6] != 3 {
		t.Fatalf("window values wrong: %v", s.Values)
	}
}

func TestMonthAndYearSeriesAreSparse(t *testing.T) {
	expenses := []core.Expense{
		exp("2025-05-01", 10),
		exp("2025-05-01", 5),
		exp("2025-05-20", 7),
		exp("2025-06-02", 99),
	}

	month := ByDayOfMonth(expenses, 2025, time.May)
	if len(month.Labels) != 2 {
		t.Fatalf("expected sparse day series of 2, got %v", month.Labels)
	}
	if month.Labels[0] != "1" || month.Values[0] != 15 {
		t.Fatalf("day series wrong: %v %v", month.Labels, month.Values)
	}

	year := ByMonthOfYear(expenses, 2025)
	if len(year.Labels) != 2 || year.Labels[0] != "May" || year.Labels[1] != "Jun" {
		t.Fatalf("year series labels wrong: %v", year.Labels)
	}
	if year.Values[0] != 22 || year.Values[1] != 99 {
		t.Fatalf("year series values wrong: %v", year.Values)
	}
}

func TestByCategoryOrdersByTotal(t *testing.T) {
	views := []core.ExpenseView{
		{Expense: exp("2025-05-01", 10), CategoryName: "Food"},
		{Expense: exp("2025-05-02", 30), CategoryName: "Travel"},
		{Expense: exp("2025-05-03", 20), CategoryName: "Food"},
	}
	s := ByCategory(views)
	if s.Labels[0] != "Food" || s.Values[0] != 30 {
		t.Fatalf("largest category first expected, got %v %v", s.Labels, s.Values)
	}
}

func TestRenderPNG(t *testing.T) {
	s := Series{Labels: []string{"a", "b"}, Values: []float64{1, 2}}
	png, err := RenderPNG(s, "test")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(png) == 0 {
		t.Fatalf("empty png output")
	}
	if _, err := RenderPNG(Series{}, "empty"); err == nil {
		t.Fatalf("empty series must error")
	}
}
