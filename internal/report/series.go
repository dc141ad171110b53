package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"expensewise/internal/core"
)

// Series is a chart-ready label/value pair list.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ByHour groups one day's expenses by hour of day. All 24 buckets are
// pre-seeded so hours without spending chart as zero.
func ByHour(expenses []core.Expense, date string) Series {
	s := Series{Labels: make([]string, 24), Values: make([]float64, 24)}
	for h := 0; h < 24; h++ {
		s.Labels[h] = fmt.Sprintf("%02d:00", h)
	}
	for _, e := range expenses {
		if e.Date != date {
			continue
		}
		hh, _, ok := strings.Cut(e.Time, ":")
		if !ok {
			continue
		}
		h, err := strconv.Atoi(hh)
		if err != nil || h < 0 || h > 23 {
			continue
		}
		s.Values[h] = round2(s.Values[h] + e.Amount)
	}
	return s
}

// LastSevenDays groups expenses by day over the 7 days ending at today,
// oldest first, with every day pre-seeded.
func LastSevenDays(expenses []core.Expense, today time.Time) Series {
	s := Series{Labels: make([]string, 7), Values: make([]float64, 7)}
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		d := today.AddDate(0, 0, i-6)
		date := core.FormatDate(d)
		s.Labels[i] = date
		index[date] = i
	}
	for _, e := range expenses {
		if i, ok := index[e.Date]; ok {
			s.Values[i] = round2(s.Values[i] + e.Amount)
		}
	}
	return s
}

// ByDayOfMonth groups one month's expenses by day. Sparse: only days with
// expenses appear, in ascending day order.
func ByDayOfMonth(expenses []core.Expense, year int, month time.Month) Series {
	perDay := make(map[int]float64)
	for _, e := range expenses {
		d, err := core.ParseDate(e.Date)
		if err != nil || d.Year() != year || d.Month() != month {
			continue
		}
		perDay[d.Day()] += e.Amount
	}

	days := make([]int, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Ints(days)

	s := Series{Labels: make([]string, len(days)), Values: make([]float64, len(days))}
	for i, d := range days {
		s.Labels[i] = strconv.Itoa(d)
		s.Values[i] = round2(perDay[d])
	}
	return s
}

// ByMonthOfYear groups one year's expenses by month. Sparse: only months
// with expenses appear, in calendar order.
func ByMonthOfYear(expenses []core.Expense, year int) Series {
	perMonth := make(map[time.Month]float64)
	for _, e := range expenses {
		d, err := core.ParseDate(e.Date)
		if err != nil || d.Year() != year {
			continue
		}
		perMonth[d.Month()] += e.Amount
	}

	s := Series{Labels: []string{}, Values: []float64{}}
	for m := time.January; m <= time.December; m++ {
		if v, ok := perMonth[m]; ok {
			s.Labels = append(s.Labels, m.String()[:3])
			s.Values = append(s.Values, round2(v))
		}
	}
	return s
}

// ByCategory sums joined expenses per category name, largest first.
func ByCategory(expenses []core.ExpenseView) Series {
	perCat := make(map[string]float64)
	for _, e := range expenses {
		perCat[e.CategoryName] += e.Amount
	}

	names := make([]string, 0, len(perCat))
	for n := range perCat {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if perCat[names[i]] != perCat[names[j]] {
			return perCat[names[i]] > perCat[names[j]]
		}
		return names[i] < names[j]
	})

	s := Series{Labels: make([]string, len(names)), Values: make([]float64, len(names))}
	for i, n := range names {
		s.Labels[i] = n
		s.Values[i] = round2(perCat[n])
	}
	return s
}
