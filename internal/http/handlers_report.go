package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"expensewise/internal/core"
	"expensewise/internal/report"
)

// storedExpenses returns the raw expense records the report functions
// aggregate over.
func (s *Server) storedExpenses(ctx context.Context) ([]core.Expense, error) {
	views, err := s.expenses.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	expenses := make([]core.Expense, len(views))
	for i, v := range views {
		expenses[i] = v.Expense
	}
	return expenses, nil
}

// writeCachedJSON serves the payload from the report cache when present,
// otherwise builds it, caches it, and writes it.
func (s *Server) writeCachedJSON(w http.ResponseWriter, r *http.Request, build func() (any, error)) {
	key := r.URL.RequestURI()
	if data, ok := s.reportCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Report cache hit", "key", key)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(data)
		return
	}

	v, err := build()
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Set(key, data)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	active, ok, err := s.budgets.Active(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no active budget"})
		return
	}

	s.writeCachedJSON(w, r, func() (any, error) {
		expenses, err := s.storedExpenses(r.Context())
		if err != nil {
			return nil, err
		}
		return report.Progress(active, expenses, s.now())
	})
}

type heatmapResponse struct {
	Cells      []report.DayCell       `json:"cells"`
	Summary    []report.BucketSummary `json:"summary"`
	Thresholds report.Thresholds      `json:"thresholds"`
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from and to query parameters are required"})
		return
	}

	s.writeCachedJSON(w, r, func() (any, error) {
		settings, err := s.settings.Get(r.Context())
		if err != nil {
			return nil, err
		}
		th := report.Thresholds{
			Emerald: settings.EmeraldThreshold,
			Rose:    settings.RoseThreshold,
		}

		expenses, err := s.storedExpenses(r.Context())
		if err != nil {
			return nil, err
		}

		// Auto thresholds only apply while a budget is active.
		if settings.AutoThresholds {
			if active, ok, err := s.budgets.Active(r.Context()); err == nil && ok {
				if p, err := report.Progress(active, expenses, s.now()); err == nil {
					th = report.AutoThresholds(p)
				}
			}
		}

		cells, summary, err := report.Heatmap(expenses, from, to, th)
		if err != nil {
			return nil, err
		}
		return heatmapResponse{Cells: cells, Summary: summary, Thresholds: th}, nil
	})
}

// buildSeries resolves the view query parameter into one of the grouped
// series. Missing date/year parameters default to today.
func (s *Server) buildSeries(ctx context.Context, r *http.Request) (report.Series, error) {
	expenses, err := s.storedExpenses(ctx)
	if err != nil {
		return report.Series{}, err
	}

	now := s.now()
	q := r.URL.Query()

	switch q.Get("view") {
	case "hour":
		date := q.Get("date")
		if date == "" {
			date = core.FormatDate(now)
		}
		return report.ByHour(expenses, date), nil
	case "month":
		year, month := now.Year(), now.Month()
		if v := q.Get("year"); v != "" {
			if y, err := strconv.Atoi(v); err == nil {
				year = y
			}
		}
		if v := q.Get("month"); v != "" {
			if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
				month = time.Month(m)
			}
		}
		return report.ByDayOfMonth(expenses, year, month), nil
	case "year":
		year := now.Year()
		if v := q.Get("year"); v != "" {
			if y, err := strconv.Atoi(v); err == nil {
				year = y
			}
		}
		return report.ByMonthOfYear(expenses, year), nil
	case "category":
		views, err := s.expenses.GetAll(ctx)
		if err != nil {
			return report.Series{}, err
		}
		return report.ByCategory(views), nil
	default: // week
		return report.LastSevenDays(expenses, now), nil
	}
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	s.writeCachedJSON(w, r, func() (any, error) {
		return s.buildSeries(r.Context(), r)
	})
}

func (s *Server) handleSeriesPNG(w http.ResponseWriter, r *http.Request) {
	series, err := s.buildSeries(r.Context(), r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		title = "Spending"
	}
	png, err := report.RenderPNG(series, title)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
