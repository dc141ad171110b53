package http

import (
	"net/http"
	"strconv"

	"expensewise/internal/core"
	"expensewise/internal/records"
)

type createExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	CategoryID  string  `json:"category_id" validate:"required"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string  `json:"time" validate:"omitempty,datetime=15:04:05"`
	Note        string  `json:"note" validate:"max=200"`
	PaymentMode string  `json:"payment_mode" validate:"required,oneof=cash card upi online"`
	Location    string  `json:"location" validate:"max=120"`
}

type updateExpenseRequest struct {
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	CategoryID  *string  `json:"category_id" validate:"omitempty,min=1"`
	Date        *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time        *string  `json:"time" validate:"omitempty,datetime=15:04:05"`
	Note        *string  `json:"note" validate:"omitempty,max=200"`
	PaymentMode *string  `json:"payment_mode" validate:"omitempty,oneof=cash card upi online"`
	Location    *string  `json:"location" validate:"omitempty,max=120"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	views, err := s.expenses.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "days must be a positive integer"})
			return
		}
		views, err = s.expenses.LastNDays(r.Context(), n)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	view, err := s.expenses.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if !s.decode(w, r, &req) {
		return
	}

	exp, err := s.expenses.Add(r.Context(), core.Expense{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Date:        req.Date,
		Time:        req.Time,
		Note:        req.Note,
		PaymentMode: req.PaymentMode,
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	writeJSON(w, http.StatusCreated, exp)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if !s.decode(w, r, &req) {
		return
	}

	exp, err := s.expenses.Update(r.Context(), r.PathValue("id"), records.ExpensePatch{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Date:        req.Date,
		Time:        req.Time,
		Note:        req.Note,
		PaymentMode: req.PaymentMode,
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchExpenses(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from and to query parameters are required"})
		return
	}

	views, err := s.expenses.SearchByDateRange(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
