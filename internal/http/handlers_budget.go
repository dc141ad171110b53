package http

import (
	"net/http"

	"expensewise/internal/core"
	"expensewise/internal/records"
)

type createBudgetRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	FromDate string  `json:"fromDate" validate:"required,datetime=2006-01-02"`
	ToDate   string  `json:"toDate" validate:"required,datetime=2006-01-02"`
}

type updateBudgetRequest struct {
	Amount   *float64 `json:"amount" validate:"omitempty,gt=0"`
	FromDate *string  `json:"fromDate" validate:"omitempty,datetime=2006-01-02"`
	ToDate   *string  `json:"toDate" validate:"omitempty,datetime=2006-01-02"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgets.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleActiveBudget(w http.ResponseWriter, r *http.Request) {
	active, ok, err := s.budgets.Active(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no active budget"})
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if !s.decode(w, r, &req) {
		return
	}

	budget, err := s.budgets.Add(r.Context(), core.Budget{
		Amount:   req.Amount,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	writeJSON(w, http.StatusCreated, budget)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req updateBudgetRequest
	if !s.decode(w, r, &req) {
		return
	}

	budget, err := s.budgets.Update(r.Context(), r.PathValue("id"), records.BudgetPatch{
		Amount:   req.Amount,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
