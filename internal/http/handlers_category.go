package http

import (
	"net/http"
	"strings"

	"expensewise/internal/core"
	"expensewise/internal/records"
)

type createCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=60"`
	Icon  string `json:"icon" validate:"max=60"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type updateCategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=60"`
	Icon     *string `json:"icon" validate:"omitempty,max=60"`
	Color    *string `json:"color" validate:"omitempty,hexcolor"`
	IsActive *string `json:"is_active" validate:"omitempty,oneof=0 1"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !s.decode(w, r, &req) {
		return
	}

	// Duplicate names are rejected here, not in the accessor; restored
	// backups may legitimately contain duplicates.
	exists, err := s.categories.NameExists(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "category name already exists"})
		return
	}

	cat, err := s.categories.Add(r.Context(), core.Category{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	writeJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Name != nil {
		current, err := s.categories.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		// Resending the record's own name must not conflict with itself.
		if !strings.EqualFold(strings.TrimSpace(*req.Name), strings.TrimSpace(current.Name)) {
			exists, err := s.categories.NameExists(r.Context(), *req.Name)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if exists {
				writeJSON(w, http.StatusConflict, errorResponse{Error: "category name already exists"})
				return
			}
		}
	}

	cat, err := s.categories.Update(r.Context(), r.PathValue("id"), records.CategoryPatch{
		Name:     req.Name,
		Icon:     req.Icon,
		Color:    req.Color,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	writeJSON(w, http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categories.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.reportCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
