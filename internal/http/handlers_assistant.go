package http

import (
	"net/http"
)

type askRequest struct {
	Question string `json:"question" validate:"required,max=500"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// handleAssistant forwards a question plus a 30-day spending snapshot to
// the configured model endpoint.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if s.asker == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "assistant is not configured"})
		return
	}

	var req askRequest
	if !s.decode(w, r, &req) {
		return
	}

	recent, err := s.expenses.LastNDays(r.Context(), 30)
	if err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := s.asker.Ask(r.Context(), req.Question, recent)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}
