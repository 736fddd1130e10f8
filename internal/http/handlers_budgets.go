package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

type budgetPayload struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
	Month    string     `json:"month"`
}

func (p budgetPayload) toBudget(id int64) core.Budget {
	return core.Budget{
		ID:       id,
		Category: sanitizeInput(p.Category),
		Amount:   p.Amount,
		Month:    strings.TrimSpace(p.Month),
	}
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month != "" {
		if _, err := core.ParseMonth(month); err != nil {
			writeError(w, http.StatusBadRequest, core.ErrInvalidMonth.Error())
			return
		}
	}

	budgets, err := s.store.ListBudgets(r.Context(), month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"budgets": budgets})
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.ledger.CreateBudget(r.Context(), payload.toBudget(0))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusCreated, map[string]any{"budget": created})
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	budget, err := s.store.GetBudget(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"budget": budget})
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload budgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.ledger.UpdateBudget(r.Context(), payload.toBudget(id))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, map[string]any{"budget": updated})
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ledger.DeleteBudget(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
