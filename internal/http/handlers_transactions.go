package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
)

type transactionPayload struct {
	Amount      core.Money           `json:"amount"`
	Description string               `json:"description"`
	Date        core.Date            `json:"date"`
	Type        core.TransactionType `json:"type"`
	Category    string               `json:"category"`
}

func (p transactionPayload) toTransaction(id int64) core.Transaction {
	return core.Transaction{
		ID:          id,
		Amount:      p.Amount,
		Description: sanitizeInput(p.Description),
		Date:        p.Date,
		Type:        p.Type,
		Category:    sanitizeInput(p.Category),
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), payload.toTransaction(0))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusCreated, map[string]any{"transaction": created})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transaction": txn})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.ledger.UpdateTransaction(r.Context(), payload.toTransaction(id))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, map[string]any{"transaction": updated})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateAggregates()
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
