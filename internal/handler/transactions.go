package handler

import (
	"net/http"

	"github.com/Dan9191/bank-cards/internal/middleware"
)

// GetTransactions returns the transaction history of one of the
// caller's cards, newest first
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "cardId")
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	txns, err := h.transactions.GetUserCardTransactions(r.Context(), username, cardID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, txns)
}
