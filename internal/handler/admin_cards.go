package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// CreateCardRequest carries the parameters of an administrative card
// issuance.
type CreateCardRequest struct {
	Username       string          `json:"username" validate:"required"`
	Balance        decimal.Decimal `json:"balance"`
	ExpiresInYears int             `json:"expires_in_years" validate:"required"`
}

// CreateCard handles administrative card issuance
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondValidationError(w, err)
		return
	}
	if req.Balance.IsNegative() {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "initial balance must not be negative"})
		return
	}

	card, err := h.adminCards.CreateCard(r.Context(), req.Username, req.Balance, req.ExpiresInYears)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, card)
}

// GetAllCards returns every card in the system, masked
func (h *Handler) GetAllCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.adminCards.GetAllCards(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, cards)
}

// ActivateCard handles administrative card activation
func (h *Handler) ActivateCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "id")
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	if err := h.adminCards.ActivateCard(r.Context(), cardID); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, nil)
}

// BlockCard confirms a pending block request
func (h *Handler) BlockCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardId")
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	if err := h.adminCards.BlockCard(r.Context(), cardID); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, nil)
}

// DeleteCard handles administrative card deletion
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardId")
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	if err := h.adminCards.DeleteCard(r.Context(), cardID); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
