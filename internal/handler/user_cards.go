package handler

import (
	"net/http"
	"strconv"

	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/repository"
	"github.com/shopspring/decimal"
)

// TransferRequest carries a transfer between two of the caller's cards.
type TransferRequest struct {
	FromCardID int64           `json:"from_card_id" validate:"required"`
	ToCardID   int64           `json:"to_card_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

// GetUserCards returns the caller's cards, filtered and paged
func (h *Handler) GetUserCards(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	filter, err := parseCardFilter(r)
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	cards, err := h.userCards.GetUserCards(r.Context(), username, filter, parsePage(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, cards)
}

// GetDecryptedUserCards returns the caller's cards with full PANs
func (h *Handler) GetDecryptedUserCards(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	cards, err := h.userCards.GetDecryptedUserCards(r.Context(), username, parsePage(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, cards)
}

// GetDecryptedUserCard returns one of the caller's cards with its full PAN
func (h *Handler) GetDecryptedUserCard(w http.ResponseWriter, r *http.Request) {
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

	card, err := h.userCards.GetDecryptedUserCard(r.Context(), username, cardID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, card)
}

// TransferBetweenCards moves funds between two of the caller's cards
func (h *Handler) TransferBetweenCards(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req TransferRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	txn, err := h.userCards.Transfer(r.Context(), username, req.FromCardID, req.ToCardID, req.Amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, txn)
}

// GetBalance returns the balance of one of the caller's cards
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
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

	balance, err := h.userCards.GetBalance(r.Context(), cardID, username)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]decimal.Decimal{"balance": balance})
}

// RequestBlock asks for one of the caller's cards to be blocked
func (h *Handler) RequestBlock(w http.ResponseWriter, r *http.Request) {
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

	if err := h.userCards.RequestBlock(r.Context(), cardID, username); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, nil)
}

func parseCardFilter(r *http.Request) (repository.CardFilter, error) {
	var filter repository.CardFilter
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status, ok := models.ParseCardStatus(raw)
		if !ok {
			return filter, &statusFilterError{raw}
		}
		filter.Status = &status
	}
	if raw := q.Get("min_balance"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, err
		}
		filter.MinBalance = &min
	}
	if raw := q.Get("max_balance"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, err
		}
		filter.MaxBalance = &max
	}
	return filter, nil
}

func parsePage(r *http.Request) repository.Page {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return repository.Page{Limit: limit, Offset: offset}.Normalize()
}

type statusFilterError struct {
	value string
}

func (e *statusFilterError) Error() string {
	return "unknown card status: " + e.value
}
