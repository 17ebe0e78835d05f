package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/bank-cards/internal/integrations/cbr"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/service"
	"github.com/Dan9191/bank-cards/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Handler exposes the HTTP surface of the service.
type Handler struct {
	auth         *service.AuthService
	adminUsers   *service.AdminUserService
	adminCards   *service.AdminCardService
	userCards    *service.UserCardService
	transactions *service.TransactionService
	rates        *cbr.Client
	validate     *validator.Validate
	log          *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(
	auth *service.AuthService,
	adminUsers *service.AdminUserService,
	adminCards *service.AdminCardService,
	userCards *service.UserCardService,
	transactions *service.TransactionService,
	rates *cbr.Client,
	log *logrus.Logger,
) *Handler {
	return &Handler{
		auth:         auth,
		adminUsers:   adminUsers,
		adminCards:   adminCards,
		userCards:    userCards,
		transactions: transactions,
		rates:        rates,
		validate:     validator.New(),
		log:          log,
	}
}

func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.log.Errorf("Failed to encode response: %v", err)
		}
	}
}

// respondError maps a failure kind onto an HTTP status. Every error in
// the taxonomy has a stable mapping; anything unmatched is an internal
// failure.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrCardNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrInvalidExpiry),
		errors.Is(err, models.ErrNonPositiveAmount),
		errors.Is(err, models.ErrRolesEmpty),
		errors.Is(err, models.ErrRoleNotFound):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUserAlreadyExists),
		errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrUnsuitableStatusForBlock),
		errors.Is(err, models.ErrNoBlockRequestPending):
		status = http.StatusConflict
	case errors.Is(err, utils.ErrKeyGeneration),
		errors.Is(err, utils.ErrEncryption),
		errors.Is(err, utils.ErrDecryption):
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		h.log.Errorf("Internal error: %v", err)
		h.respondJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	h.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) respondValidationError(w http.ResponseWriter, err error) {
	h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}
