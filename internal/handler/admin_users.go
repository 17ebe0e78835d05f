package handler

import (
	"net/http"
)

// CreateUserRequest carries the parameters of user creation.
type CreateUserRequest struct {
	Username string   `json:"username" validate:"required,min=3"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles" validate:"required"`
}

// UpdateUserRolesRequest carries a full replacement role set.
type UpdateUserRolesRequest struct {
	Roles []string `json:"roles" validate:"required"`
}

// CreateUser handles administrative user creation
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	user, err := h.adminUsers.CreateUser(r.Context(), req.Username, req.Email, req.Password, req.Roles)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, user)
}

// GetAllUsers returns every user in the system
func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminUsers.GetAllUsers(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, users)
}

// UpdateRoles replaces a user's role set
func (h *Handler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	var req UpdateUserRolesRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondValidationError(w, err)
		return
	}

	if err := h.adminUsers.UpdateRoles(r.Context(), userID, req.Roles); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, nil)
}

// AddRole grants a role to a user
func (h *Handler) AddRole(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	if err := h.adminUsers.AddRole(r.Context(), userID, r.URL.Query().Get("role")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, nil)
}

// RemoveRole revokes a role from a user
func (h *Handler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	if err := h.adminUsers.RemoveRole(r.Context(), userID, r.URL.Query().Get("role")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, nil)
}

// DeleteUser handles administrative user deletion
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.respondValidationError(w, err)
		return
	}

	if err := h.adminUsers.DeleteUser(r.Context(), userID); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
