package models

import "errors"

// Stable failure kinds surfaced across the service boundary. Callers
// match with errors.Is; messages wrapped around these add detail.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRoleNotFound      = errors.New("role not found")
	ErrRolesEmpty        = errors.New("roles must not be empty")

	ErrCardNotFound = errors.New("card not found")
	ErrAccessDenied = errors.New("access denied")

	ErrInvalidExpiry     = errors.New("card validity period must be positive")
	ErrNonPositiveAmount = errors.New("transfer amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrUnsuitableStatusForBlock = errors.New("card status unsuitable for block request")
	ErrNoBlockRequestPending    = errors.New("no block request pending for card")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
