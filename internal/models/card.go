package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardStatus is the lifecycle state of a card.
type CardStatus string

const (
	CardStatusActive       CardStatus = "ACTIVE"
	CardStatusPendingBlock CardStatus = "PENDING_BLOCK"
	CardStatusBlocked      CardStatus = "BLOCKED"
)

// ParseCardStatus maps a status name onto the enum.
func ParseCardStatus(name string) (CardStatus, bool) {
	switch CardStatus(name) {
	case CardStatusActive, CardStatusPendingBlock, CardStatusBlocked:
		return CardStatus(name), true
	}
	return "", false
}

// Card represents a bank card. The full PAN is stored encrypted with a
// per-card AES key; only the last 4 digits are kept in plaintext.
type Card struct {
	ID              int64           `json:"id"`
	OwnerID         int64           `json:"owner_id"`
	OwnerUsername   string          `json:"owner_username"`
	EncryptedNumber string          `json:"-"` // Not serialized
	AESKey          string          `json:"-"` // Not serialized
	PanLast4        string          `json:"pan_last4"`
	Status          CardStatus      `json:"status"`
	Balance         decimal.Decimal `json:"balance"`
	Currency        string          `json:"currency"`
	Expiry          time.Time       `json:"expiry"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Derived view fields, never persisted.
	MaskedNumber    string `json:"masked_number,omitempty"`
	DecryptedNumber string `json:"decrypted_number,omitempty"`
}
