package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the outcome state of a transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
)

// Transaction represents a funds movement between cards. Card references
// are optional; a card-to-card transfer always sets both. Rows are
// append-only and never mutated after insert.
type Transaction struct {
	ID          int64             `json:"id"`
	FromCardID  *int64            `json:"from_card_id,omitempty"`
	ToCardID    *int64            `json:"to_card_id,omitempty"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	Status      TransactionStatus `json:"status"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
}
