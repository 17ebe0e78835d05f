package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/sirupsen/logrus"
)

// TransactionStore is the persistence surface for transaction reads.
type TransactionStore interface {
	FindCardByID(ctx context.Context, id int64) (*models.Card, error)
	ListTransactionsByCard(ctx context.Context, cardID int64) ([]models.Transaction, error)
}

// TransactionService reads the append-only transaction ledger.
type TransactionService struct {
	store TransactionStore
	log   *logrus.Logger
}

// NewTransactionService initializes a new transaction service
func NewTransactionService(store TransactionStore, log *logrus.Logger) *TransactionService {
	return &TransactionService{store: store, log: log}
}

// IsCardOwnedByUser reports whether the card belongs to the user. A
// missing card yields false rather than an error; callers that need to
// distinguish absence must resolve the card first.
func (s *TransactionService) IsCardOwnedByUser(ctx context.Context, cardID int64, username string) bool {
	card, err := s.store.FindCardByID(ctx, cardID)
	if err != nil {
		return false
	}
	return card.OwnerUsername == username
}

// GetUserCardTransactions returns every transaction where the owned
// card is either endpoint, newest first.
func (s *TransactionService) GetUserCardTransactions(ctx context.Context, username string, cardID int64) ([]models.Transaction, error) {
	if !s.IsCardOwnedByUser(ctx, cardID, username) {
		return nil, fmt.Errorf("%w: you cannot view transactions of other users", models.ErrAccessDenied)
	}
	return s.store.ListTransactionsByCard(ctx, cardID)
}
