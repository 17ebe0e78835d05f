package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/repository"
	"github.com/Dan9191/bank-cards/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// UserCardStore is the persistence surface for a user's own cards.
type UserCardStore interface {
	FindCardByID(ctx context.Context, id int64) (*models.Card, error)
	ListCardsByOwner(ctx context.Context, ownerID int64, filter repository.CardFilter, page repository.Page) ([]models.Card, error)
	UpdateCardStatus(ctx context.Context, id int64, status models.CardStatus) error
	Transfer(ctx context.Context, fromCardID, toCardID int64, amount decimal.Decimal, currency, description string) (*models.Transaction, error)
}

// Notifier sends out-of-band notifications. All sends are best-effort:
// a delivery failure is logged and never fails the triggering operation.
type Notifier interface {
	SendBlockRequestAlert(ownerUsername string, cardID int64, panLast4 string) error
	SendTransferReceipt(to, username, fromLast4, toLast4 string, amount decimal.Decimal, currency string) error
}

// UserCardService covers everything a card owner can do with their own
// cards: listing, balance, transfers and block requests.
type UserCardService struct {
	cards    UserCardStore
	users    UserStore
	notifier Notifier
	log      *logrus.Logger
}

// NewUserCardService initializes a new user card service
func NewUserCardService(cards UserCardStore, users UserStore, notifier Notifier, log *logrus.Logger) *UserCardService {
	return &UserCardService{cards: cards, users: users, notifier: notifier, log: log}
}

const transferDescription = "Transfer between user cards"

// GetUserCards returns the user's cards, filtered and paged, with
// masked numbers populated. Raw PAN material never leaves this
// boundary.
func (s *UserCardService) GetUserCards(ctx context.Context, username string, filter repository.CardFilter, page repository.Page) ([]models.Card, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.ListCardsByOwner(ctx, user.ID, filter, page)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].MaskedNumber = utils.MaskCardNumber(cards[i].PanLast4)
	}
	return cards, nil
}

// GetDecryptedUserCards returns the user's cards with the full PAN
// decrypted into the view field.
func (s *UserCardService) GetDecryptedUserCards(ctx context.Context, username string, page repository.Page) ([]models.Card, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards.ListCardsByOwner(ctx, user.ID, repository.CardFilter{}, page)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		decrypted, err := utils.Decrypt(cards[i].EncryptedNumber, cards[i].AESKey)
		if err != nil {
			return nil, err
		}
		cards[i].DecryptedNumber = decrypted
		cards[i].MaskedNumber = utils.MaskCardNumber(cards[i].PanLast4)
	}
	return cards, nil
}

// GetDecryptedUserCard returns a single owned card with the full PAN
// decrypted.
func (s *UserCardService) GetDecryptedUserCard(ctx context.Context, username string, cardID int64) (*models.Card, error) {
	card, err := s.cards.FindCardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.OwnerUsername != username {
		return nil, fmt.Errorf("%w: card %d is not yours", models.ErrAccessDenied, cardID)
	}

	decrypted, err := utils.Decrypt(card.EncryptedNumber, card.AESKey)
	if err != nil {
		return nil, err
	}
	card.DecryptedNumber = decrypted
	card.MaskedNumber = utils.MaskCardNumber(card.PanLast4)
	return card, nil
}

// Transfer moves funds between two cards owned by the same user. The
// balance check and both balance mutations happen inside one database
// transaction together with the ledger insert, so a failure at any
// point leaves no partial transfer behind.
func (s *UserCardService) Transfer(ctx context.Context, username string, fromCardID, toCardID int64, amount decimal.Decimal) (*models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, models.ErrNonPositiveAmount
	}

	fromCard, err := s.cards.FindCardByID(ctx, fromCardID)
	if err != nil {
		return nil, err
	}
	toCard, err := s.cards.FindCardByID(ctx, toCardID)
	if err != nil {
		return nil, err
	}

	if fromCard.OwnerUsername != username || toCard.OwnerUsername != username {
		return nil, fmt.Errorf("%w: transfers are only allowed between your own cards", models.ErrAccessDenied)
	}

	// The transaction currency follows the source card. Currency
	// conversion is not performed.
	txn, err := s.cards.Transfer(ctx, fromCardID, toCardID, amount, fromCard.Currency, transferDescription)
	if err != nil {
		return nil, err
	}

	s.log.Infof("Transfer of %s %s from card %d to card %d completed (transaction %d)",
		amount.StringFixed(2), txn.Currency, fromCardID, toCardID, txn.ID)

	if s.notifier != nil {
		user, err := s.users.FindUserByUsername(ctx, username)
		if err == nil {
			if err := s.notifier.SendTransferReceipt(user.Email, user.Username,
				fromCard.PanLast4, toCard.PanLast4, amount, txn.Currency); err != nil {
				s.log.Errorf("Failed to send transfer receipt: %v", err)
			}
		}
	}
	return txn, nil
}

// GetBalance returns the balance of an owned card.
func (s *UserCardService) GetBalance(ctx context.Context, cardID int64, username string) (decimal.Decimal, error) {
	card, err := s.cards.FindCardByID(ctx, cardID)
	if err != nil {
		return decimal.Zero, err
	}
	if card.OwnerUsername != username {
		return decimal.Zero, fmt.Errorf("%w: card %d is not yours", models.ErrAccessDenied, cardID)
	}
	return card.Balance, nil
}

// RequestBlock moves an owned ACTIVE card to PENDING_BLOCK. The actual
// block is a separate administrative confirmation.
func (s *UserCardService) RequestBlock(ctx context.Context, cardID int64, username string) error {
	card, err := s.cards.FindCardByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card.OwnerUsername != username {
		return fmt.Errorf("%w: card %d is not yours", models.ErrAccessDenied, cardID)
	}

	if card.Status != models.CardStatusActive {
		return fmt.Errorf("%w: card %d is %s", models.ErrUnsuitableStatusForBlock, cardID, card.Status)
	}

	if err := s.cards.UpdateCardStatus(ctx, cardID, models.CardStatusPendingBlock); err != nil {
		return err
	}
	s.log.Infof("Block requested for card %d by %s", cardID, username)

	if s.notifier != nil {
		if err := s.notifier.SendBlockRequestAlert(username, cardID, card.PanLast4); err != nil {
			s.log.Errorf("Failed to send block request alert: %v", err)
		}
	}
	return nil
}
