package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CardStore is the persistence surface for card administration.
type CardStore interface {
	CreateCard(ctx context.Context, card *models.Card) error
	FindCardByID(ctx context.Context, id int64) (*models.Card, error)
	ListCards(ctx context.Context) ([]models.Card, error)
	UpdateCardStatus(ctx context.Context, id int64, status models.CardStatus) error
	DeleteCard(ctx context.Context, id int64) error
}

// AdminCardService manages card issuance and the administrative side of
// the card status lifecycle.
type AdminCardService struct {
	cards CardStore
	users UserStore
	log   *logrus.Logger
}

// NewAdminCardService initializes a new admin card service
func NewAdminCardService(cards CardStore, users UserStore, log *logrus.Logger) *AdminCardService {
	return &AdminCardService{cards: cards, users: users, log: log}
}

// DefaultCurrency is assigned to newly issued cards.
const DefaultCurrency = "USD"

// CreateCard issues a new ACTIVE card for the named user. The card
// number is encrypted with a key generated for this card alone; only
// the last 4 digits are kept in plaintext.
func (s *AdminCardService) CreateCard(ctx context.Context, username string, balance decimal.Decimal, expiresInYears int) (*models.Card, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if expiresInYears <= 0 {
		return nil, models.ErrInvalidExpiry
	}

	rawNumber, err := utils.GenerateCardNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate card number: %w", err)
	}
	panLast4 := utils.PanLast4(rawNumber)

	aesKey, err := utils.GenerateAESKey()
	if err != nil {
		return nil, err
	}
	encryptedNumber, err := utils.Encrypt(rawNumber, aesKey)
	if err != nil {
		return nil, err
	}

	card := &models.Card{
		OwnerID:         user.ID,
		OwnerUsername:   user.Username,
		EncryptedNumber: encryptedNumber,
		AESKey:          aesKey,
		PanLast4:        panLast4,
		Status:          models.CardStatusActive,
		Balance:         balance,
		Currency:        DefaultCurrency,
		Expiry:          time.Now().AddDate(expiresInYears, 0, 0),
	}
	if err := s.cards.CreateCard(ctx, card); err != nil {
		return nil, err
	}

	card.MaskedNumber = utils.MaskCardNumber(card.PanLast4)
	s.log.Infof("Card %d issued for user %s", card.ID, user.Username)
	return card, nil
}

// BlockCard confirms a user's block request. Only a card in
// PENDING_BLOCK may be blocked; the two-step flow keeps an
// administrative audit point between request and block.
func (s *AdminCardService) BlockCard(ctx context.Context, cardID int64) error {
	card, err := s.cards.FindCardByID(ctx, cardID)
	if err != nil {
		return err
	}

	if card.Status != models.CardStatusPendingBlock {
		return fmt.Errorf("%w: %d", models.ErrNoBlockRequestPending, cardID)
	}

	if err := s.cards.UpdateCardStatus(ctx, cardID, models.CardStatusBlocked); err != nil {
		return err
	}
	s.log.Infof("Card %d blocked", cardID)
	return nil
}

// ActivateCard reactivates a card from any status. Unlike blocking,
// reactivation is a recovery action and carries no state guard.
func (s *AdminCardService) ActivateCard(ctx context.Context, cardID int64) error {
	if _, err := s.cards.FindCardByID(ctx, cardID); err != nil {
		return err
	}

	if err := s.cards.UpdateCardStatus(ctx, cardID, models.CardStatusActive); err != nil {
		return err
	}
	s.log.Infof("Card %d activated", cardID)
	return nil
}

// DeleteCard removes a card permanently, regardless of balance or
// transaction history.
func (s *AdminCardService) DeleteCard(ctx context.Context, cardID int64) error {
	if err := s.cards.DeleteCard(ctx, cardID); err != nil {
		return err
	}
	s.log.Infof("Card %d deleted", cardID)
	return nil
}

// GetAllCards returns every card with its masked number populated.
func (s *AdminCardService) GetAllCards(ctx context.Context) ([]models.Card, error) {
	cards, err := s.cards.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i].MaskedNumber = utils.MaskCardNumber(cards[i].PanLast4)
	}
	return cards, nil
}
