package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fakeStore is an in-memory stand-in for the repository. Transfer
// mirrors the real store's contract: the funds check and all three
// writes happen under one lock.
type fakeStore struct {
	mu         sync.Mutex
	users      map[int64]*models.User
	cards      map[int64]*models.Card
	txns       []models.Transaction
	nextUserID int64
	nextCardID int64
	nextTxnID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]*models.User),
		cards: make(map[int64]*models.Card),
	}
}

func (f *fakeStore) addUser(username, email string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUserID++
	u := &models.User{
		ID:        f.nextUserID,
		Username:  username,
		Email:     email,
		Roles:     []models.Role{models.RoleUser},
		CreatedAt: time.Now(),
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addCard(owner *models.User, balance string, status models.CardStatus) *models.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCardID++
	c := &models.Card{
		ID:            f.nextCardID,
		OwnerID:       owner.ID,
		OwnerUsername: owner.Username,
		PanLast4:      fmt.Sprintf("%04d", f.nextCardID),
		Status:        status,
		Balance:       decimal.RequireFromString(balance),
		Currency:      DefaultCurrency,
		Expiry:        time.Now().AddDate(3, 0, 0),
	}
	f.cards[c.ID] = c
	return c
}

func (f *fakeStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrUserNotFound, username)
}

func (f *fakeStore) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrUserNotFound, id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: %s", models.ErrUserAlreadyExists, user.Username)
		}
	}
	f.nextUserID++
	user.ID = f.nextUserID
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []models.User
	for _, u := range f.users {
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeStore) UpdateUserRoles(_ context.Context, userID int64, roles []models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("%w: %d", models.ErrUserNotFound, userID)
	}
	u.Roles = roles
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("%w: %d", models.ErrUserNotFound, id)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) CreateCard(_ context.Context, card *models.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCardID++
	card.ID = f.nextCardID
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	copied := *card
	f.cards[card.ID] = &copied
	return nil
}

func (f *fakeStore) FindCardByID(_ context.Context, id int64) (*models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrCardNotFound, id)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeStore) ListCards(_ context.Context) ([]models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cards []models.Card
	for id := int64(1); id <= f.nextCardID; id++ {
		if c, ok := f.cards[id]; ok {
			cards = append(cards, *c)
		}
	}
	return cards, nil
}

func (f *fakeStore) ListCardsByOwner(_ context.Context, ownerID int64, filter repository.CardFilter, page repository.Page) ([]models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page = page.Normalize()
	var cards []models.Card
	for id := int64(1); id <= f.nextCardID; id++ {
		c, ok := f.cards[id]
		if !ok || c.OwnerID != ownerID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.MinBalance != nil && c.Balance.LessThan(*filter.MinBalance) {
			continue
		}
		if filter.MaxBalance != nil && c.Balance.GreaterThan(*filter.MaxBalance) {
			continue
		}
		cards = append(cards, *c)
	}
	if page.Offset >= len(cards) {
		return nil, nil
	}
	cards = cards[page.Offset:]
	if len(cards) > page.Limit {
		cards = cards[:page.Limit]
	}
	return cards, nil
}

func (f *fakeStore) UpdateCardStatus(_ context.Context, id int64, status models.CardStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok {
		return fmt.Errorf("%w: %d", models.ErrCardNotFound, id)
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) DeleteCard(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cards[id]; !ok {
		return fmt.Errorf("%w: %d", models.ErrCardNotFound, id)
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeStore) Transfer(_ context.Context, fromCardID, toCardID int64, amount decimal.Decimal, currency, description string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	from, ok := f.cards[fromCardID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrCardNotFound, fromCardID)
	}
	to, ok := f.cards[toCardID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", models.ErrCardNotFound, toCardID)
	}

	if from.Balance.LessThan(amount) {
		return nil, fmt.Errorf("%w: card %d", models.ErrInsufficientFunds, fromCardID)
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	f.nextTxnID++
	txn := models.Transaction{
		ID:          f.nextTxnID,
		FromCardID:  &fromCardID,
		ToCardID:    &toCardID,
		Amount:      amount,
		Currency:    currency,
		Status:      models.TransactionCompleted,
		Description: description,
		CreatedAt:   time.Now(),
	}
	f.txns = append(f.txns, txn)
	copied := txn
	return &copied, nil
}

func (f *fakeStore) ListTransactionsByCard(_ context.Context, cardID int64) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var txns []models.Transaction
	for i := len(f.txns) - 1; i >= 0; i-- {
		t := f.txns[i]
		if (t.FromCardID != nil && *t.FromCardID == cardID) ||
			(t.ToCardID != nil && *t.ToCardID == cardID) {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

func (f *fakeStore) transactionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.txns)
}

func (f *fakeStore) cardBalance(id int64) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cards[id].Balance
}

func (f *fakeStore) cardStatus(id int64) models.CardStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cards[id].Status
}

// fakeNotifier records notification calls.
type fakeNotifier struct {
	mu          sync.Mutex
	blockAlerts int
	receipts    int
}

func (n *fakeNotifier) SendBlockRequestAlert(string, int64, string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.blockAlerts++
	return nil
}

func (n *fakeNotifier) SendTransferReceipt(string, string, string, string, decimal.Decimal, string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.receipts++
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
