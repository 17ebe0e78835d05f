package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dan9191/bank-cards/internal/models"
)

const cardColumns = `
	c.id, c.owner_id, u.username, c.encrypted_number, c.aes_key, c.pan_last4,
	c.status, c.balance, c.currency, c.expiry, c.created_at, c.updated_at`

// CreateCard persists a new card and fills in the generated fields.
func (r *Repository) CreateCard(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO bank.cards
			(owner_id, encrypted_number, aes_key, pan_last4, status, balance, currency, expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		card.OwnerID, card.EncryptedNumber, card.AESKey, card.PanLast4,
		string(card.Status), card.Balance, card.Currency, card.Expiry).
		Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// FindCardByID retrieves a card together with its owner's username.
func (r *Repository) FindCardByID(ctx context.Context, id int64) (*models.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM bank.cards c
		JOIN bank.users u ON u.id = c.owner_id
		WHERE c.id = $1`
	card := &models.Card{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.OwnerID, &card.OwnerUsername, &card.EncryptedNumber,
		&card.AESKey, &card.PanLast4, &card.Status, &card.Balance,
		&card.Currency, &card.Expiry, &card.CreatedAt, &card.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", models.ErrCardNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return card, nil
}

// ListCards retrieves every card in the system.
func (r *Repository) ListCards(ctx context.Context) ([]models.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM bank.cards c
		JOIN bank.users u ON u.id = c.owner_id
		ORDER BY c.id`
	return r.queryCards(ctx, query)
}

// ListCardsByOwner retrieves the owner's cards with optional filtering
// and limit/offset pagination.
func (r *Repository) ListCardsByOwner(ctx context.Context, ownerID int64, filter CardFilter, page Page) ([]models.Card, error) {
	page = page.Normalize()
	query := `
		SELECT ` + cardColumns + `
		FROM bank.cards c
		JOIN bank.users u ON u.id = c.owner_id
		WHERE c.owner_id = $1`
	args := []any{ownerID}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND c.status = $%d", len(args))
	}
	if filter.MinBalance != nil {
		args = append(args, *filter.MinBalance)
		query += fmt.Sprintf(" AND c.balance >= $%d", len(args))
	}
	if filter.MaxBalance != nil {
		args = append(args, *filter.MaxBalance)
		query += fmt.Sprintf(" AND c.balance <= $%d", len(args))
	}

	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(" ORDER BY c.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.queryCards(ctx, query, args...)
}

// UpdateCardStatus sets the status of a single card.
func (r *Repository) UpdateCardStatus(ctx context.Context, id int64, status models.CardStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bank.cards
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update card status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d", models.ErrCardNotFound, id)
	}
	return nil
}

// DeleteCard removes a card permanently.
func (r *Repository) DeleteCard(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bank.cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d", models.ErrCardNotFound, id)
	}
	return nil
}

// ExpiringCard is a notification view of a card nearing its expiry date.
type ExpiringCard struct {
	CardID     int64
	PanLast4   string
	Expiry     time.Time
	OwnerName  string
	OwnerEmail string
}

// ListExpiringCards retrieves ACTIVE cards whose expiry falls on or
// before the given date, with owner contact details for notification.
func (r *Repository) ListExpiringCards(ctx context.Context, before time.Time) ([]ExpiringCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.pan_last4, c.expiry, u.username, u.email
		FROM bank.cards c
		JOIN bank.users u ON u.id = c.owner_id
		WHERE c.status = $1 AND c.expiry <= $2
		ORDER BY c.expiry`, string(models.CardStatusActive), before)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring cards: %w", err)
	}
	defer rows.Close()

	var cards []ExpiringCard
	for rows.Next() {
		var ec ExpiringCard
		if err := rows.Scan(&ec.CardID, &ec.PanLast4, &ec.Expiry, &ec.OwnerName, &ec.OwnerEmail); err != nil {
			return nil, fmt.Errorf("failed to scan expiring card: %w", err)
		}
		cards = append(cards, ec)
	}
	return cards, rows.Err()
}

func (r *Repository) queryCards(ctx context.Context, query string, args ...any) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		err := rows.Scan(
			&c.ID, &c.OwnerID, &c.OwnerUsername, &c.EncryptedNumber,
			&c.AESKey, &c.PanLast4, &c.Status, &c.Balance,
			&c.Currency, &c.Expiry, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return cards, nil
}
