package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/shopspring/decimal"
)

// Transfer atomically moves amount from one card to another and appends
// a COMPLETED transaction row. Both card rows are locked in ascending-id
// order so two opposite-direction transfers cannot deadlock. Either all
// three writes commit or none do.
func (r *Repository) Transfer(ctx context.Context, fromCardID, toCardID int64, amount decimal.Decimal, currency, description string) (*models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	first, second := fromCardID, toCardID
	if second < first {
		first, second = second, first
	}
	balances := make(map[int64]decimal.Decimal, 2)
	for _, id := range []int64{first, second} {
		var balance decimal.Decimal
		err := tx.QueryRowContext(ctx,
			`SELECT balance FROM bank.cards WHERE id = $1 FOR UPDATE`, id).
			Scan(&balance)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %d", models.ErrCardNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock card %d: %w", id, err)
		}
		balances[id] = balance
	}

	if balances[fromCardID].LessThan(amount) {
		return nil, fmt.Errorf("%w: card %d", models.ErrInsufficientFunds, fromCardID)
	}

	debit := `
		UPDATE bank.cards
		SET balance = balance - $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, debit, fromCardID, amount); err != nil {
		return nil, fmt.Errorf("failed to debit card %d: %w", fromCardID, err)
	}

	credit := `
		UPDATE bank.cards
		SET balance = balance + $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`
	if _, err := tx.ExecContext(ctx, credit, toCardID, amount); err != nil {
		return nil, fmt.Errorf("failed to credit card %d: %w", toCardID, err)
	}

	txn := &models.Transaction{
		FromCardID:  &fromCardID,
		ToCardID:    &toCardID,
		Amount:      amount,
		Currency:    currency,
		Status:      models.TransactionCompleted,
		Description: description,
	}
	insert := `
		INSERT INTO bank.transactions (from_card_id, to_card_id, amount, currency, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, insert,
		fromCardID, toCardID, amount, currency, string(txn.Status), description).
		Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return txn, nil
}

// ListTransactionsByCard retrieves every transaction where the card is
// either endpoint, newest first.
func (r *Repository) ListTransactionsByCard(ctx context.Context, cardID int64) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, from_card_id, to_card_id, amount, currency, status, description, created_at
		FROM bank.transactions
		WHERE from_card_id = $1 OR to_card_id = $1
		ORDER BY created_at DESC`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var from, to sql.NullInt64
		err := rows.Scan(&t.ID, &from, &to, &t.Amount, &t.Currency, &t.Status, &t.Description, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if from.Valid {
			t.FromCardID = &from.Int64
		}
		if to.Valid {
			t.ToCardID = &to.Int64
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}
