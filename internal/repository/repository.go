package repository

import (
	"database/sql"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/shopspring/decimal"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CardFilter narrows card listings. Nil fields are not applied.
type CardFilter struct {
	Status     *models.CardStatus
	MinBalance *decimal.Decimal
	MaxBalance *decimal.Decimal
}

// Page describes limit/offset pagination.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage bounds unpaged listings.
var DefaultPage = Page{Limit: 20, Offset: 0}

// Normalize clamps nonsensical values to the defaults.
func (p Page) Normalize() Page {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = DefaultPage.Limit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
