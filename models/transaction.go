package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction amounts are always positive. The sign comes from the
// category's IsPositive flag.
type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	AccountID   uuid.UUID       `json:"accountId" db:"account_id"`
	CategoryID  uuid.UUID       `json:"categoryId" db:"category_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// LedgerEntry is a transaction joined with its category and account.
type LedgerEntry struct {
	Transaction
	IsPositive   bool   `json:"isPositive" db:"is_positive"`
	CategoryName string `json:"categoryName" db:"category_name"`
	AccountName  string `json:"accountName" db:"account_name"`
}

// Signed returns the amount with the sign of its category applied.
func (e LedgerEntry) Signed() decimal.Decimal {
	if e.IsPositive {
		return e.Amount
	}
	return e.Amount.Neg()
}
