package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	UserID      uuid.UUID        `json:"userId" db:"user_id"`
	Label       string           `json:"label" db:"label"`
	Description string           `json:"description" db:"description"`
	InitValue   decimal.Decimal  `json:"initValue" db:"init_value"`
	Limit       *decimal.Decimal `json:"limit,omitempty" db:"credit_limit"`
	IsCredit    bool             `json:"isCredit" db:"is_credit"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
}

// AccountBalance is an account together with its computed running balance.
type AccountBalance struct {
	AccountID        uuid.UUID       `json:"accountId" db:"account_id"`
	Label            string          `json:"label" db:"label"`
	IsCredit         bool            `json:"isCredit" db:"is_credit"`
	InitValue        decimal.Decimal `json:"initValue" db:"init_value"`
	Balance          decimal.Decimal `json:"balance" db:"balance"`
	TransactionCount int             `json:"transactionCount" db:"transaction_count"`
}
