package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BillPending = "pending"
	BillPaid    = "paid"
	BillOverdue = "overdue"
)

const (
	RecurDaily   = "daily"
	RecurWeekly  = "weekly"
	RecurMonthly = "monthly"
	RecurYearly  = "yearly"
)

type Bill struct {
	ID                 int64           `json:"id" db:"id"`
	UserID             uuid.UUID       `json:"userId" db:"user_id"`
	Name               string          `json:"name" db:"name"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	DueDate            time.Time       `json:"dueDate" db:"due_date"`
	Status             string          `json:"status" db:"status"`
	CategoryID         *uuid.UUID      `json:"categoryId,omitempty" db:"category_id"`
	AutoRemind         bool            `json:"autoRemind" db:"auto_remind"`
	Notes              *string         `json:"notes,omitempty" db:"notes"`
	Currency           string          `json:"currency" db:"currency"`
	IsRecurring        bool            `json:"isRecurring" db:"is_recurring"`
	RecurrenceType     *string         `json:"recurrenceType,omitempty" db:"recurrence_type"`
	RecurrenceInterval *int            `json:"recurrenceInterval,omitempty" db:"recurrence_interval"`
	NextDueDate        *time.Time      `json:"nextDueDate,omitempty" db:"next_due_date"`
	CreatedAt          time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time       `json:"updatedAt" db:"updated_at"`
}

// EffectiveStatus reports overdue for unpaid bills whose due date is before
// the start of today. Overdue is never persisted by a transition.
func (b Bill) EffectiveStatus(now time.Time) string {
	if b.Status == BillPaid {
		return b.Status
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if b.DueDate.Before(today) {
		return BillOverdue
	}
	return b.Status
}
