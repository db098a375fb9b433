package models

import (
	"time"

	"github.com/google/uuid"
)

type Insight struct {
	ID             int64      `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"userId" db:"user_id"`
	Type           string     `json:"type" db:"type"`
	Title          string     `json:"title" db:"title"`
	Content        string     `json:"content" db:"content"`
	Priority       string     `json:"priority" db:"priority"`
	Category       string     `json:"category" db:"category"`
	IsRead         bool       `json:"isRead" db:"is_read"`
	IsActionable   bool       `json:"isActionable" db:"is_actionable"`
	ActionData     *string    `json:"actionData,omitempty" db:"action_data"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	AIProvider     *string    `json:"aiProvider,omitempty" db:"ai_provider"`
	AIModelVersion *string    `json:"aiModelVersion,omitempty" db:"ai_model_version"`
}
