package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WishlistParent groups wishlist items into a savings goal.
type WishlistParent struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type Wishlist struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	ParentID    uuid.UUID       `json:"parentId" db:"parent_id"`
	Label       string          `json:"label" db:"label"`
	Description string          `json:"description" db:"description"`
	URL         string          `json:"url" db:"url"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// WishlistWithParent is a wishlist item joined with its goal name.
type WishlistWithParent struct {
	Wishlist
	ParentName string `json:"parentName"`
}

// GoalProgress summarises the items under one wishlist parent.
type GoalProgress struct {
	ParentID         uuid.UUID       `json:"parentId" db:"parent_id"`
	Name             string          `json:"name" db:"name"`
	Description      string          `json:"description" db:"description"`
	TotalItems       int             `json:"totalItems" db:"total_items"`
	TotalValue       decimal.Decimal `json:"totalValue" db:"total_value"`
	AverageItemPrice decimal.Decimal `json:"averageItemPrice" db:"average_item_price"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
}
