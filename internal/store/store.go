// Package store declares the storage contracts shared by the Postgres and
// in-memory implementations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/models"
)

// Repo is typed CRUD over one table. Get, Update and Delete operate by
// primary key only; ownership is checked by the caller.
type Repo[T any, K comparable] interface {
	GetAll(ctx context.Context) ([]T, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]T, error)
	Get(ctx context.Context, id K) (*T, error)
	// Insert stores v. Serial keys are assigned by the store and written back.
	Insert(ctx context.Context, v *T) error
	// Update overwrites every column of an existing row.
	Update(ctx context.Context, v *T) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id K) (bool, error)
}

// TableHandle is the untyped view of a table used by bulk operations.
type TableHandle interface {
	Name() string
	Columns() []string
	Dump(ctx context.Context) ([][]any, error)
}

// Catalog resolves table handles by name.
type Catalog interface {
	TableNames() []string
	Lookup(name string) (TableHandle, error)
}

// LedgerFilter narrows a ledger query. Zero values mean unbounded.
type LedgerFilter struct {
	From       time.Time
	To         time.Time
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
	Limit      int
}

type Store interface {
	Users() Repo[models.User, uuid.UUID]
	Accounts() Repo[models.Account, uuid.UUID]
	Categories() Repo[models.Category, uuid.UUID]
	Transactions() Repo[models.Transaction, uuid.UUID]
	Bills() Repo[models.Bill, int64]
	Budgets() Repo[models.Budget, uuid.UUID]
	BudgetItems() Repo[models.BudgetItem, uuid.UUID]
	WishlistParents() Repo[models.WishlistParent, uuid.UUID]
	Wishlists() Repo[models.Wishlist, uuid.UUID]
	Insights() Repo[models.Insight, int64]
	Reports() Repo[models.Report, uuid.UUID]
	Charts() Repo[models.ChartData, int64]

	UserByEmail(ctx context.Context, email string) (*models.User, error)

	// Ledger returns the user's transactions joined with category and
	// account, newest first.
	Ledger(ctx context.Context, userID uuid.UUID, f LedgerFilter) ([]models.LedgerEntry, error)
	AccountBalances(ctx context.Context, userID uuid.UUID) ([]models.AccountBalance, error)
	GoalProgress(ctx context.Context, userID uuid.UUID) ([]models.GoalProgress, error)

	// DeleteWishlistParent removes the parent and its items atomically and
	// returns the number of items removed.
	DeleteWishlistParent(ctx context.Context, userID, parentID uuid.UUID) (int, error)
	DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) (int, error)
	// DeleteExpiredCharts removes cached charts expired at now. A nil userID
	// means every user.
	DeleteExpiredCharts(ctx context.Context, userID *uuid.UUID, now time.Time) (int, error)

	Catalog
}
