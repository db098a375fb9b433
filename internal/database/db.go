package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// Tables holds one typed table per entity. The set is fixed at compile time;
// Lookup resolves logical names against it.
type Tables struct {
	Users           *Table[models.User, uuid.UUID]
	Accounts        *Table[models.Account, uuid.UUID]
	Categories      *Table[models.Category, uuid.UUID]
	Transactions    *Table[models.Transaction, uuid.UUID]
	Bills           *Table[models.Bill, int64]
	Budgets         *Table[models.Budget, uuid.UUID]
	BudgetItems     *Table[models.BudgetItem, uuid.UUID]
	WishlistParents *Table[models.WishlistParent, uuid.UUID]
	Wishlists       *Table[models.Wishlist, uuid.UUID]
	Insights        *Table[models.Insight, int64]
	Reports         *Table[models.Report, uuid.UUID]
	Charts          *Table[models.ChartData, int64]

	byName map[string]store.TableHandle
}

func NewTables(db DBTX) *Tables {
	t := &Tables{
		Users:           NewTable(db, store.Users),
		Accounts:        NewTable(db, store.Accounts),
		Categories:      NewTable(db, store.Categories),
		Transactions:    NewTable(db, store.Transactions),
		Bills:           NewTable(db, store.Bills),
		Budgets:         NewTable(db, store.Budgets),
		BudgetItems:     NewTable(db, store.BudgetItems),
		WishlistParents: NewTable(db, store.WishlistParents),
		Wishlists:       NewTable(db, store.Wishlists),
		Insights:        NewTable(db, store.Insights),
		Reports:         NewTable(db, store.Reports),
		Charts:          NewTable(db, store.Charts),
	}
	t.byName = make(map[string]store.TableHandle)
	for _, h := range []store.TableHandle{
		t.Users, t.Accounts, t.Categories, t.Transactions, t.Bills, t.Budgets, t.BudgetItems,
		t.WishlistParents, t.Wishlists, t.Insights, t.Reports, t.Charts,
	} {
		t.byName[strings.ToLower(h.Name())] = h
	}
	t.byName[strings.ToLower(store.BudgetItems.Table)] = t.BudgetItems
	t.byName[strings.ToLower(store.WishlistParents.Table)] = t.WishlistParents
	t.byName[strings.ToLower(store.Charts.Table)] = t.Charts
	return t
}

// Lookup resolves a table by logical or SQL name.
func (t *Tables) Lookup(name string) (store.TableHandle, error) {
	if h, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return h, nil
	}
	return nil, apperr.Configuration("no table registered under %q", name)
}

func (t *Tables) TableNames() []string {
	return append([]string(nil), store.TableOrder...)
}

// Store implements store.Store on a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	tables *Tables
}

var (
	_ store.Store   = (*Store)(nil)
	_ store.Catalog = (*Tables)(nil)
)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, tables: NewTables(pool)}
}

func (s *Store) Lookup(name string) (store.TableHandle, error) { return s.tables.Lookup(name) }
func (s *Store) TableNames() []string                          { return s.tables.TableNames() }

func (s *Store) Users() store.Repo[models.User, uuid.UUID]             { return s.tables.Users }
func (s *Store) Accounts() store.Repo[models.Account, uuid.UUID]       { return s.tables.Accounts }
func (s *Store) Categories() store.Repo[models.Category, uuid.UUID]    { return s.tables.Categories }
func (s *Store) Transactions() store.Repo[models.Transaction, uuid.UUID] {
	return s.tables.Transactions
}
func (s *Store) Bills() store.Repo[models.Bill, int64]                 { return s.tables.Bills }
func (s *Store) Budgets() store.Repo[models.Budget, uuid.UUID]         { return s.tables.Budgets }
func (s *Store) BudgetItems() store.Repo[models.BudgetItem, uuid.UUID] { return s.tables.BudgetItems }
func (s *Store) WishlistParents() store.Repo[models.WishlistParent, uuid.UUID] {
	return s.tables.WishlistParents
}
func (s *Store) Wishlists() store.Repo[models.Wishlist, uuid.UUID] { return s.tables.Wishlists }
func (s *Store) Insights() store.Repo[models.Insight, int64]       { return s.tables.Insights }
func (s *Store) Reports() store.Repo[models.Report, uuid.UUID]     { return s.tables.Reports }
func (s *Store) Charts() store.Repo[models.ChartData, int64]       { return s.tables.Charts }

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.tables.Users.Where(ctx, "lower(email) = lower($1)", "", email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperr.NotFound("user")
	}
	return &users[0], nil
}

// inTx commits when fn returns nil and rolls back otherwise.
func (s *Store) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, fn)
}

// ReadSnapshot runs fn against tables bound to one read-only repeatable-read
// transaction, so every dump sees the same point in time.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(store.Catalog) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("starting snapshot: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck
	if err := fn(NewTables(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) DeleteWishlistParent(ctx context.Context, userID, parentID uuid.UUID) (int, error) {
	var removed int
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM wishlists WHERE parent_id = $1 AND user_id = $2`, parentID, userID)
		if err != nil {
			return fmt.Errorf("deleting wishlist items: %w", err)
		}
		removed = int(tag.RowsAffected())
		tag, err = tx.Exec(ctx, `DELETE FROM wishlist_parents WHERE id = $1 AND user_id = $2`, parentID, userID)
		if err != nil {
			return fmt.Errorf("deleting wishlist parent: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("wishlist parent")
		}
		return nil
	})
	return removed, err
}

func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) (int, error) {
	var removed int
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM budget_items WHERE budget_id = $1 AND user_id = $2`, budgetID, userID)
		if err != nil {
			return fmt.Errorf("deleting budget items: %w", err)
		}
		removed = int(tag.RowsAffected())
		tag, err = tx.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
		if err != nil {
			return fmt.Errorf("deleting budget: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("budget")
		}
		return nil
	})
	return removed, err
}

func (s *Store) DeleteExpiredCharts(ctx context.Context, userID *uuid.UUID, now time.Time) (int, error) {
	q := `DELETE FROM chart_data WHERE is_cached AND cache_expires_at IS NOT NULL AND cache_expires_at < $1`
	args := []any{now}
	if userID != nil {
		q += ` AND user_id = $2`
		args = append(args, *userID)
	}
	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("clearing expired charts: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
