// Package memstore is an in-memory store.Store used for local development
// and tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/aggregate"
	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

type Store struct {
	mu sync.RWMutex

	users           *table[models.User, uuid.UUID]
	accounts        *table[models.Account, uuid.UUID]
	categories      *table[models.Category, uuid.UUID]
	transactions    *table[models.Transaction, uuid.UUID]
	bills           *table[models.Bill, int64]
	budgets         *table[models.Budget, uuid.UUID]
	budgetItems     *table[models.BudgetItem, uuid.UUID]
	wishlistParents *table[models.WishlistParent, uuid.UUID]
	wishlists       *table[models.Wishlist, uuid.UUID]
	insights        *table[models.Insight, int64]
	reports         *table[models.Report, uuid.UUID]
	charts          *table[models.ChartData, int64]
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	s := &Store{}
	s.users = newTable(&s.mu, store.Users, nil)
	s.accounts = newTable(&s.mu, store.Accounts, nil)
	s.categories = newTable(&s.mu, store.Categories, nil)
	s.transactions = newTable(&s.mu, store.Transactions, nil)
	s.bills = newTable(&s.mu, store.Bills, serial())
	s.budgets = newTable(&s.mu, store.Budgets, nil)
	s.budgetItems = newTable(&s.mu, store.BudgetItems, nil)
	s.wishlistParents = newTable(&s.mu, store.WishlistParents, nil)
	s.wishlists = newTable(&s.mu, store.Wishlists, nil)
	s.insights = newTable(&s.mu, store.Insights, serial())
	s.reports = newTable(&s.mu, store.Reports, nil)
	s.charts = newTable(&s.mu, store.Charts, serial())
	return s
}

func (s *Store) Users() store.Repo[models.User, uuid.UUID]                   { return s.users }
func (s *Store) Accounts() store.Repo[models.Account, uuid.UUID]             { return s.accounts }
func (s *Store) Categories() store.Repo[models.Category, uuid.UUID]          { return s.categories }
func (s *Store) Transactions() store.Repo[models.Transaction, uuid.UUID]     { return s.transactions }
func (s *Store) Bills() store.Repo[models.Bill, int64]                       { return s.bills }
func (s *Store) Budgets() store.Repo[models.Budget, uuid.UUID]               { return s.budgets }
func (s *Store) BudgetItems() store.Repo[models.BudgetItem, uuid.UUID]       { return s.budgetItems }
func (s *Store) WishlistParents() store.Repo[models.WishlistParent, uuid.UUID] { return s.wishlistParents }
func (s *Store) Wishlists() store.Repo[models.Wishlist, uuid.UUID]           { return s.wishlists }
func (s *Store) Insights() store.Repo[models.Insight, int64]                 { return s.insights }
func (s *Store) Reports() store.Repo[models.Report, uuid.UUID]               { return s.reports }
func (s *Store) Charts() store.Repo[models.ChartData, int64]                 { return s.charts }

func (s *Store) handles() []store.TableHandle {
	return []store.TableHandle{
		s.users, s.accounts, s.categories, s.transactions, s.bills, s.budgets, s.budgetItems,
		s.wishlistParents, s.wishlists, s.insights, s.reports, s.charts,
	}
}

func (s *Store) TableNames() []string {
	return append([]string(nil), store.TableOrder...)
}

func (s *Store) Lookup(name string) (store.TableHandle, error) {
	name = strings.TrimSpace(name)
	for _, h := range s.handles() {
		if strings.EqualFold(h.Name(), name) {
			return h, nil
		}
	}
	switch strings.ToLower(name) {
	case store.BudgetItems.Table:
		return s.budgetItems, nil
	case store.WishlistParents.Table:
		return s.wishlistParents, nil
	case store.Charts.Table:
		return s.charts, nil
	}
	return nil, apperr.Configuration("no table registered under %q", name)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users.all() {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

// ledger joins the user's transactions; the caller holds the lock.
func (s *Store) ledger(userID uuid.UUID) []models.LedgerEntry {
	var out []models.LedgerEntry
	for _, t := range s.transactions.byOwner(userID) {
		c, okc := s.categories.rows[t.CategoryID]
		a, oka := s.accounts.rows[t.AccountID]
		if !okc || !oka {
			continue
		}
		out = append(out, models.LedgerEntry{
			Transaction:  t,
			IsPositive:   c.IsPositive,
			CategoryName: c.Name,
			AccountName:  a.Label,
		})
	}
	return out
}

func (s *Store) Ledger(ctx context.Context, userID uuid.UUID, f store.LedgerFilter) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.LedgerEntry
	for _, e := range s.ledger(userID) {
		switch {
		case !f.From.IsZero() && e.CreatedAt.Before(f.From):
		case !f.To.IsZero() && e.CreatedAt.After(f.To):
		case f.AccountID != nil && e.AccountID != *f.AccountID:
		case f.CategoryID != nil && e.CategoryID != *f.CategoryID:
		default:
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) AccountBalances(ctx context.Context, userID uuid.UUID) ([]models.AccountBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return aggregate.Balances(s.accounts.byOwner(userID), s.ledger(userID)), nil
}

func (s *Store) GoalProgress(ctx context.Context, userID uuid.UUID) ([]models.GoalProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return aggregate.GoalProgress(s.wishlistParents.byOwner(userID), s.wishlists.byOwner(userID)), nil
}

func (s *Store) DeleteWishlistParent(ctx context.Context, userID, parentID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.wishlistParents.rows[parentID]
	if !ok || p.UserID != userID {
		return 0, apperr.NotFound("wishlist parent")
	}
	removed := 0
	for _, w := range s.wishlists.byOwner(userID) {
		if w.ParentID == parentID && s.wishlists.remove(w.ID) {
			removed++
		}
	}
	s.wishlistParents.remove(parentID)
	return removed, nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets.rows[budgetID]
	if !ok || b.UserID != userID {
		return 0, apperr.NotFound("budget")
	}
	removed := 0
	for _, it := range s.budgetItems.byOwner(userID) {
		if it.BudgetID == budgetID && s.budgetItems.remove(it.ID) {
			removed++
		}
	}
	s.budgets.remove(budgetID)
	return removed, nil
}

func (s *Store) DeleteExpiredCharts(ctx context.Context, userID *uuid.UUID, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, c := range s.charts.all() {
		if userID != nil && c.UserID != *userID {
			continue
		}
		if c.IsCached && c.CacheExpiresAt != nil && c.CacheExpiresAt.Before(now) {
			if s.charts.remove(c.ID) {
				removed++
			}
		}
	}
	return removed, nil
}
