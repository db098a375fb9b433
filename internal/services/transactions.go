package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

// refs validates a transaction and resolves the account and category it
// points at. Unknown or foreign references are validation failures.
func (s *Service) refs(ctx context.Context, userID uuid.UUID, t *models.Transaction) (*models.Account, *models.Category, error) {
	var r rules
	r.check(t.AccountID != uuid.Nil, "accountId is required")
	r.check(t.CategoryID != uuid.Nil, "categoryId is required")
	r.check(validAmount(t.Amount), "amount must be greater than 0 and at most %s", maxAmount)
	r.maxLen("description", t.Description, 500)
	if err := r.err(); err != nil {
		return nil, nil, err
	}
	acc, err := owned(ctx, s.store.Accounts(), store.Accounts, t.AccountID, userID, "account")
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil, apperr.Validation("account %s does not exist", t.AccountID)
		}
		return nil, nil, err
	}
	cat, err := owned(ctx, s.store.Categories(), store.Categories, t.CategoryID, userID, "category")
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil, apperr.Validation("category %s does not exist", t.CategoryID)
		}
		return nil, nil, err
	}
	return acc, cat, nil
}

func entry(t models.Transaction, acc *models.Account, cat *models.Category) models.LedgerEntry {
	return models.LedgerEntry{
		Transaction:  t,
		IsPositive:   cat.IsPositive,
		CategoryName: cat.Name,
		AccountName:  acc.Label,
	}
}

func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.LedgerEntry, error) {
	return s.store.Ledger(ctx, userID, store.LedgerFilter{})
}

func (s *Service) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*models.LedgerEntry, error) {
	t, err := owned(ctx, s.store.Transactions(), store.Transactions, id, userID, "transaction")
	if err != nil {
		return nil, err
	}
	acc, err := s.store.Accounts().Get(ctx, t.AccountID)
	if err != nil {
		return nil, fmt.Errorf("loading account of transaction %s: %w", id, err)
	}
	cat, err := s.store.Categories().Get(ctx, t.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("loading category of transaction %s: %w", id, err)
	}
	e := entry(*t, acc, cat)
	return &e, nil
}

func (s *Service) TransactionsByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]models.LedgerEntry, error) {
	if _, err := s.GetAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	return s.store.Ledger(ctx, userID, store.LedgerFilter{AccountID: &accountID})
}

func (s *Service) TransactionsByCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]models.LedgerEntry, error) {
	if _, err := s.GetCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	return s.store.Ledger(ctx, userID, store.LedgerFilter{CategoryID: &categoryID})
}

func (s *Service) CreateTransaction(ctx context.Context, userID uuid.UUID, in models.Transaction) (*models.LedgerEntry, error) {
	acc, cat, err := s.refs(ctx, userID, &in)
	if err != nil {
		return nil, err
	}
	in.ID = uuid.New()
	in.UserID = userID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.Transactions().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	e := entry(in, acc, cat)
	return &e, nil
}

func (s *Service) UpdateTransaction(ctx context.Context, userID, id uuid.UUID, in models.Transaction) (*models.LedgerEntry, error) {
	cur, err := owned(ctx, s.store.Transactions(), store.Transactions, id, userID, "transaction")
	if err != nil {
		return nil, err
	}
	acc, cat, err := s.refs(ctx, userID, &in)
	if err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Transactions().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}
	e := entry(in, acc, cat)
	return &e, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	return remove(ctx, s.store.Transactions(), store.Transactions, id, userID, "transaction")
}
