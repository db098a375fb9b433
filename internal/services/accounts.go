package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

func validateAccount(a *models.Account) error {
	var r rules
	r.required("label", a.Label, 100)
	r.maxLen("description", a.Description, 500)
	r.check(a.Limit == nil || a.Limit.IsPositive(), "limit must be greater than 0")
	return r.err()
}

func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	return s.store.Accounts().ListByUser(ctx, userID)
}

func (s *Service) GetAccount(ctx context.Context, userID, id uuid.UUID) (*models.Account, error) {
	return owned(ctx, s.store.Accounts(), store.Accounts, id, userID, "account")
}

func (s *Service) CreateAccount(ctx context.Context, userID uuid.UUID, in models.Account) (*models.Account, error) {
	if err := validateAccount(&in); err != nil {
		return nil, err
	}
	in.ID = uuid.New()
	in.UserID = userID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.Accounts().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateAccount(ctx context.Context, userID, id uuid.UUID, in models.Account) (*models.Account, error) {
	cur, err := s.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateAccount(&in); err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Accounts().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}
	return &in, nil
}

func (s *Service) DeleteAccount(ctx context.Context, userID, id uuid.UUID) error {
	return remove(ctx, s.store.Accounts(), store.Accounts, id, userID, "account")
}

func (s *Service) AccountBalances(ctx context.Context, userID uuid.UUID) ([]models.AccountBalance, error) {
	return s.store.AccountBalances(ctx, userID)
}

func (s *Service) AccountBalance(ctx context.Context, userID, id uuid.UUID) (*models.AccountBalance, error) {
	if _, err := s.GetAccount(ctx, userID, id); err != nil {
		return nil, err
	}
	all, err := s.store.AccountBalances(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].AccountID == id {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("balance for account %s missing from aggregate", id)
}
