package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

func validateBudget(b *models.Budget) error {
	var r rules
	r.required("name", b.Name, 100)
	r.maxLen("description", b.Description, 500)
	return r.err()
}

func validateBudgetItem(it *models.BudgetItem) error {
	var r rules
	r.required("name", it.Name, 100)
	r.maxLen("description", it.Description, 500)
	r.check(!it.Amount.IsNegative(), "amount cannot be negative")
	return r.err()
}

func (s *Service) ListBudgets(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	return s.store.Budgets().ListByUser(ctx, userID)
}

func (s *Service) GetBudget(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error) {
	return owned(ctx, s.store.Budgets(), store.Budgets, id, userID, "budget")
}

func (s *Service) CreateBudget(ctx context.Context, userID uuid.UUID, in models.Budget) (*models.Budget, error) {
	if err := validateBudget(&in); err != nil {
		return nil, err
	}
	in.ID = uuid.New()
	in.UserID = userID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.Budgets().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating budget: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateBudget(ctx context.Context, userID, id uuid.UUID, in models.Budget) (*models.Budget, error) {
	cur, err := s.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := validateBudget(&in); err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Budgets().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating budget: %w", err)
	}
	return &in, nil
}

// DeleteBudget removes the budget and its items and returns how many items
// went with it.
func (s *Service) DeleteBudget(ctx context.Context, userID, id uuid.UUID) (int, error) {
	return s.store.DeleteBudget(ctx, userID, id)
}

func (s *Service) ListBudgetItems(ctx context.Context, userID, budgetID uuid.UUID) ([]models.BudgetItem, error) {
	if _, err := s.GetBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}
	all, err := s.store.BudgetItems().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []models.BudgetItem{}
	for _, it := range all {
		if it.BudgetID == budgetID {
			out = append(out, it)
		}
	}
	return out, nil
}

// budgetItem loads an item that must belong to budgetID as well as userID.
func (s *Service) budgetItem(ctx context.Context, userID, budgetID, itemID uuid.UUID) (*models.BudgetItem, error) {
	if _, err := s.GetBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}
	it, err := owned(ctx, s.store.BudgetItems(), store.BudgetItems, itemID, userID, "budget item")
	if err != nil {
		return nil, err
	}
	if it.BudgetID != budgetID {
		return nil, apperr.NotFound("budget item")
	}
	return it, nil
}

func (s *Service) CreateBudgetItem(ctx context.Context, userID, budgetID uuid.UUID, in models.BudgetItem) (*models.BudgetItem, error) {
	if _, err := s.GetBudget(ctx, userID, budgetID); err != nil {
		return nil, err
	}
	if err := validateBudgetItem(&in); err != nil {
		return nil, err
	}
	in.ID = uuid.New()
	in.UserID = userID
	in.BudgetID = budgetID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.BudgetItems().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating budget item: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateBudgetItem(ctx context.Context, userID, budgetID, itemID uuid.UUID, in models.BudgetItem) (*models.BudgetItem, error) {
	cur, err := s.budgetItem(ctx, userID, budgetID, itemID)
	if err != nil {
		return nil, err
	}
	if err := validateBudgetItem(&in); err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.BudgetID, in.CreatedAt = cur.ID, cur.UserID, cur.BudgetID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.BudgetItems().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating budget item: %w", err)
	}
	return &in, nil
}

func (s *Service) DeleteBudgetItem(ctx context.Context, userID, budgetID, itemID uuid.UUID) error {
	if _, err := s.budgetItem(ctx, userID, budgetID, itemID); err != nil {
		return err
	}
	return remove(ctx, s.store.BudgetItems(), store.BudgetItems, itemID, userID, "budget item")
}

// latestBudget returns the most recently created budget with its items, or
// nil when the user has none.
func (s *Service) latestBudget(ctx context.Context, userID uuid.UUID) (*models.BudgetWithItems, error) {
	budgets, err := s.store.Budgets().ListByUser(ctx, userID)
	if err != nil || len(budgets) == 0 {
		return nil, err
	}
	sort.SliceStable(budgets, func(i, j int) bool { return budgets[i].CreatedAt.After(budgets[j].CreatedAt) })
	items, err := s.ListBudgetItems(ctx, userID, budgets[0].ID)
	if err != nil {
		return nil, err
	}
	return &models.BudgetWithItems{Budget: budgets[0], Items: items}, nil
}
