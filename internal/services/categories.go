package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

func (s *Service) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	return s.store.Categories().ListByUser(ctx, userID)
}

func (s *Service) GetCategory(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	return owned(ctx, s.store.Categories(), store.Categories, id, userID, "category")
}

// checkCategory validates c and rejects a name another category of the
// same user already has. self is skipped on update.
func (s *Service) checkCategory(ctx context.Context, userID uuid.UUID, c *models.Category, self uuid.UUID) error {
	var r rules
	r.required("name", c.Name, 100)
	r.maxLen("description", c.Description, 500)
	if err := r.err(); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(c.Name)
	existing, err := s.store.Categories().ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID != self && strings.EqualFold(e.Name, c.Name) {
			return apperr.Conflict("category %q already exists", c.Name)
		}
	}
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, userID uuid.UUID, in models.Category) (*models.Category, error) {
	if err := s.checkCategory(ctx, userID, &in, uuid.Nil); err != nil {
		return nil, err
	}
	in.ID = uuid.New()
	in.UserID = userID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.Categories().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateCategory(ctx context.Context, userID, id uuid.UUID, in models.Category) (*models.Category, error) {
	cur, err := s.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, &in, id); err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Categories().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating category: %w", err)
	}
	return &in, nil
}

func (s *Service) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	return remove(ctx, s.store.Categories(), store.Categories, id, userID, "category")
}
