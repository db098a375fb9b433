package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/models"
)

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}
	return u, nil
}

// FindOrCreateUser returns the user registered under email, creating one
// with the default role on first sight.
func (s *Service) FindOrCreateUser(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email %q", email)
	}
	u, err := s.store.UserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	nu := models.User{ID: uuid.New(), Email: email, Role: models.DefaultRole}
	s.stamp(&nu.CreatedAt, &nu.UpdatedAt)
	if err := s.store.Users().Insert(ctx, &nu); err != nil {
		return nil, fmt.Errorf("registering %s: %w", email, err)
	}
	return &nu, nil
}
