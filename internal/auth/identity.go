package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/models"
)

// CallerIdentity is the authenticated user behind a request.
type CallerIdentity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

type UserFinder interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Resolver maps validated token claims to a CallerIdentity. Debug tokens
// carry the email as subject, user tokens carry the id; both are accepted.
type Resolver struct {
	users UserFinder
}

func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

// Resolve tries, in order: the subject (email lookup or id), the
// caller-identity claims, then the email claims.
func (r *Resolver) Resolve(ctx context.Context, claims jwt.MapClaims) (CallerIdentity, error) {
	str := func(key string) string {
		v, _ := claims[key].(string)
		return strings.TrimSpace(v)
	}
	role := str(ClaimRole)
	if role == "" {
		role = models.DefaultRole
	}

	if sub := str("sub"); sub != "" {
		if strings.Contains(sub, "@") {
			id, ok, err := r.byEmail(ctx, sub, role)
			if err != nil || ok {
				return id, err
			}
		} else if uid, err := uuid.Parse(sub); err == nil {
			return CallerIdentity{UserID: uid, Email: str(ClaimEmail), Role: role}, nil
		}
	}

	for _, key := range []string{ClaimUID, "nameid", ClaimNameIdentifierURI} {
		if uid, err := uuid.Parse(str(key)); err == nil {
			return CallerIdentity{UserID: uid, Email: str(ClaimEmail), Role: role}, nil
		}
	}

	for _, key := range []string{ClaimEmail, ClaimEmailURI} {
		if email := str(key); email != "" {
			id, ok, err := r.byEmail(ctx, email, role)
			if err != nil || ok {
				return id, err
			}
		}
	}
	return CallerIdentity{}, apperr.Unauthorized("token does not identify a user")
}

func (r *Resolver) byEmail(ctx context.Context, email, role string) (CallerIdentity, bool, error) {
	u, err := r.users.UserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return CallerIdentity{}, false, nil
		}
		return CallerIdentity{}, false, apperr.Internal("resolving caller", err)
	}
	return CallerIdentity{UserID: u.ID, Email: u.Email, Role: role}, true, nil
}
