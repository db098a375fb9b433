// Package services holds the resource operations behind the HTTP handlers.
// Every method takes the caller's user id and only ever touches rows owned
// by that user; rows owned by someone else are reported as not found.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/craftmatrix/savetrack-api/internal/ai"
	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
)

// Generator produces insight text. *ai.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, kind ai.Kind, data ai.Data) string
	Model() string
}

type Service struct {
	store store.Store
	ai    Generator
	now   func() time.Time
}

func New(st store.Store, gen Generator) *Service {
	return &Service{store: st, ai: gen, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Store() store.Store { return s.store }

// owned loads id from repo and hides it unless userID owns it.
func owned[T any, K comparable](ctx context.Context, repo store.Repo[T, K], schema store.Schema[T, K], id K, userID uuid.UUID, resource string) (*T, error) {
	v, err := repo.Get(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound(resource)
		}
		return nil, err
	}
	if schema.Owner(v) != userID {
		return nil, apperr.NotFound(resource)
	}
	return v, nil
}

func remove[T any, K comparable](ctx context.Context, repo store.Repo[T, K], schema store.Schema[T, K], id K, userID uuid.UUID, resource string) error {
	if _, err := owned(ctx, repo, schema, id, userID, resource); err != nil {
		return err
	}
	ok, err := repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", resource, err)
	}
	if !ok {
		return apperr.NotFound(resource)
	}
	return nil
}

// rules collects validation failures so the client sees all of them at once.
type rules []string

func (r *rules) check(ok bool, format string, args ...any) {
	if !ok {
		*r = append(*r, fmt.Sprintf(format, args...))
	}
}

func (r *rules) required(field, v string, max int) {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	r.check(n > 0, "%s is required", field)
	r.check(n <= max, "%s must be at most %d characters", field, max)
}

func (r *rules) maxLen(field, v string, max int) {
	r.check(utf8.RuneCountInString(v) <= max, "%s must be at most %d characters", field, max)
}

func (r *rules) json(field string, raw []byte) {
	r.check(len(raw) > 0 && json.Valid(raw), "%s must be valid JSON", field)
}

func (r rules) err() error {
	if len(r) == 0 {
		return nil
	}
	return apperr.Validation("%s", strings.Join(r, "; "))
}

var maxAmount = decimal.RequireFromString("999999.99")

func validAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.LessThanOrEqual(maxAmount)
}

// stamp sets both timestamps on create.
func (s *Service) stamp(created, updated *time.Time) {
	now := s.now()
	*created, *updated = now, now
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
