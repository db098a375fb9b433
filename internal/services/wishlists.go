package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

func (s *Service) checkWishlistParent(ctx context.Context, userID uuid.UUID, p *models.WishlistParent, self uuid.UUID) error {
	var r rules
	r.required("name", p.Name, 100)
	r.maxLen("description", p.Description, 500)
	if err := r.err(); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(p.Name)
	existing, err := s.store.WishlistParents().ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID != self && strings.EqualFold(e.Name, p.Name) {
			return apperr.Conflict("wishlist %q already exists", p.Name)
		}
	}
	return nil
}

func (s *Service) ListWishlistParents(ctx context.Context, userID uuid.UUID) ([]models.WishlistParent, error) {
	ps, err := s.store.WishlistParents().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	return ps, nil
}

func (s *Service) GetWishlistParent(ctx context.Context, userID, id uuid.UUID) (*models.WishlistParent, error) {
	return owned(ctx, s.store.WishlistParents(), store.WishlistParents, id, userID, "wishlist parent")
}

func (s *Service) CreateWishlistParent(ctx context.Context, userID uuid.UUID, in models.WishlistParent) (*models.WishlistParent, error) {
	if err := s.checkWishlistParent(ctx, userID, &in, uuid.Nil); err != nil {
		return nil, err
	}
	in.ID = uuid.New()
	in.UserID = userID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.WishlistParents().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating wishlist parent: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateWishlistParent(ctx context.Context, userID, id uuid.UUID, in models.WishlistParent) (*models.WishlistParent, error) {
	cur, err := s.GetWishlistParent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWishlistParent(ctx, userID, &in, id); err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.WishlistParents().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating wishlist parent: %w", err)
	}
	return &in, nil
}

// DeleteWishlistParent removes the parent together with its items.
func (s *Service) DeleteWishlistParent(ctx context.Context, userID, id uuid.UUID) (int, error) {
	return s.store.DeleteWishlistParent(ctx, userID, id)
}

func (s *Service) checkWishlist(ctx context.Context, userID uuid.UUID, w *models.Wishlist) error {
	var r rules
	r.required("label", w.Label, 200)
	r.maxLen("description", w.Description, 1000)
	r.maxLen("url", w.URL, 500)
	r.check(!w.Price.IsNegative(), "price cannot be negative")
	r.check(w.ParentID != uuid.Nil, "parentId is required")
	if err := r.err(); err != nil {
		return err
	}
	if _, err := s.GetWishlistParent(ctx, userID, w.ParentID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Validation("wishlist parent %s does not exist", w.ParentID)
		}
		return err
	}
	return nil
}

// ListWishlists returns items ordered by label, optionally limited to one
// parent.
func (s *Service) ListWishlists(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]models.Wishlist, error) {
	if parentID != nil {
		if _, err := s.GetWishlistParent(ctx, userID, *parentID); err != nil {
			return nil, err
		}
	}
	all, err := s.store.Wishlists().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []models.Wishlist{}
	for _, w := range all {
		if parentID == nil || w.ParentID == *parentID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

// WishlistsWithParents joins every item with its parent's name.
func (s *Service) WishlistsWithParents(ctx context.Context, userID uuid.UUID) ([]models.WishlistWithParent, error) {
	parents, err := s.store.WishlistParents().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(parents))
	for _, p := range parents {
		names[p.ID] = p.Name
	}
	items, err := s.store.Wishlists().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.WishlistWithParent, 0, len(items))
	for _, w := range items {
		out = append(out, models.WishlistWithParent{Wishlist: w, ParentName: names[w.ParentID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ParentName != out[j].ParentName {
			return out[i].ParentName < out[j].ParentName
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

func (s *Service) GetWishlist(ctx context.Context, userID, id uuid.UUID) (*models.Wishlist, error) {
	return owned(ctx, s.store.Wishlists(), store.Wishlists, id, userID, "wishlist item")
}

func (s *Service) CreateWishlist(ctx context.Context, userID uuid.UUID, in models.Wishlist) (*models.Wishlist, error) {
	if err := s.checkWishlist(ctx, userID, &in); err != nil {
		return nil, err
	}
	in.ID = uuid.New()
	in.UserID = userID
	s.stamp(&in.CreatedAt, &in.UpdatedAt)
	if err := s.store.Wishlists().Insert(ctx, &in); err != nil {
		return nil, fmt.Errorf("creating wishlist item: %w", err)
	}
	return &in, nil
}

func (s *Service) UpdateWishlist(ctx context.Context, userID, id uuid.UUID, in models.Wishlist) (*models.Wishlist, error) {
	cur, err := s.GetWishlist(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkWishlist(ctx, userID, &in); err != nil {
		return nil, err
	}
	in.ID, in.UserID, in.CreatedAt = cur.ID, cur.UserID, cur.CreatedAt
	in.UpdatedAt = s.now()
	if err := s.store.Wishlists().Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("updating wishlist item: %w", err)
	}
	return &in, nil
}

func (s *Service) DeleteWishlist(ctx context.Context, userID, id uuid.UUID) error {
	return remove(ctx, s.store.Wishlists(), store.Wishlists, id, userID, "wishlist item")
}
