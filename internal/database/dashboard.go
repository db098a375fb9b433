package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/craftmatrix/savetrack-api/internal/store"
	"github.com/craftmatrix/savetrack-api/models"
)

func (s *Store) Ledger(ctx context.Context, userID uuid.UUID, f store.LedgerFilter) ([]models.LedgerEntry, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT t.id, t.user_id, t.description, t.amount, t.account_id, t.category_id, t.created_at, t.updated_at,
		       c.is_positive, c.name AS category_name, a.label AS account_name
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		JOIN accounts a ON a.id = t.account_id
		WHERE t.user_id = $1`)
	args := []any{userID}
	add := func(cond string, v any) {
		args = append(args, v)
		fmt.Fprintf(&b, " AND %s $%d", cond, len(args))
	}
	if !f.From.IsZero() {
		add("t.created_at >=", f.From)
	}
	if !f.To.IsZero() {
		add("t.created_at <=", f.To)
	}
	if f.AccountID != nil {
		add("t.account_id =", *f.AccountID)
	}
	if f.CategoryID != nil {
		add("t.category_id =", *f.CategoryID)
	}
	b.WriteString(" ORDER BY t.created_at DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, fmt.Errorf("scanning ledger: %w", err)
	}
	return entries, nil
}

func (s *Store) AccountBalances(ctx context.Context, userID uuid.UUID) ([]models.AccountBalance, error) {
	query := `
		SELECT a.id AS account_id, a.label, a.is_credit, a.init_value,
		       a.init_value + COALESCE(SUM(CASE WHEN c.is_positive THEN t.amount ELSE -t.amount END), 0) AS balance,
		       COUNT(t.id) AS transaction_count
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE a.user_id = $1
		GROUP BY a.id, a.label, a.is_credit, a.init_value
		ORDER BY a.label`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying account balances: %w", err)
	}
	balances, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountBalance])
	if err != nil {
		return nil, fmt.Errorf("scanning account balances: %w", err)
	}
	return balances, nil
}

func (s *Store) GoalProgress(ctx context.Context, userID uuid.UUID) ([]models.GoalProgress, error) {
	query := `
		SELECT p.id AS parent_id, p.name, p.description, p.created_at,
		       COUNT(w.id) AS total_items,
		       COALESCE(SUM(w.price), 0) AS total_value,
		       COALESCE(ROUND(AVG(w.price), 2), 0) AS average_item_price
		FROM wishlist_parents p
		LEFT JOIN wishlists w ON w.parent_id = p.id
		WHERE p.user_id = $1
		GROUP BY p.id, p.name, p.description, p.created_at
		ORDER BY total_value DESC, p.name`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying goal progress: %w", err)
	}
	goals, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.GoalProgress])
	if err != nil {
		return nil, fmt.Errorf("scanning goal progress: %w", err)
	}
	return goals, nil
}
