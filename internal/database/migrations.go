package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Every foreign key to users is ON DELETE RESTRICT: a user cannot be removed
// while owning rows.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'regular',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (lower(email))`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		label VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		init_value NUMERIC(14,2) NOT NULL DEFAULT 0,
		credit_limit NUMERIC(14,2),
		is_credit BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_positive BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		description VARCHAR(500) NOT NULL DEFAULT '',
		amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE RESTRICT,
		category_id UUID NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_created_idx ON transactions (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS bills (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		name VARCHAR(100) NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		due_date TIMESTAMPTZ NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		category_id UUID REFERENCES categories(id) ON DELETE RESTRICT,
		auto_remind BOOLEAN NOT NULL DEFAULT TRUE,
		notes TEXT,
		currency CHAR(3) NOT NULL DEFAULT 'USD',
		is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
		recurrence_type VARCHAR(20),
		recurrence_interval INTEGER,
		next_due_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS budget_items (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		budget_id UUID NOT NULL REFERENCES budgets(id) ON DELETE RESTRICT,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS wishlist_parents (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		name VARCHAR(100) NOT NULL,
		description VARCHAR(500) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS wishlists (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		parent_id UUID NOT NULL REFERENCES wishlist_parents(id) ON DELETE RESTRICT,
		label VARCHAR(200) NOT NULL,
		description VARCHAR(1000) NOT NULL DEFAULT '',
		url VARCHAR(500) NOT NULL DEFAULT '',
		price NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS insights (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		type VARCHAR(50) NOT NULL,
		title VARCHAR(200) NOT NULL,
		content TEXT NOT NULL,
		priority VARCHAR(20) NOT NULL DEFAULT 'medium',
		category VARCHAR(50) NOT NULL DEFAULT '',
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		is_actionable BOOLEAN NOT NULL DEFAULT FALSE,
		action_data TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ,
		ai_provider TEXT,
		ai_model_version TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		type VARCHAR(50) NOT NULL,
		endpoint VARCHAR(200) NOT NULL,
		response JSONB NOT NULL,
		time_stamp TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chart_data (
		id BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		chart_type VARCHAR(50) NOT NULL,
		title VARCHAR(100) NOT NULL,
		data_set JSONB NOT NULL,
		period VARCHAR(50) NOT NULL DEFAULT 'monthly',
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ NOT NULL,
		category VARCHAR(50) NOT NULL DEFAULT '',
		chart_config JSONB,
		is_cached BOOLEAN NOT NULL DEFAULT TRUE,
		cache_expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates any missing tables. Statements are idempotent.
func Migrate(ctx context.Context, db DBTX) error {
	log.Info().Msg("running database migrations")
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	log.Info().Int("statements", len(schema)).Msg("database migrations completed")
	return nil
}
