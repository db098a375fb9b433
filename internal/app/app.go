// Package app wires configuration into a ready store and service layer for
// the binaries under cmd.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/craftmatrix/savetrack-api/internal/ai"
	"github.com/craftmatrix/savetrack-api/internal/config"
	"github.com/craftmatrix/savetrack-api/internal/database"
	"github.com/craftmatrix/savetrack-api/internal/memstore"
	"github.com/craftmatrix/savetrack-api/internal/services"
	"github.com/craftmatrix/savetrack-api/internal/store"
)

// OpenStore returns the configured store and a function releasing it.
// Postgres schemas are migrated before the store is handed out.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn().Msg("using in-memory storage; data is lost on exit")
		return memstore.New(), func() {}, nil
	}
	pool, err := database.Connect(ctx, cfg.DBURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrating: %w", err)
	}
	return database.NewStore(pool), pool.Close, nil
}

// Services builds the service layer on st with the configured AI client.
func Services(st store.Store, cfg *config.Config) *services.Service {
	return services.New(st, ai.NewClient(cfg.Gemini))
}
