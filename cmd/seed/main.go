package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/craftmatrix/savetrack-api/internal/app"
	"github.com/craftmatrix/savetrack-api/internal/config"
	"github.com/craftmatrix/savetrack-api/internal/logger"
	"github.com/craftmatrix/savetrack-api/utils"
)

func main() {
	opts := utils.DefaultSeedOptions()
	email := flag.String("email", "demo@savetrack.local", "user to seed")
	seed := flag.Int64("seed", 1, "random seed")
	flag.IntVar(&opts.Accounts, "accounts", opts.Accounts, "accounts to create")
	flag.IntVar(&opts.Transactions, "transactions", opts.Transactions, "transactions to create")
	flag.IntVar(&opts.Bills, "bills", opts.Bills, "bills to create")
	flag.IntVar(&opts.BudgetItems, "budget-items", opts.BudgetItems, "budget items to create")
	flag.IntVar(&opts.WishlistItems, "wishlist-items", opts.WishlistItems, "wishlist items to create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Setup("info", true)
		log.Fatal().Err(err).Msg("loading configuration")
	}
	logger.Setup(cfg.LogLevel, true)

	ctx := context.Background()
	st, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("opening storage")
	}
	defer closeStore()

	sum, err := utils.NewSeeder(app.Services(st, cfg), *seed).Seed(ctx, *email, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding")
	}
	log.Info().
		Str("user", sum.User.Email).
		Int("accounts", sum.Accounts).
		Int("categories", sum.Categories).
		Int("transactions", sum.Transactions).
		Int("bills", sum.Bills).
		Int("budgetItems", sum.BudgetItems).
		Int("wishlistItems", sum.WishlistItems).
		Msg("demo data created")
}
