package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/craftmatrix/savetrack-api/internal/app"
	"github.com/craftmatrix/savetrack-api/internal/backup"
	"github.com/craftmatrix/savetrack-api/internal/config"
	"github.com/craftmatrix/savetrack-api/internal/logger"
)

func main() {
	out := flag.String("out", "", "snapshot file; defaults to a timestamped file in BACKUP_DIR")
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

	var res *backup.Result
	if *out != "" {
		res, err = backup.Snapshot(ctx, st, *out)
	} else {
		res, err = backup.Run(ctx, st, cfg.BackupDir, time.Now())
	}
	if err != nil {
		log.Fatal().Err(err).Msg("backup failed")
	}
	for table, n := range res.Rows {
		log.Info().Str("table", table).Int("rows", n).Msg("copied")
	}
}
