package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/craftmatrix/savetrack-api/internal/app"
	"github.com/craftmatrix/savetrack-api/internal/auth"
	"github.com/craftmatrix/savetrack-api/internal/config"
	"github.com/craftmatrix/savetrack-api/internal/handlers"
	"github.com/craftmatrix/savetrack-api/internal/logger"
	"github.com/craftmatrix/savetrack-api/internal/routes"
	"github.com/craftmatrix/savetrack-api/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Setup("info", true)
		log.Fatal().Err(err).Msg("loading configuration")
	}
	logger.Setup(cfg.LogLevel, !cfg.Production())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("opening storage")
	}
	defer closeStore()

	svc := app.Services(st, cfg)
	tokens := auth.NewTokens(cfg.JWT)

	cron, err := scheduler.New(scheduler.Jobs(svc, cfg)...)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduling jobs")
	}
	cron.Start()
	defer cron.Stop()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.GinLogger(), gin.Recovery())
	routes.Setup(r, handlers.New(svc, tokens), tokens, auth.NewResolver(st), cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Str("storage", cfg.Storage).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
