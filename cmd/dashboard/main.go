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

	"distris/internal/backend"
	"distris/internal/config"
	"distris/internal/dashboard"
	"distris/internal/db"
	"distris/internal/logger"
	"distris/internal/model"
	"distris/internal/providers"
	"distris/internal/repository"
	"distris/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogFormat == "json" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := store.Open(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open key-value store")
	}
	defer closeKV()
	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, sessions and carts are kept in memory")
	}

	var overrides map[model.SourceID]providers.Config
	if cfg.ProvidersFile != "" {
		overrides, err = providers.ParseFile(cfg.ProvidersFile)
		if err != nil {
			log.Fatal().Err(err).Msg("load providers file")
		}
	}

	deps := dashboard.Deps{
		Config:    cfg,
		API:       backend.New(cfg.APIBase, cfg.APIPrefix, cfg.HTTPTimeout),
		KV:        kv,
		Providers: providers.NewRegistry(kv, overrides),
		Log:       log,
	}

	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres (pgxpool)")
		}
		defer pool.Close()
		runs := &repository.SyncRepository{DB: pool}
		if err := runs.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("sync_runs schema")
		}

		sqlDB, err := db.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		defer sqlDB.Close()
		searches := &repository.SearchLogRepository{DB: sqlDB}
		if err := searches.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("search_log schema")
		}

		deps.Runs = runs
		deps.Searches = searches
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           dashboard.NewServer(deps).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.ListenAddr).Str("backend", cfg.APIBase).Msg("dashboard listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}
	log.Info().Msg("dashboard stopped")
}
