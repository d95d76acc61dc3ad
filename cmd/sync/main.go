package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"distris/internal/backend"
	"distris/internal/config"
	"distris/internal/db"
	"distris/internal/logger"
	"distris/internal/model"
	"distris/internal/providers"
	"distris/internal/repository"
	"distris/internal/store"
	"distris/internal/syncjob"
)

// go run ./cmd/sync
// go run ./cmd/sync -providers tgs,elit -workers 2
func main() {
	list := flag.String("providers", "all", "Proveedores a sincronizar: 'all' o lista separada por comas")
	workers := flag.Int("workers", 0, "Sincronizaciones en paralelo (0 usa SYNC_WORKERS)")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	sources, err := parseSources(*list)
	if err != nil {
		log.Fatal().Err(err).Msg("providers")
	}
	if cfg.Email == "" || cfg.Password == "" {
		log.Fatal().Msg("DASH_EMAIL y DASH_PASSWORD son obligatorios")
	}
	n := *workers
	if n <= 0 {
		n = cfg.SyncWorkers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := store.Open(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open key-value store")
	}
	defer closeKV()

	runner := &syncjob.Runner{
		LastSync: providers.NewRegistry(kv, nil),
		Log:      log,
	}
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		defer pool.Close()
		runs := &repository.SyncRepository{DB: pool}
		if err := runs.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("sync_runs schema")
		}
		runner.Runs = runs
	}

	api := backend.New(cfg.APIBase, cfg.APIPrefix, cfg.HTTPTimeout)
	login, err := api.Login(ctx, cfg.Email, cfg.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("login")
	}
	api = api.WithToken(login.Token)

	log.Info().Int("providers", len(sources)).Int("workers", n).Msg("sync started")
	failed := 0
	for _, run := range runner.RunAll(ctx, api, sources, n) {
		status := "OK"
		if !run.OK {
			status = "ERROR"
			failed++
		}
		fmt.Printf("%-12s %-6s %8s  %s\n", run.Source, status, run.Duration().Round(time.Millisecond), run.Message)
	}
	if failed > 0 {
		log.Error().Int("failed", failed).Msg("sync finished with errors")
		os.Exit(1)
	}
	log.Info().Msg("sync finished")
}

func parseSources(list string) ([]model.SourceID, error) {
	if strings.TrimSpace(list) == "" || strings.EqualFold(strings.TrimSpace(list), "all") {
		return model.Sources, nil
	}
	var out []model.SourceID
	seen := map[model.SourceID]bool{}
	for _, part := range strings.Split(list, ",") {
		src, err := model.ParseSourceID(part)
		if err != nil {
			return nil, err
		}
		if !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	return out, nil
}
