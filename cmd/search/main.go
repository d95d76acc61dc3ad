package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"distris/internal/backend"
	"distris/internal/catalog"
	"distris/internal/config"
	"distris/internal/logger"
	"distris/internal/model"
	"distris/internal/providers"
	"distris/internal/store"
)

// go run ./cmd/search -q "disco ssd" -sort price_asc
// go run ./cmd/search -q mouse -mode fanout -provider elit -brand logitech
func main() {
	q := flag.String("q", "", "Término de búsqueda")
	mode := flag.String("mode", "endpoint", "'endpoint' (búsqueda global del backend) o 'fanout' (un pedido por proveedor)")
	provider := flag.String("provider", catalog.All, "Filtrar por proveedor")
	brand := flag.String("brand", catalog.All, "Filtrar por marca")
	category := flag.String("category", catalog.All, "Filtrar por categoría")
	sortBy := flag.String("sort", string(catalog.SortRelevance), "relevance, price_asc o price_desc")
	text := flag.String("text", "", "Refinar por texto (coincidencia aproximada)")
	limit := flag.Int("limit", 0, "Límite de resultados por pedido")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if *q == "" {
		fmt.Fprintln(os.Stderr, "uso: search -q <término> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if cfg.Email == "" || cfg.Password == "" {
		log.Fatal().Msg("DASH_EMAIL y DASH_PASSWORD son obligatorios")
	}

	var overrides map[model.SourceID]providers.Config
	if cfg.ProvidersFile != "" {
		var err error
		if overrides, err = providers.ParseFile(cfg.ProvidersFile); err != nil {
			log.Fatal().Err(err).Msg("load providers file")
		}
	}
	normalizer := providers.NewRegistry(store.NewMemory(), overrides).Normalizer()

	ctx := context.Background()
	api := backend.New(cfg.APIBase, cfg.APIPrefix, cfg.HTTPTimeout)
	login, err := api.Login(ctx, cfg.Email, cfg.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("login")
	}
	api = api.WithToken(login.Token)

	var (
		items    []model.Product
		warnings []string
	)
	switch *mode {
	case "fanout":
		n := *limit
		if n <= 0 {
			n = cfg.FanoutLimit
		}
		res, err := api.SearchAll(ctx, normalizer, *q, n)
		if err != nil {
			log.Fatal().Err(err).Msg("search")
		}
		items = res.Products
		for _, e := range res.Errors {
			warnings = append(warnings, e.Message)
		}
	case "endpoint":
		n := *limit
		if n <= 0 {
			n = cfg.GlobalLimit
		}
		records, err := api.GlobalSearch(ctx, *q, n)
		if err != nil {
			log.Fatal().Err(err).Msg("search")
		}
		var skipped int
		items, skipped = normalizer.NormalizeTagged(records)
		if skipped > 0 {
			warnings = append(warnings, fmt.Sprintf("%d resultados sin proveedor reconocido", skipped))
		}
	default:
		log.Fatal().Str("mode", *mode).Msg("modo inválido")
	}

	f := catalog.ParseFilter(*provider, *brand, *category, *sortBy, *text)
	filtered := catalog.ApplyFilters(items, f)

	writeTable(os.Stdout, filtered)
	fmt.Printf("\n%d de %d productos\n\n", len(filtered), len(items))
	writeFacets(os.Stdout, catalog.DeriveFacets(items))
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", w)
	}
}
