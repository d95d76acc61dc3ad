// Package providers holds the per-distributor display settings (label, color,
// price label and price field order) and the last successful sync times.
package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"

	"distris/internal/catalog"
	"distris/internal/model"
	"distris/internal/store"
)

const (
	ConfigKey   = "tgs_distributor_config_v1"
	LastSyncKey = "tgs_distributor_last_sync_v1"
)

var ErrInvalidColor = errors.New("color must be #rrggbb")

var hexColor = regexp2.MustCompile(`^#[0-9a-f]{6}$`, regexp2.IgnoreCase)

type Config struct {
	Key         model.SourceID `json:"key" yaml:"-"`
	Label       string         `json:"label" yaml:"label"`
	Color       string         `json:"color" yaml:"color"`
	PriceLabel  string         `json:"priceLabel" yaml:"priceLabel"`
	PriceFields []string       `json:"priceFields,omitempty" yaml:"priceFields"`
}

func Defaults() map[model.SourceID]Config {
	return map[model.SourceID]Config{
		model.NewBytes: {
			Key:         model.NewBytes,
			Label:       "NewBytes",
			Color:       "#22c55e",
			PriceLabel:  "PVP final pesos (precio final NB)",
			PriceFields: catalog.DefaultPriceFields(model.NewBytes),
		},
		model.GrupoNucleo: {
			Key:         model.GrupoNucleo,
			Label:       "Grupo Núcleo",
			Color:       "#38bdf8",
			PriceLabel:  "Precio mayorista pesos",
			PriceFields: catalog.DefaultPriceFields(model.GrupoNucleo),
		},
		model.TGS: {
			Key:         model.TGS,
			Label:       "TGS",
			Color:       "#f97316",
			PriceLabel:  "Precio tienda TGS",
			PriceFields: catalog.DefaultPriceFields(model.TGS),
		},
		model.Elit: {
			Key:         model.Elit,
			Label:       "ELIT",
			Color:       "#a855f7",
			PriceLabel:  "PVP ARS (pvp_ars)",
			PriceFields: catalog.DefaultPriceFields(model.Elit),
		},
	}
}

// ParseFile reads a YAML document keyed by distributor (any accepted alias).
// Only the fields present override the defaults.
//
//	tgs:
//	  label: TGS Mayorista
//	  priceFields: [priceArs, price]
func ParseFile(path string) (map[model.SourceID]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (map[model.SourceID]Config, error) {
	var raw map[string]Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse providers file: %w", err)
	}

	out := make(map[model.SourceID]Config, len(raw))
	for name, cfg := range raw {
		src, err := model.ParseSourceID(name)
		if err != nil {
			return nil, fmt.Errorf("providers file: %q: %w", name, err)
		}
		if cfg.Color != "" && !ValidColor(cfg.Color) {
			return nil, fmt.Errorf("providers file: %s: %w", src, ErrInvalidColor)
		}
		cfg.Key = src
		out[src] = cfg
	}
	return out, nil
}

func ValidColor(c string) bool {
	ok, err := hexColor.MatchString(c)
	return err == nil && ok
}

func merge(base, o Config) Config {
	if o.Label != "" {
		base.Label = o.Label
	}
	if o.Color != "" {
		base.Color = strings.ToLower(o.Color)
	}
	if o.PriceLabel != "" {
		base.PriceLabel = o.PriceLabel
	}
	if len(o.PriceFields) > 0 {
		base.PriceFields = append([]string(nil), o.PriceFields...)
	}
	return base
}

// Registry serves provider settings. Colors picked at runtime and last sync
// times live in the key-value store; everything else is static.
type Registry struct {
	kv   store.KV
	base map[model.SourceID]Config
	mu   sync.Mutex
}

func NewRegistry(kv store.KV, overrides map[model.SourceID]Config) *Registry {
	base := Defaults()
	for src, o := range overrides {
		if cfg, ok := base[src]; ok {
			base[src] = merge(cfg, o)
		}
	}
	return &Registry{kv: kv, base: base}
}

// Labels returns the static display labels.
func (r *Registry) Labels() map[model.SourceID]string {
	out := make(map[model.SourceID]string, len(r.base))
	for src, cfg := range r.base {
		out[src] = cfg.Label
	}
	return out
}

// Normalizer builds a catalog normalizer that uses these labels and price
// field orders.
func (r *Registry) Normalizer() *catalog.Normalizer {
	opts := []catalog.Option{catalog.WithLabels(r.Labels())}
	for src, cfg := range r.base {
		opts = append(opts, catalog.WithPriceFields(src, cfg.PriceFields))
	}
	return catalog.NewNormalizer(opts...)
}

// List returns every provider in key order with stored colors applied.
func (r *Registry) List(ctx context.Context) ([]Config, error) {
	colors, err := r.colors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Config, 0, len(model.Sources))
	for _, src := range model.Sources {
		out = append(out, r.apply(src, colors))
	}
	return out, nil
}

func (r *Registry) Get(ctx context.Context, src model.SourceID) (Config, error) {
	if _, ok := r.base[src]; !ok {
		return Config{}, model.ErrUnknownSource
	}
	colors, err := r.colors(ctx)
	if err != nil {
		return Config{}, err
	}
	return r.apply(src, colors), nil
}

func (r *Registry) SetColor(ctx context.Context, src model.SourceID, color string) (Config, error) {
	if _, ok := r.base[src]; !ok {
		return Config{}, model.ErrUnknownSource
	}
	if !ValidColor(color) {
		return Config{}, ErrInvalidColor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	colors, err := r.colors(ctx)
	if err != nil {
		return Config{}, err
	}
	colors[src] = strings.ToLower(color)
	if err := store.SetJSON(ctx, r.kv, ConfigKey, colors, 0); err != nil {
		return Config{}, err
	}
	return r.apply(src, colors), nil
}

func (r *Registry) apply(src model.SourceID, colors map[model.SourceID]string) Config {
	cfg := r.base[src]
	if c, ok := colors[src]; ok && ValidColor(c) {
		cfg.Color = c
	}
	return cfg
}

// colors reads the stored color overrides. A missing key means none.
func (r *Registry) colors(ctx context.Context) (map[model.SourceID]string, error) {
	colors := map[model.SourceID]string{}
	err := store.GetJSON(ctx, r.kv, ConfigKey, &colors)
	if errors.Is(err, store.ErrNotFound) {
		return map[model.SourceID]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *Registry) LastSync(ctx context.Context) (map[model.SourceID]time.Time, error) {
	out := map[model.SourceID]time.Time{}
	err := store.GetJSON(ctx, r.kv, LastSyncKey, &out)
	if errors.Is(err, store.ErrNotFound) {
		return map[model.SourceID]time.Time{}, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Registry) MarkSynced(ctx context.Context, src model.SourceID, at time.Time) error {
	if _, ok := r.base[src]; !ok {
		return model.ErrUnknownSource
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	last, err := r.LastSync(ctx)
	if err != nil {
		return err
	}
	last[src] = at.UTC()
	return store.SetJSON(ctx, r.kv, LastSyncKey, last, 0)
}
