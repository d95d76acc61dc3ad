// Package catalog turns raw distributor records into products and answers
// filter, sort and facet queries over a batch of them.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"distris/internal/model"
)

const (
	UntitledPlaceholder = "(Sin título)"
	DefaultCurrency     = "ARS"
)

// Normalizer maps raw records to model.Product using a per-source field table.
// It is safe for concurrent use once built.
//
// Listing records try the source's own fields before the global synonyms.
// Tagged records from the global search were already partially normalized
// upstream, so for them the synonyms come first.
type Normalizer struct {
	own      map[model.SourceID]Mapping
	mappings map[model.SourceID]Mapping
	tagged   map[model.SourceID]Mapping
	labels   map[model.SourceID]string
}

type Option func(*Normalizer)

// WithPriceFields replaces a source's own price candidates. The global
// synonyms are still tried as well.
func WithPriceFields(source model.SourceID, fields []string) Option {
	return func(n *Normalizer) {
		if len(fields) == 0 {
			return
		}
		m := n.own[source]
		m.Price = append([]string(nil), fields...)
		n.own[source] = m
	}
}

// WithLabels sets the display label attached to each normalized product.
func WithLabels(labels map[model.SourceID]string) Option {
	return func(n *Normalizer) {
		for k, v := range labels {
			n.labels[k] = v
		}
	}
}

func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		own:      make(map[model.SourceID]Mapping, len(model.Sources)),
		mappings: make(map[model.SourceID]Mapping, len(model.Sources)),
		tagged:   make(map[model.SourceID]Mapping, len(model.Sources)),
		labels:   make(map[model.SourceID]string, len(model.Sources)),
	}
	for _, s := range model.Sources {
		n.own[s] = defaultMappings[s]
		n.labels[s] = string(s)
	}
	for _, opt := range opts {
		opt(n)
	}
	for s, m := range n.own {
		n.mappings[s] = m.union(synonyms)
		n.tagged[s] = synonyms.union(m)
	}
	return n
}

// Normalize never fails: missing or malformed fields fall back to defaults.
func (n *Normalizer) Normalize(r RawRecord, source model.SourceID) model.Product {
	return n.normalize(r, source, n.mappings)
}

func (n *Normalizer) normalize(r RawRecord, source model.SourceID, tables map[model.SourceID]Mapping) model.Product {
	m, ok := tables[source]
	if !ok {
		m = synonyms
	}

	p := model.Product{
		ID:          r.text(m.ID...),
		Source:      source,
		SourceLabel: n.labels[source],
		Title:       r.text(m.Title...),
		Brand:       r.text(m.Brand...),
		Category:    r.text(m.Category...),
		SKU:         r.text(m.SKU...),
		Price:       ResolvePrice(r, m.Price),
		Currency:    r.text(m.Currency...),
		StockLabel:  r.text(m.Stock...),
		IVAText:     ivaText(r),
	}
	if p.ID == "" {
		p.ID = synthesizeID(r, source)
	}
	if p.Title == "" {
		p.Title = UntitledPlaceholder
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if img, ok := PickImage(r); ok {
		p.ImageURL = img
	}
	return p
}

// NormalizeAll keeps the backend order.
func (n *Normalizer) NormalizeAll(records []RawRecord, source model.SourceID) []model.Product {
	out := make([]model.Product, 0, len(records))
	for _, r := range records {
		out = append(out, n.Normalize(r, source))
	}
	return out
}

// NormalizeTagged normalizes records that carry their own "source" field, as
// returned by the global search endpoint. Records with a missing or unknown
// tag are skipped; their count is returned.
func (n *Normalizer) NormalizeTagged(records []RawRecord) ([]model.Product, int) {
	out := make([]model.Product, 0, len(records))
	skipped := 0
	for _, r := range records {
		source, err := model.ParseSourceID(r.text("source"))
		if err != nil {
			skipped++
			continue
		}
		out = append(out, n.normalize(r, source, n.tagged))
	}
	return out, skipped
}

func (n *Normalizer) Label(source model.SourceID) string {
	if l, ok := n.labels[source]; ok {
		return l
	}
	return string(source)
}

func ivaText(r RawRecord) string {
	v, ok := r.value("iva")
	if !ok {
		return ""
	}
	s, ok := asText(v)
	if !ok {
		return ""
	}
	return "IVA " + strings.ReplaceAll(s, ".", ",") + "%"
}

// synthesizeID derives a stable id for records that carry none, so the same
// record always gets the same id.
func synthesizeID(r RawRecord, source model.SourceID) string {
	if s := r.text(idFallback...); s != "" {
		return fmt.Sprintf("%s-%s", source, s)
	}
	data, err := json.Marshal(r)
	if err != nil {
		data = []byte(fmt.Sprintf("%v", map[string]any(r)))
	}
	return fmt.Sprintf("%s-%s", source, uuid.NewSHA1(uuid.NameSpaceOID, data))
}
