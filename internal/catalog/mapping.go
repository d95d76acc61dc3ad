package catalog

import "distris/internal/model"

// Mapping lists, per canonical field, the raw fields tried in order.
type Mapping struct {
	ID       []string
	Title    []string
	Brand    []string
	Category []string
	SKU      []string
	Price    []string
	Currency []string
	Stock    []string
}

// synonyms are the field names the global search endpoint uses for records it
// already partially normalized. Listing records try them after the source's
// own fields; tagged global-search records try them first.
var synonyms = Mapping{
	ID:       []string{"id"},
	Title:    []string{"title", "nombre"},
	Brand:    []string{"brand", "marca"},
	Category: []string{"category", "categoria"},
	SKU:      []string{"sku", "codigo", "codigoProducto"},
	Price:    []string{"price", "pvpArs", "precio"},
	Currency: []string{"currency"},
	Stock:    []string{"stockLabel", "nivelStock", "stock"},
}

// idFallback feeds the synthesized "<SOURCE>-<x>" id when no id field is set.
var idFallback = []string{"internalId", "codigo", "sku"}

var defaultMappings = map[model.SourceID]Mapping{
	model.NewBytes: {
		ID:       []string{"codigo"},
		Title:    []string{"detalle"},
		Brand:    []string{"marca"},
		Category: []string{"categoria"},
		SKU:      []string{"codigo"},
		Price:    []string{"precio", "precio_ars", "precioARS", "price", "precio_lista"},
	},
	model.GrupoNucleo: {
		ID:       []string{"codigo"},
		Title:    []string{"item_desc_0", "item_desc_1", "item_desc_2", "codigo"},
		Brand:    []string{"marca"},
		Category: []string{"categoria"},
		SKU:      []string{"codigo"},
		Price:    []string{"precio", "precio_ars", "precioARS", "price", "precio_lista"},
	},
	model.TGS: {
		ID:       []string{"id", "internalSku"},
		Title:    []string{"name"},
		Brand:    []string{"brand"},
		Category: []string{"category"},
		SKU:      []string{"internalSku", "manufacturerSku"},
		Price:    []string{"price", "priceArs", "precio", "precio_ars", "precioARS"},
	},
	model.Elit: {
		ID:       []string{"elitId", "id"},
		Title:    []string{"nombre"},
		Brand:    []string{"marca"},
		Category: []string{"categoria"},
		SKU:      []string{"codigoProducto", "codigoAlfa"},
		Price:    []string{"pvpArs", "pvp_ars", "precio", "price"},
	},
}

// DefaultPriceFields returns the source's own price fields, most authoritative first.
func DefaultPriceFields(source model.SourceID) []string {
	return append([]string(nil), defaultMappings[source].Price...)
}

func (m Mapping) union(o Mapping) Mapping {
	return Mapping{
		ID:       merge(m.ID, o.ID),
		Title:    merge(m.Title, o.Title),
		Brand:    merge(m.Brand, o.Brand),
		Category: merge(m.Category, o.Category),
		SKU:      merge(m.SKU, o.SKU),
		Price:    merge(m.Price, o.Price),
		Currency: merge(m.Currency, o.Currency),
		Stock:    merge(m.Stock, o.Stock),
	}
}

func merge(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, k := range list {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
