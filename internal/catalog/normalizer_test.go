package catalog

import (
	"encoding/json"
	"math"
	"testing"

	"distris/internal/model"
)

func TestNormalize_NewBytesScenario(t *testing.T) {
	n := NewNormalizer()

	got := n.Normalize(RawRecord{
		"codigo":  "N1",
		"detalle": "Mouse X",
		"marca":   "Logi",
		"precio":  json.Number("1500"),
	}, model.NewBytes)

	want := model.Product{
		ID:          "N1",
		Source:      model.NewBytes,
		SourceLabel: "NEWBYTES",
		Title:       "Mouse X",
		Brand:       "Logi",
		SKU:         "N1",
		Price:       1500,
		Currency:    "ARS",
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalize_ElitScenario(t *testing.T) {
	n := NewNormalizer()

	got := n.Normalize(RawRecord{
		"elitId": "E9",
		"nombre": "Teclado",
		"pvpArs": 8000.0,
	}, model.Elit)

	if got.ID != "E9" {
		t.Errorf("ID = %q, want E9", got.ID)
	}
	if got.Source != model.Elit {
		t.Errorf("Source = %q, want ELIT", got.Source)
	}
	if got.Title != "Teclado" {
		t.Errorf("Title = %q, want Teclado", got.Title)
	}
	if got.Price != 8000 {
		t.Errorf("Price = %v, want 8000", got.Price)
	}
	if got.Currency != "ARS" {
		t.Errorf("Currency = %q, want ARS", got.Currency)
	}
	if got.SKU != "" {
		t.Errorf("SKU = %q, want empty", got.SKU)
	}
}

func TestNormalize_PerSourceFields(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name   string
		source model.SourceID
		rec    RawRecord
		want   model.Product
	}{
		{
			name:   "grupo nucleo title cascade",
			source: model.GrupoNucleo,
			rec: RawRecord{
				"codigo":      "GN-7",
				"item_desc_0": "",
				"item_desc_1": "Monitor 24",
				"marca":       "Samsung",
				"categoria":   "Monitores",
				"precio_ars":  "99000.50",
			},
			want: model.Product{ID: "GN-7", Title: "Monitor 24", Brand: "Samsung", Category: "Monitores", SKU: "GN-7", Price: 99000.5},
		},
		{
			name:   "grupo nucleo falls back to codigo as title",
			source: model.GrupoNucleo,
			rec:    RawRecord{"codigo": "GN-8"},
			want:   model.Product{ID: "GN-8", Title: "GN-8", SKU: "GN-8"},
		},
		{
			name:   "tgs id and sku",
			source: model.TGS,
			rec: RawRecord{
				"internalSku":     "INT-1",
				"manufacturerSku": "MAN-1",
				"name":            "Notebook",
				"brand":           "Lenovo",
				"category":        "Notebooks",
				"priceArs":        json.Number("500000"),
			},
			want: model.Product{ID: "INT-1", Title: "Notebook", Brand: "Lenovo", Category: "Notebooks", SKU: "INT-1", Price: 500000},
		},
		{
			name:   "tgs numeric id",
			source: model.TGS,
			rec:    RawRecord{"id": json.Number("42"), "name": "Cable", "manufacturerSku": "MAN-2"},
			want:   model.Product{ID: "42", Title: "Cable", SKU: "MAN-2"},
		},
		{
			name:   "elit sku fallback",
			source: model.Elit,
			rec:    RawRecord{"id": "77", "nombre": "Parlante", "codigoAlfa": "ALF", "pvp_ars": 10.0},
			want:   model.Product{ID: "77", Title: "Parlante", SKU: "ALF", Price: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.rec, tt.source)
			tt.want.Source = tt.source
			tt.want.SourceLabel = string(tt.source)
			tt.want.Currency = "ARS"
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalize_Placeholders(t *testing.T) {
	n := NewNormalizer()

	for _, s := range model.Sources {
		got := n.Normalize(RawRecord{}, s)
		if got.ID == "" {
			t.Errorf("%s: ID is empty", s)
		}
		if got.Title != UntitledPlaceholder {
			t.Errorf("%s: Title = %q, want placeholder", s, got.Title)
		}
		if got.Price != 0 {
			t.Errorf("%s: Price = %v, want 0", s, got.Price)
		}
		if got.Currency != DefaultCurrency {
			t.Errorf("%s: Currency = %q, want ARS", s, got.Currency)
		}
		if got.ImageURL != "" {
			t.Errorf("%s: ImageURL = %q, want empty", s, got.ImageURL)
		}
	}
}

func TestNormalize_SynthesizedIDIsStable(t *testing.T) {
	n := NewNormalizer()
	rec := RawRecord{"detalle": "Sin codigo", "precio": 5.0}

	a := n.Normalize(rec, model.NewBytes).ID
	b := n.Normalize(rec, model.NewBytes).ID
	if a == "" || a != b {
		t.Errorf("synthesized ids = %q, %q; want equal and non-empty", a, b)
	}

	other := n.Normalize(RawRecord{"detalle": "Otro"}, model.NewBytes).ID
	if other == a {
		t.Errorf("distinct records share id %q", a)
	}

	got := n.Normalize(RawRecord{"internalId": "X1"}, model.Elit).ID
	if got != "ELIT-X1" {
		t.Errorf("ID = %q, want ELIT-X1", got)
	}
}

func TestResolvePrice(t *testing.T) {
	fields := []string{"pvpArs", "pvp_ars", "precio", "price"}

	tests := []struct {
		name string
		rec  RawRecord
		want float64
	}{
		{"none", RawRecord{"otro": 3.0}, 0},
		{"first wins", RawRecord{"pvpArs": 10.0, "precio": 20.0}, 10},
		{"null skipped", RawRecord{"pvpArs": nil, "pvp_ars": 11.0}, 11},
		{"unparseable skipped", RawRecord{"pvpArs": "n/a", "precio": " 12.5 "}, 12.5},
		{"empty string skipped", RawRecord{"pvpArs": "  ", "price": json.Number("13")}, 13},
		{"bool skipped", RawRecord{"pvpArs": true, "price": 14.0}, 14},
		{"nan skipped", RawRecord{"pvpArs": "NaN", "price": 15.0}, 15},
		{"inf skipped", RawRecord{"pvpArs": math.Inf(1), "price": 16.0}, 16},
		{"negative clamps", RawRecord{"pvpArs": -5.0, "price": 17.0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePrice(tt.rec, fields); got != tt.want {
				t.Errorf("ResolvePrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize_PriceFieldOverride(t *testing.T) {
	n := NewNormalizer(WithPriceFields(model.NewBytes, []string{"precio_lista"}))

	got := n.Normalize(RawRecord{"codigo": "N1", "precio": 1.0, "precio_lista": 2.0}, model.NewBytes)
	if got.Price != 2 {
		t.Errorf("Price = %v, want 2", got.Price)
	}
}

func TestNormalize_GlobalSynonyms(t *testing.T) {
	n := NewNormalizer(WithLabels(map[model.SourceID]string{model.GrupoNucleo: "Grupo Núcleo"}))

	got := n.Normalize(RawRecord{
		"id":         "G-1",
		"title":      "Mother",
		"brand":      "Asus",
		"category":   "Motherboards",
		"sku":        "SKU-1",
		"price":      json.Number("70000"),
		"currency":   "USD",
		"nivelStock": "ALTO",
		"iva":        json.Number("10.5"),
		"image_link": "http://img/1.png",
	}, model.GrupoNucleo)

	want := model.Product{
		ID:          "G-1",
		Source:      model.GrupoNucleo,
		SourceLabel: "Grupo Núcleo",
		Title:       "Mother",
		Brand:       "Asus",
		Category:    "Motherboards",
		SKU:         "SKU-1",
		Price:       70000,
		Currency:    "USD",
		ImageURL:    "http://img/1.png",
		StockLabel:  "ALTO",
		IVAText:     "IVA 10,5%",
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalizeTagged(t *testing.T) {
	n := NewNormalizer()

	records := DecodeRecords([]byte(`[
		{"source": "TGS", "id": "T1", "title": "A"},
		{"source": "desconocido", "id": "X"},
		{"id": "sin-source"},
		{"source": "Grupo Núcleo", "codigo": "G1"}
	]`))

	got, skipped := n.NormalizeTagged(records)
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "T1" || got[0].Source != model.TGS {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].ID != "G1" || got[1].Source != model.GrupoNucleo {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestNormalizeTagged_NormalizedFieldsWin(t *testing.T) {
	n := NewNormalizer()

	records := DecodeRecords([]byte(`[
		{"source": "GRUPONUCLEO", "codigo": "GN-1", "title": "Monitor 24", "sku": "SKU-9"},
		{"source": "GRUPONUCLEO", "codigo": "GN-2"},
		{"source": "ELIT", "id": "E-1", "elitId": "9", "nombre": "Teclado", "price": 10, "pvpArs": 20}
	]`))

	got, _ := n.NormalizeTagged(records)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Title != "Monitor 24" || got[0].SKU != "SKU-9" || got[0].ID != "GN-1" {
		t.Errorf("got[0] = %+v, want title Monitor 24, sku SKU-9, id GN-1", got[0])
	}
	if got[1].Title != "GN-2" || got[1].SKU != "GN-2" {
		t.Errorf("got[1] = %+v, want codigo as title and sku", got[1])
	}
	if got[2].ID != "E-1" || got[2].Price != 10 {
		t.Errorf("got[2] = %+v, want id E-1 and price 10", got[2])
	}

	// Listing records keep the source's own fields first.
	listed := n.Normalize(records[0], model.GrupoNucleo)
	if listed.Title != "GN-1" {
		t.Errorf("Normalize title = %q, want GN-1", listed.Title)
	}
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"array", `[{"a":1},{"b":2}]`, 2},
		{"non objects dropped", `[{"a":1}, 3, "x", null]`, 1},
		{"object", `{"a":1}`, 0},
		{"malformed", `[{`, 0},
		{"empty", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeRecords([]byte(tt.in)); len(got) != tt.want {
				t.Errorf("len(DecodeRecords()) = %d, want %d", len(got), tt.want)
			}
		})
	}
}
