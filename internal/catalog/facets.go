package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"distris/internal/model"
)

// Facets are the distinct values present in a batch, used to fill the
// provider, brand and category selectors.
type Facets struct {
	Sources    []model.SourceID `json:"sources"`
	Brands     []string         `json:"brands"`
	Categories []string         `json:"categories"`
}

// DeriveFacets collects non-empty values from items. Brands and categories are
// trimmed and sorted with Spanish collation; sources sort by key.
func DeriveFacets(items []model.Product) Facets {
	sources := map[model.SourceID]bool{}
	brands := map[string]bool{}
	categories := map[string]bool{}

	for _, p := range items {
		if p.Source != "" {
			sources[p.Source] = true
		}
		if b := strings.TrimSpace(p.Brand); b != "" {
			brands[b] = true
		}
		if c := strings.TrimSpace(p.Category); c != "" {
			categories[c] = true
		}
	}

	f := Facets{
		Sources:    make([]model.SourceID, 0, len(sources)),
		Brands:     keys(brands),
		Categories: keys(categories),
	}
	for s := range sources {
		f.Sources = append(f.Sources, s)
	}
	sort.Slice(f.Sources, func(i, j int) bool { return f.Sources[i] < f.Sources[j] })

	// Collator keeps internal buffers, one per call.
	c := collate.New(language.Spanish)
	c.SortStrings(f.Brands)
	c.SortStrings(f.Categories)
	return f
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
