package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"distris/internal/model"
)

// All disables a filter criterion.
const All = "all"

type Sort string

const (
	SortRelevance Sort = "relevance"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

// Filter is the marketplace filter bar. Empty values behave like All.
type Filter struct {
	Provider string `json:"provider" form:"provider"`
	Brand    string `json:"brand" form:"brand"`
	Category string `json:"category" form:"category"`
	Sort     Sort   `json:"sort" form:"sort"`
	// Text refines the batch with a fuzzy match over title, brand and sku.
	Text string `json:"text,omitempty" form:"text"`
}

// ParseFilter builds a Filter from raw control values. Unknown providers fall
// back to All and unknown sorts to relevance.
func ParseFilter(provider, brand, category, sortBy, text string) Filter {
	f := Filter{
		Provider: All,
		Brand:    strings.TrimSpace(brand),
		Category: strings.TrimSpace(category),
		Sort:     SortRelevance,
		Text:     strings.TrimSpace(text),
	}
	if !isAll(provider) {
		if id, err := model.ParseSourceID(provider); err == nil {
			f.Provider = string(id)
		}
	}
	switch s := Sort(strings.ToLower(strings.TrimSpace(sortBy))); s {
	case SortPriceAsc, SortPriceDesc:
		f.Sort = s
	}
	if f.Brand == "" {
		f.Brand = All
	}
	if f.Category == "" {
		f.Category = All
	}
	return f
}

// ApplyFilters returns the items matching every active criterion, ordered by
// f.Sort. The input slice is never modified.
func ApplyFilters(items []model.Product, f Filter) []model.Product {
	words := strings.Fields(f.Text)

	out := make([]model.Product, 0, len(items))
	for _, p := range items {
		if !isAll(f.Provider) && !strings.EqualFold(string(p.Source), f.Provider) {
			continue
		}
		if !isAll(f.Brand) && !sameFold(p.Brand, f.Brand) {
			continue
		}
		if !isAll(f.Category) && !sameFold(p.Category, f.Category) {
			continue
		}
		if len(words) > 0 && !matchesText(p, words) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// sameFold never matches an absent value.
func sameFold(have, want string) bool {
	if have == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(have), strings.TrimSpace(want))
}

func matchesText(p model.Product, words []string) bool {
	for _, w := range words {
		if !fuzzy.MatchNormalizedFold(w, p.Title) &&
			!fuzzy.MatchNormalizedFold(w, p.Brand) &&
			!fuzzy.MatchNormalizedFold(w, p.SKU) {
			return false
		}
	}
	return true
}
