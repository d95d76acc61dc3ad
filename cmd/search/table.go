package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"

	"distris/internal/cart"
	"distris/internal/catalog"
	"distris/internal/model"
)

const maxTitleWidth = 48

var header = []string{"PROVEEDOR", "ID", "PRODUCTO", "MARCA", "CATEGORÍA", "PRECIO"}

func rows(items []model.Product) [][]string {
	out := make([][]string, 0, len(items))
	for _, p := range items {
		out = append(out, []string{
			p.SourceLabel,
			p.ID,
			runewidth.Truncate(p.Title, maxTitleWidth, "…"),
			p.Brand,
			p.Category,
			cart.FormatAmount(decimal.NewFromFloat(p.Price), p.Currency),
		})
	}
	return out
}

// writeTable pads columns by display width so accented titles line up.
// The price column is right aligned.
func writeTable(w io.Writer, items []model.Product) {
	table := append([][]string{header}, rows(items)...)

	widths := make([]int, len(header))
	for _, row := range table {
		for i, cell := range row {
			if n := runewidth.StringWidth(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	last := len(header) - 1
	for r, row := range table {
		var sb strings.Builder
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == last && r > 0 {
				sb.WriteString(runewidth.FillLeft(cell, widths[i]))
			} else if i == last {
				sb.WriteString(cell)
			} else {
				sb.WriteString(runewidth.FillRight(cell, widths[i]))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}
}

func writeFacets(w io.Writer, f catalog.Facets) {
	sources := make([]string, len(f.Sources))
	for i, s := range f.Sources {
		sources[i] = string(s)
	}
	fmt.Fprintf(w, "Proveedores: %s\n", strings.Join(sources, ", "))
	fmt.Fprintf(w, "Marcas:      %s\n", strings.Join(f.Brands, ", "))
	fmt.Fprintf(w, "Categorías:  %s\n", strings.Join(f.Categories, ", "))
}
