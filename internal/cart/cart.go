package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"distris/internal/model"
)

type Item struct {
	ID          string          `json:"id"`
	Source      model.SourceID  `json:"source"`
	SourceLabel string          `json:"sourceLabel,omitempty"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Qty         int             `json:"qty"`
}

func (it Item) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Qty)))
}

// Cart lines are keyed by product id and source; adding the same product
// again bumps its quantity.
type Cart struct {
	Items []Item `json:"items"`
}

func (c *Cart) Add(p model.Product) Item {
	for i := range c.Items {
		if c.Items[i].ID == p.ID && c.Items[i].Source == p.Source {
			c.Items[i].Qty++
			return c.Items[i]
		}
	}
	it := Item{
		ID:          p.ID,
		Source:      p.Source,
		SourceLabel: p.SourceLabel,
		Title:       p.Title,
		Price:       decimal.NewFromFloat(p.Price),
		Currency:    p.Currency,
		Qty:         1,
	}
	c.Items = append(c.Items, it)
	return it
}

// Remove drops the whole line. It reports whether a line was found.
func (c *Cart) Remove(id string, source model.SourceID) bool {
	for i, it := range c.Items {
		if it.ID == id && it.Source == source {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Qty
	}
	return n
}

// Amount is a total in one currency.
type Amount struct {
	Currency string
	Value    decimal.Decimal
}

// Total adds every line regardless of currency. Use Totals for carts that may
// mix currencies.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Totals groups the cart total by currency, in the order each currency first
// appears. Lines without a currency count as ARS.
func (c *Cart) Totals() []Amount {
	var out []Amount
	for _, it := range c.Items {
		cur := it.Currency
		if cur == "" {
			cur = "ARS"
		}
		i := 0
		for i < len(out) && out[i].Currency != cur {
			i++
		}
		if i == len(out) {
			out = append(out, Amount{Currency: cur, Value: decimal.Zero})
		}
		out[i].Value = out[i].Value.Add(it.Subtotal())
	}
	return out
}

// TotalText renders Totals joined with " + ", e.g. "$ 850 + US$ 10".
func (c *Cart) TotalText() string {
	totals := c.Totals()
	if len(totals) == 0 {
		return FormatAmount(decimal.Zero, "ARS")
	}
	parts := make([]string, len(totals))
	for i, t := range totals {
		parts[i] = FormatAmount(t.Value, t.Currency)
	}
	return strings.Join(parts, " + ")
}

// Summary is the plain text order handed to the distributor. It is empty for
// an empty cart.
func (c *Cart) Summary() string {
	if len(c.Items) == 0 {
		return ""
	}

	var b strings.Builder
	for _, it := range c.Items {
		label := it.SourceLabel
		if label == "" {
			label = string(it.Source)
		}
		fmt.Fprintf(&b, "- %s (%s) x%d – %s\n", it.Title, label, it.Qty, FormatAmount(it.Subtotal(), it.Currency))
	}
	b.WriteString("\n")
	b.WriteString("TOTAL: " + c.TotalText())
	return b.String()
}
