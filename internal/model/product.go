package model

// Product is the canonical shape every distributor record is normalized into.
// Empty optional strings mean the field was absent upstream.
type Product struct {
	ID          string   `json:"id"`
	Source      SourceID `json:"source"`
	SourceLabel string   `json:"sourceLabel,omitempty"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	StockLabel  string   `json:"stockLabel,omitempty"`
	IVAText     string   `json:"ivaText,omitempty"`
}
