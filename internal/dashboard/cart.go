package dashboard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"distris/internal/cart"
	"distris/internal/catalog"
	"distris/internal/model"
)

type amountView struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// cartView.Total is set only for single-currency carts; Totals always
// carries one entry per currency.
type cartView struct {
	Items     []cart.Item  `json:"items"`
	Count     int          `json:"count"`
	Total     string       `json:"total,omitempty"`
	Totals    []amountView `json:"totals"`
	TotalText string       `json:"totalText"`
}

func newCartView(c *cart.Cart) cartView {
	totals := c.Totals()
	v := cartView{
		Items:     c.Items,
		Count:     c.Count(),
		Totals:    make([]amountView, len(totals)),
		TotalText: c.TotalText(),
	}
	for i, t := range totals {
		v.Totals[i] = amountView{Currency: t.Currency, Amount: t.Value.StringFixed(2)}
	}
	switch len(totals) {
	case 0:
		v.Total = "0.00"
	case 1:
		v.Total = v.Totals[0].Amount
	}
	return v
}

func (s *Server) handleCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := s.carts.Load(c.Request.Context(), currentSession(c).ID)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, newCartView(crt))
	}
}

type cartAddRequest struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	SourceLabel string  `json:"sourceLabel"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
}

// handleCartAdd adds a product by id and source. The copy held in the
// current batch wins over the request body.
func (s *Server) handleCartAdd() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartAddRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
			s.fail(c, errBadRequest)
			return
		}
		src, err := model.ParseSourceID(req.Source)
		if err != nil {
			s.fail(c, err)
			return
		}

		sid := currentSession(c).ID
		ctx := c.Request.Context()

		p, ok := s.workspace.Find(ctx, sid, req.ID, src)
		if !ok {
			p = model.Product{
				ID:          req.ID,
				Source:      src,
				SourceLabel: req.SourceLabel,
				Title:       req.Title,
				Price:       max(req.Price, 0),
				Currency:    req.Currency,
			}
			if p.SourceLabel == "" {
				p.SourceLabel = s.normalizer.Label(src)
			}
			if p.Title == "" {
				p.Title = catalog.UntitledPlaceholder
			}
			if p.Currency == "" {
				p.Currency = catalog.DefaultCurrency
			}
		}

		crt, err := s.carts.Load(ctx, sid)
		if err != nil {
			s.fail(c, err)
			return
		}
		crt.Add(p)
		if err := s.carts.Save(ctx, sid, crt); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, newCartView(crt))
	}
}

// handleCartRemove drops one line (?id=&source=) or, without an id, empties
// the cart.
func (s *Server) handleCartRemove() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := currentSession(c).ID
		ctx := c.Request.Context()

		id := c.Query("id")
		if id == "" {
			if err := s.carts.Clear(ctx, sid); err != nil {
				s.fail(c, err)
				return
			}
			c.JSON(http.StatusOK, newCartView(&cart.Cart{Items: []cart.Item{}}))
			return
		}

		src, err := model.ParseSourceID(c.Query("source"))
		if err != nil {
			s.fail(c, err)
			return
		}
		crt, err := s.carts.Load(ctx, sid)
		if err != nil {
			s.fail(c, err)
			return
		}
		if !crt.Remove(id, src) {
			c.JSON(http.StatusNotFound, gin.H{"error": "el producto no está en el carrito"})
			return
		}
		if err := s.carts.Save(ctx, sid, crt); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, newCartView(crt))
	}
}

func (s *Server) handleCartSummary() gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := s.carts.Load(c.Request.Context(), currentSession(c).ID)
		if err != nil {
			s.fail(c, err)
			return
		}
		if len(crt.Items) == 0 {
			c.Status(http.StatusNoContent)
			return
		}
		c.String(http.StatusOK, crt.Summary())
	}
}
