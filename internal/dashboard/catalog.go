package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"distris/internal/catalog"
	"distris/internal/model"
	"distris/internal/observability"
)

const (
	ModeEndpoint = "endpoint"
	ModeFanout   = "fanout"
)

type listing struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Facets   catalog.Facets  `json:"facets"`
	Filter   catalog.Filter  `json:"filter"`
}

func filterFromQuery(c *gin.Context) catalog.Filter {
	return catalog.ParseFilter(c.Query("provider"), c.Query("brand"), c.Query("category"), c.Query("sort"), c.Query("text"))
}

func intQuery(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// newListing filters items; facets always describe the whole batch.
func newListing(items []model.Product, f catalog.Filter) listing {
	out := catalog.ApplyFilters(items, f)
	return listing{
		Products: out,
		Total:    len(out),
		Facets:   catalog.DeriveFacets(items),
		Filter:   f,
	}
}

// handleCatalog browses one distributor's listing directly.
func (s *Server) handleCatalog() gin.HandlerFunc {
	return func(c *gin.Context) {
		src, err := model.ParseSourceID(c.Param("provider"))
		if err != nil {
			s.fail(c, err)
			return
		}
		q := strings.TrimSpace(c.Query("q"))
		limit := intQuery(c, "limit", s.cfg.ProviderLimit)

		records, err := s.clientFor(c).ListProducts(c.Request.Context(), src, q, limit)
		if err != nil {
			s.fail(c, err)
			return
		}

		f := filterFromQuery(c)
		f.Provider = catalog.All
		c.JSON(http.StatusOK, newListing(s.normalizer.NormalizeAll(records, src), f))
	}
}

type searchResponse struct {
	listing
	Term    string   `json:"term"`
	Mode    string   `json:"mode"`
	Errors  []string `json:"errors,omitempty"`
	Skipped int      `json:"skipped,omitempty"`
}

// handleSearch runs a global search and makes its result the session batch.
// mode=endpoint uses the backend global search; mode=fanout queries every
// distributor listing and tolerates partial failures.
func (s *Server) handleSearch() gin.HandlerFunc {
	return func(c *gin.Context) {
		term := strings.TrimSpace(c.Query("q"))
		if term == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ingresá un término de búsqueda."})
			return
		}
		mode := c.DefaultQuery("mode", ModeEndpoint)
		if mode != ModeEndpoint && mode != ModeFanout {
			s.fail(c, errBadRequest)
			return
		}

		sess := currentSession(c)
		ctx := c.Request.Context()
		gen := s.workspace.Begin(sess.ID)

		batch, err := s.search(ctx, c, term, mode)
		if err != nil {
			s.fail(c, err)
			return
		}
		observability.SearchesTotal.WithLabelValues(mode).Inc()

		current, err := s.workspace.Commit(ctx, sess.ID, gen, batch)
		if err != nil {
			s.fail(c, err)
			return
		}
		if !current {
			c.JSON(http.StatusConflict, gin.H{"error": "búsqueda reemplazada por una más reciente"})
			return
		}

		s.logSearch(ctx, batch)

		c.JSON(http.StatusOK, batchResponse(batch, filterFromQuery(c)))
	}
}

func batchResponse(b *Batch, f catalog.Filter) searchResponse {
	resp := searchResponse{
		listing: newListing(b.Products, f),
		Term:    b.Term,
		Mode:    b.Mode,
		Skipped: b.Skipped,
	}
	for _, e := range b.Errors {
		resp.Errors = append(resp.Errors, e.Message)
	}
	return resp
}

func (s *Server) search(ctx context.Context, c *gin.Context, term, mode string) (*Batch, error) {
	client := s.clientFor(c)
	batch := &Batch{Term: term, Mode: mode, At: time.Now().UTC()}

	if mode == ModeFanout {
		res, err := client.SearchAll(ctx, s.normalizer, term, intQuery(c, "limit", s.cfg.FanoutLimit))
		if err != nil {
			return nil, err
		}
		batch.Products = res.Products
		batch.Errors = res.Errors
		return batch, nil
	}

	records, err := client.GlobalSearch(ctx, term, intQuery(c, "limit", s.cfg.GlobalLimit))
	if err != nil {
		return nil, err
	}
	batch.Products, batch.Skipped = s.normalizer.NormalizeTagged(records)
	if batch.Skipped > 0 {
		observability.SkippedRecords.Add(float64(batch.Skipped))
		s.log.Warn().Int("count", batch.Skipped).Str("term", term).Msg("records without a known source")
	}
	return batch, nil
}

func (s *Server) logSearch(ctx context.Context, b *Batch) {
	if s.searches == nil {
		return
	}
	entry := model.SearchLog{
		ID:    uuid.New(),
		Term:  b.Term,
		Mode:  b.Mode,
		Total: len(b.Products),
		At:    b.At,
	}
	for _, e := range b.Errors {
		entry.Errors = append(entry.Errors, e.Message)
	}
	if err := s.searches.Save(ctx, entry); err != nil {
		s.log.Error().Err(err).Msg("save search log")
	}
}

// handleMarketplace filters and sorts the held batch.
func (s *Server) handleMarketplace() gin.HandlerFunc {
	return func(c *gin.Context) {
		batch, err := s.workspace.Current(c.Request.Context(), currentSession(c).ID)
		if err != nil {
			s.fail(c, err)
			return
		}

		c.JSON(http.StatusOK, batchResponse(batch, filterFromQuery(c)))
	}
}
