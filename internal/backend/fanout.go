package backend

import (
	"context"
	"errors"
	"sync"

	"distris/internal/catalog"
	"distris/internal/model"
	"distris/internal/observability"
)

// SourceError records one distributor that failed during a fan-out search.
type SourceError struct {
	Source  model.SourceID `json:"source"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
}

func (e SourceError) Error() string {
	return e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

type SearchResult struct {
	Products []model.Product `json:"products"`
	Errors   []SourceError   `json:"errors,omitempty"`
}

// SearchAll queries every distributor listing concurrently and normalizes
// each answer on its own. Products are concatenated in source key order and
// keep the backend order within a source. A failing source is reported in
// Errors; an error is returned only when all of them fail.
func (c *Client) SearchAll(ctx context.Context, n *catalog.Normalizer, q string, limit int) (*SearchResult, error) {
	sources := model.Sources
	batches := make([][]model.Product, len(sources))
	failures := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := c.ListProducts(ctx, src, q, limit)
			if err != nil {
				failures[i] = err
				return
			}
			batches[i] = n.NormalizeAll(records, src)
		}()
	}
	wg.Wait()

	res := &SearchResult{Products: []model.Product{}}
	var errs []error
	for i, src := range sources {
		if err := failures[i]; err != nil {
			observability.SourceErrors.WithLabelValues(string(src)).Inc()
			se := SourceError{Source: src, Message: n.Label(src) + ": " + err.Error(), Err: err}
			res.Errors = append(res.Errors, se)
			errs = append(errs, se)
			continue
		}
		res.Products = append(res.Products, batches[i]...)
	}

	if len(errs) == len(sources) {
		return res, errors.Join(errs...)
	}
	return res, nil
}
