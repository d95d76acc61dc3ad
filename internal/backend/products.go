package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"distris/internal/catalog"
	"distris/internal/model"
)

// Sync starts the backend sync job for one distributor and returns its
// report. Non-JSON reports are returned as a JSON string.
func (c *Client) Sync(ctx context.Context, source model.SourceID) (json.RawMessage, error) {
	if !source.Valid() {
		return nil, model.ErrUnknownSource
	}

	data, err := c.send(ctx, http.MethodPost, c.url("/sync/"+source.Slug()), nil)
	if err != nil {
		return nil, fmt.Errorf("sync %s: %w", source, err)
	}

	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return json.RawMessage("null"), nil
	case json.Valid(data):
		return json.RawMessage(data), nil
	default:
		b, _ := json.Marshal(string(data))
		return json.RawMessage(b), nil
	}
}

// ListProducts queries one distributor's listing. A body that is not a JSON
// array yields no records.
func (c *Client) ListProducts(ctx context.Context, source model.SourceID, q string, limit int) ([]catalog.RawRecord, error) {
	if !source.Valid() {
		return nil, model.ErrUnknownSource
	}

	data, err := c.get(ctx, "/"+source.Slug()+"-products?"+queryParams(q, limit))
	if err != nil {
		return nil, err
	}
	return catalog.DecodeRecords(data), nil
}

// GlobalSearch runs the backend's own cross-distributor search. Records come
// back tagged with a source field.
func (c *Client) GlobalSearch(ctx context.Context, q string, limit int) ([]catalog.RawRecord, error) {
	data, err := c.get(ctx, "/search/global?"+queryParams(q, limit))
	if err != nil {
		return nil, err
	}
	return catalog.DecodeRecords(data), nil
}

func queryParams(q string, limit int) string {
	params := url.Values{}
	if q != "" {
		params.Set("q", q)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params.Encode()
}
