package cart

import (
	"context"
	"errors"
	"time"

	"distris/internal/store"
)

const KeyPrefix = "tgs_distribuidores_cart"

// Repository keeps one cart per dashboard session.
type Repository struct {
	kv  store.KV
	ttl time.Duration
}

func NewRepository(kv store.KV, ttl time.Duration) *Repository {
	return &Repository{kv: kv, ttl: ttl}
}

func key(session string) string {
	return KeyPrefix + ":" + session
}

// Load returns an empty cart when none was saved.
func (r *Repository) Load(ctx context.Context, session string) (*Cart, error) {
	c := &Cart{}
	err := store.GetJSON(ctx, r.kv, key(session), c)
	if errors.Is(err, store.ErrNotFound) {
		return &Cart{Items: []Item{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c, nil
}

func (r *Repository) Save(ctx context.Context, session string, c *Cart) error {
	return store.SetJSON(ctx, r.kv, key(session), c, r.ttl)
}

// Touch slides the cart expiration. A session without a cart is not an error.
func (r *Repository) Touch(ctx context.Context, session string) error {
	err := r.kv.Touch(ctx, key(session), r.ttl)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func (r *Repository) Clear(ctx context.Context, session string) error {
	return r.kv.Delete(ctx, key(session))
}
