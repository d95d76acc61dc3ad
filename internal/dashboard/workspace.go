package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"distris/internal/backend"
	"distris/internal/model"
	"distris/internal/store"
)

const batchPrefix = "dash_batch:"

// Batch is the result of the last global search of a session. The
// marketplace view filters it without going back to the backend.
type Batch struct {
	Term       string                `json:"term"`
	Mode       string                `json:"mode"`
	Products   []model.Product       `json:"products"`
	Errors     []backend.SourceError `json:"errors,omitempty"`
	Skipped    int                   `json:"skipped,omitempty"`
	At         time.Time             `json:"at"`
	Generation uint64                `json:"generation"`
}

// Workspace holds the per-session search batch. Every search takes a new
// generation with Begin; Commit drops a result whose generation is no longer
// the latest, so a slow search cannot overwrite a newer one.
type Workspace struct {
	kv  store.KV
	ttl time.Duration

	mu  sync.Mutex
	gen map[string]uint64
}

func NewWorkspace(kv store.KV, ttl time.Duration) *Workspace {
	return &Workspace{kv: kv, ttl: ttl, gen: map[string]uint64{}}
}

func (w *Workspace) Begin(session string) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen[session]++
	return w.gen[session]
}

// Commit stores b when gen is still current. It reports whether it did.
func (w *Workspace) Commit(ctx context.Context, session string, gen uint64, b *Batch) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.gen[session] != gen {
		return false, nil
	}
	b.Generation = gen
	if err := store.SetJSON(ctx, w.kv, batchPrefix+session, b, w.ttl); err != nil {
		return false, err
	}
	return true, nil
}

// Current returns the held batch, or an empty one before the first search.
func (w *Workspace) Current(ctx context.Context, session string) (*Batch, error) {
	var b Batch
	err := store.GetJSON(ctx, w.kv, batchPrefix+session, &b)
	if errors.Is(err, store.ErrNotFound) {
		return &Batch{Products: []model.Product{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if b.Products == nil {
		b.Products = []model.Product{}
	}
	return &b, nil
}

// Find looks a product up in the held batch.
func (w *Workspace) Find(ctx context.Context, session, id string, src model.SourceID) (model.Product, bool) {
	b, err := w.Current(ctx, session)
	if err != nil {
		return model.Product{}, false
	}
	for _, p := range b.Products {
		if p.ID == id && p.Source == src {
			return p, true
		}
	}
	return model.Product{}, false
}

// Touch slides the batch expiration along with the session.
func (w *Workspace) Touch(ctx context.Context, session string) error {
	err := w.kv.Touch(ctx, batchPrefix+session, w.ttl)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func (w *Workspace) Forget(ctx context.Context, session string) error {
	w.mu.Lock()
	delete(w.gen, session)
	w.mu.Unlock()
	return w.kv.Delete(ctx, batchPrefix+session)
}
