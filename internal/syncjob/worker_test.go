package syncjob

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"distris/internal/model"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []model.SourceID
	fail  map[model.SourceID]bool
}

func (f *fakeAPI) Sync(ctx context.Context, src model.SourceID) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, src)
	f.mu.Unlock()
	if f.fail[src] {
		return nil, errors.New("proveedor caído")
	}
	return json.RawMessage(`{"ok":true}`), nil
}

type memRecorder struct {
	mu   sync.Mutex
	runs []model.SyncRun
}

func (m *memRecorder) Save(ctx context.Context, run model.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

type memMarker struct {
	mu   sync.Mutex
	last map[model.SourceID]time.Time
}

func (m *memMarker) MarkSynced(ctx context.Context, src model.SourceID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		m.last = map[model.SourceID]time.Time{}
	}
	m.last[src] = at
	return nil
}

func TestRunner_Run(t *testing.T) {
	rec := &memRecorder{}
	mark := &memMarker{}
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r := &Runner{Runs: rec, LastSync: mark, Log: zerolog.Nop(), now: func() time.Time { return at }}

	api := &fakeAPI{fail: map[model.SourceID]bool{model.TGS: true}}

	ok, err := r.Run(context.Background(), api, model.Elit)
	if err != nil || !ok.OK || string(ok.Report) != `{"ok":true}` {
		t.Errorf("run = %+v", ok)
	}
	bad, err := r.Run(context.Background(), api, model.TGS)
	if err == nil || bad.OK || bad.Message != "proveedor caído" {
		t.Errorf("run = %+v", bad)
	}

	if len(rec.runs) != 2 {
		t.Errorf("recorded %d runs, want 2", len(rec.runs))
	}
	if _, ok := mark.last[model.TGS]; ok {
		t.Error("failed sync should not update last sync")
	}
	if !mark.last[model.Elit].Equal(at) {
		t.Errorf("last sync = %v", mark.last)
	}
}

func TestRunner_RunAllKeepsOrder(t *testing.T) {
	r := &Runner{Log: zerolog.Nop()}
	api := &fakeAPI{fail: map[model.SourceID]bool{model.NewBytes: true}}

	runs := r.RunAll(context.Background(), api, model.Sources, 3)

	if len(runs) != len(model.Sources) || len(api.calls) != len(model.Sources) {
		t.Fatalf("runs = %d, calls = %d", len(runs), len(api.calls))
	}
	for i, run := range runs {
		if run.Source != model.Sources[i] {
			t.Errorf("runs[%d].Source = %s, want %s", i, run.Source, model.Sources[i])
		}
		if run.OK == (run.Source == model.NewBytes) {
			t.Errorf("runs[%d].OK = %v", i, run.OK)
		}
	}
}
