// Package syncjob triggers backend catalog syncs and records their outcome.
package syncjob

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"distris/internal/model"
	"distris/internal/observability"
)

type Backend interface {
	Sync(ctx context.Context, source model.SourceID) (json.RawMessage, error)
}

type Recorder interface {
	Save(ctx context.Context, run model.SyncRun) error
}

type Marker interface {
	MarkSynced(ctx context.Context, source model.SourceID, at time.Time) error
}

// Runner records every run when Runs is set and stamps the last sync time on
// success. Recording failures are logged, never returned.
type Runner struct {
	Runs     Recorder
	LastSync Marker
	Log      zerolog.Logger
	now      func() time.Time
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}

// Run syncs one source. The returned error is the backend error, also kept as
// the run message.
func (r *Runner) Run(ctx context.Context, api Backend, src model.SourceID) (model.SyncRun, error) {
	run := model.SyncRun{
		ID:        uuid.New(),
		Source:    src,
		StartedAt: r.clock(),
	}

	report, err := api.Sync(ctx, src)
	run.FinishedAt = r.clock()
	run.Report = report
	run.OK = err == nil

	logger := r.Log.With().Str("source", string(src)).Dur("took", run.Duration()).Logger()
	if err != nil {
		run.Message = err.Error()
		observability.SyncRuns.WithLabelValues(string(src), "error").Inc()
		logger.Warn().Err(err).Msg("sync failed")
	} else {
		observability.SyncRuns.WithLabelValues(string(src), "ok").Inc()
		logger.Info().Msg("sync finished")
		if r.LastSync != nil {
			if merr := r.LastSync.MarkSynced(ctx, src, run.FinishedAt); merr != nil {
				logger.Error().Err(merr).Msg("store last sync")
			}
		}
	}

	if r.Runs != nil {
		if serr := r.Runs.Save(ctx, run); serr != nil {
			logger.Error().Err(serr).Msg("record sync run")
		}
	}
	return run, err
}

// RunAll syncs sources through a pool of workers. Results keep the input
// order.
func (r *Runner) RunAll(ctx context.Context, api Backend, sources []model.SourceID, workers int) []model.SyncRun {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	type job struct {
		i   int
		src model.SourceID
	}
	jobs := make(chan job)
	results := make([]model.SyncRun, len(sources))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.i], _ = r.Run(ctx, api, j.src)
			}
		}()
	}

	for i, src := range sources {
		jobs <- job{i: i, src: src}
	}
	close(jobs)
	wg.Wait()

	return results
}
