package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"distris/internal/model"
)

const syncRunsSchema = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id          uuid PRIMARY KEY,
	source      text        NOT NULL,
	started_at  timestamptz NOT NULL,
	finished_at timestamptz NOT NULL,
	ok          boolean     NOT NULL,
	message     text        NOT NULL DEFAULT '',
	report      jsonb
);
CREATE INDEX IF NOT EXISTS sync_runs_source_started ON sync_runs (source, started_at DESC);
`

// SyncRepository stores the history of catalog sync jobs.
type SyncRepository struct {
	DB *pgxpool.Pool
}

func (r *SyncRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.Exec(ctx, syncRunsSchema); err != nil {
		return fmt.Errorf("create sync_runs: %w", err)
	}
	return nil
}

func (r *SyncRepository) Save(ctx context.Context, run model.SyncRun) error {
	var report any
	if len(run.Report) > 0 {
		report = string(run.Report)
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO sync_runs (id, source, started_at, finished_at, ok, message, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
	`, run.ID, string(run.Source), run.StartedAt, run.FinishedAt, run.OK, run.Message, report)
	if err != nil {
		return fmt.Errorf("insert sync run %s: %w", run.Source, err)
	}
	return nil
}

// Recent lists the latest runs, newest first. An empty source lists all.
func (r *SyncRepository) Recent(ctx context.Context, source model.SourceID, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, source, started_at, finished_at, ok, message, COALESCE(report::text, '')
		FROM sync_runs
		WHERE $1 = '' OR source = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, string(source), limit)
	if err != nil {
		return nil, fmt.Errorf("query sync runs: %w", err)
	}
	defer rows.Close()

	runs := []model.SyncRun{}
	for rows.Next() {
		var (
			run    model.SyncRun
			src    string
			report string
		)
		if err := rows.Scan(&run.ID, &src, &run.StartedAt, &run.FinishedAt, &run.OK, &run.Message, &report); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		run.Source = model.SourceID(src)
		if report != "" {
			run.Report = []byte(report)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
