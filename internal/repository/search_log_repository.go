package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"distris/internal/model"
)

const searchLogSchema = `
CREATE TABLE IF NOT EXISTS search_log (
	id     uuid PRIMARY KEY,
	term   text        NOT NULL,
	mode   text        NOT NULL,
	total  integer     NOT NULL,
	errors text[]      NOT NULL DEFAULT '{}',
	at     timestamptz NOT NULL
);
`

// SearchLogRepository records every global search for later analysis.
type SearchLogRepository struct {
	DB *sql.DB
}

func (r *SearchLogRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, searchLogSchema); err != nil {
		return fmt.Errorf("create search_log: %w", err)
	}
	return nil
}

func (r *SearchLogRepository) Save(ctx context.Context, l model.SearchLog) error {
	errs := l.Errors
	if errs == nil {
		errs = []string{}
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO search_log (id, term, mode, total, errors, at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, l.ID, l.Term, l.Mode, l.Total, pq.Array(errs), l.At)
	if err != nil {
		return fmt.Errorf("insert search log: %w", err)
	}
	return nil
}

func (r *SearchLogRepository) Recent(ctx context.Context, limit int) ([]model.SearchLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, term, mode, total, errors, at
		FROM search_log
		ORDER BY at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query search log: %w", err)
	}
	defer rows.Close()

	list := []model.SearchLog{}
	for rows.Next() {
		var l model.SearchLog
		if err := rows.Scan(&l.ID, &l.Term, &l.Mode, &l.Total, pq.Array(&l.Errors), &l.At); err != nil {
			return nil, fmt.Errorf("scan search log: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
