package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SyncRun is one catalog synchronization job triggered against the backend.
type SyncRun struct {
	ID         uuid.UUID       `json:"id"`
	Source     SourceID        `json:"source"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	OK         bool            `json:"ok"`
	Message    string          `json:"message,omitempty"`
	Report     json.RawMessage `json:"report,omitempty"`
}

func (r SyncRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// SearchLog records one global search and the sources that failed during it.
type SearchLog struct {
	ID     uuid.UUID `json:"id"`
	Term   string    `json:"term"`
	Mode   string    `json:"mode"`
	Total  int       `json:"total"`
	Errors []string  `json:"errors,omitempty"`
	At     time.Time `json:"at"`
}
