// Package eventstore persists the outcome of generation runs. History is an
// audit trail: writes must never fail a run, callers log store errors and
// continue.
package eventstore

import (
	"context"
	"time"
)

// RunRecord is one completed generation run.
type RunRecord struct {
	RunID       string
	Repository  string
	Trigger     string
	Status      string
	PagesTotal  int
	PagesFailed int
	Error       string
	Artifact    string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Store records run outcomes and answers history queries.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	GetByRepository(ctx context.Context, repository string, limit int) ([]RunRecord, error)
	GetRange(ctx context.Context, start, end time.Time) ([]RunRecord, error)
	Close() error
}
