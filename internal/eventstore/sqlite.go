package eventstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-backed run store.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS wiki_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		repository TEXT NOT NULL,
		trigger_kind TEXT NOT NULL,
		status TEXT NOT NULL,
		pages_total INTEGER NOT NULL,
		pages_failed INTEGER NOT NULL,
		error TEXT,
		artifact TEXT,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run_id ON wiki_runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_repository ON wiki_runs(repository);
	CREATE INDEX IF NOT EXISTS idx_finished_at ON wiki_runs(finished_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records one completed run.
func (s *SQLiteStore) Append(ctx context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wiki_runs (run_id, repository, trigger_kind, status, pages_total, pages_failed, error, artifact, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Repository, rec.Trigger, rec.Status, rec.PagesTotal, rec.PagesFailed,
		rec.Error, rec.Artifact, rec.StartedAt.Unix(), rec.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// GetByRepository retrieves the most recent runs for a repository, newest first.
func (s *SQLiteStore) GetByRepository(ctx context.Context, repository string, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, repository, trigger_kind, status, pages_total, pages_failed, error, artifact, started_at, finished_at
		 FROM wiki_runs WHERE repository = ? ORDER BY id DESC LIMIT ?`,
		repository, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return s.scanRuns(rows)
}

// GetRange retrieves runs that finished within a time range, oldest first.
func (s *SQLiteStore) GetRange(ctx context.Context, start, end time.Time) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, repository, trigger_kind, status, pages_total, pages_failed, error, artifact, started_at, finished_at
		 FROM wiki_runs WHERE finished_at >= ? AND finished_at <= ? ORDER BY id`,
		start.Unix(), end.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return s.scanRuns(rows)
}

func (s *SQLiteStore) scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedUnix, finishedUnix int64

		err := rows.Scan(&rec.RunID, &rec.Repository, &rec.Trigger, &rec.Status,
			&rec.PagesTotal, &rec.PagesFailed, &rec.Error, &rec.Artifact,
			&startedUnix, &finishedUnix)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		rec.StartedAt = time.Unix(startedUnix, 0)
		rec.FinishedAt = time.Unix(finishedUnix, 0)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
