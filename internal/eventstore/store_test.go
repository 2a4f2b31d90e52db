package eventstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(runID, repo, status string, finished time.Time) RunRecord {
	return RunRecord{
		RunID:       runID,
		Repository:  repo,
		Trigger:     "webhook",
		Status:      status,
		PagesTotal:  8,
		PagesFailed: 1,
		Artifact:    "/out/" + runID + ".txt",
		StartedAt:   finished.Add(-time.Minute),
		FinishedAt:  finished,
	}
}

func TestAppendAndGetByRepository(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	require.NoError(t, store.Append(ctx, record("run-1", "acme/widgets", "ok", now.Add(-time.Hour))))
	require.NoError(t, store.Append(ctx, record("run-2", "acme/widgets", "error", now)))
	require.NoError(t, store.Append(ctx, record("run-3", "acme/other", "ok", now)))

	runs, err := store.GetByRepository(ctx, "acme/widgets", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, "error", runs[0].Status)
	assert.Equal(t, 8, runs[0].PagesTotal)
	assert.Equal(t, 1, runs[0].PagesFailed)
	assert.Equal(t, "run-1", runs[1].RunID)
}

func TestGetByRepositoryLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, record("run", "acme/widgets", "ok", now)))
	}

	runs, err := store.GetByRepository(ctx, "acme/widgets", 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestGetRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	require.NoError(t, store.Append(ctx, record("old", "acme/widgets", "ok", base.Add(-2*time.Hour))))
	require.NoError(t, store.Append(ctx, record("recent", "acme/widgets", "ok", base)))

	runs, err := store.GetRange(ctx, base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "recent", runs[0].RunID)
}

func TestEmptyRepositoryHistory(t *testing.T) {
	store := newTestStore(t)
	runs, err := store.GetByRepository(context.Background(), "acme/unknown", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, record("run-1", "acme/widgets", "ok", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	runs, err := reopened.GetByRepository(ctx, "acme/widgets", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
