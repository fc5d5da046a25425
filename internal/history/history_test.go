package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(ctx, Record{
			Binary:     "/usr/local/bin/ostt",
			FocusApp:   "kitty",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 5*time.Second),
			ExitCode:   i,
			Restored:   i%2 == 0,
		}))
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	require.Equal(t, 2, records[0].ExitCode)
	require.Equal(t, 1, records[1].ExitCode)
	require.NotEmpty(t, records[0].ID)
}

func TestRecordKeepsCallerID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, Record{
		ID:        "launch-42",
		Binary:    "/opt/homebrew/bin/ostt",
		StartedAt: time.Now(),
	}))

	records, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "launch-42", records[0].ID)
}

func TestRecordRejectsDuplicateID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rec := Record{ID: "dup", Binary: "/usr/local/bin/ostt", StartedAt: time.Now()}
	require.NoError(t, store.Record(ctx, rec))
	require.Error(t, store.Record(ctx, rec))
}

func TestRecentDefaultLimit(t *testing.T) {
	store := openStore(t)
	records, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
