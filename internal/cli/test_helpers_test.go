package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/dwell/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// openTestDB creates a migrated in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := storage.NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	return db
}

// openTestStore creates a migrated in-memory store for testing.
func openTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// seedVisit inserts a visit starting at the given time with the given duration.
func seedVisit(t *testing.T, store *storage.SQLiteStore, domain string, start time.Time, d time.Duration) {
	t.Helper()
	err := store.AddVisit(context.Background(), &storage.Visit{
		URL:       "https://" + domain + "/",
		Domain:    domain,
		StartTime: start,
		EndTime:   start.Add(d),
		Duration:  d,
	})
	require.NoError(t, err)
}
