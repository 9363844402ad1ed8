package stats

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/dwell/internal/storage"
)

// openTestStore creates a migrated in-memory VisitStore.
func openTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.NewMigrationRunner(db).Run())

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func addVisit(t *testing.T, store storage.VisitStore, domain string, start time.Time, dur time.Duration) {
	t.Helper()
	require.NoError(t, store.AddVisit(context.Background(), &storage.Visit{
		URL:       "https://" + domain + "/",
		Domain:    domain,
		StartTime: start,
		EndTime:   start.Add(dur),
		Duration:  dur,
	}))
}

func TestForDay_GroupsAndSortsDescending(t *testing.T) {
	store := openTestStore(t)
	agg := New(store)

	day := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	addVisit(t, store, "google.com", day, 120000*time.Millisecond)
	addVisit(t, store, "github.com", day.Add(time.Hour), 300000*time.Millisecond)
	addVisit(t, store, "google.com", day.Add(2*time.Hour), 60000*time.Millisecond)

	report, err := agg.ForDay(context.Background(), day)
	require.NoError(t, err)

	require.Len(t, report, 2)
	assert.Equal(t, DomainTotal{Domain: "github.com", Total: 300000 * time.Millisecond}, report[0])
	assert.Equal(t, DomainTotal{Domain: "google.com", Total: 180000 * time.Millisecond}, report[1])
}

func TestForDay_ExcludesOtherDays(t *testing.T) {
	store := openTestStore(t)
	agg := New(store)

	day := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	dayStart, dayEnd := DayBounds(day)

	addVisit(t, store, "yesterday.com", dayStart.Add(-time.Millisecond), 5*time.Second)
	addVisit(t, store, "today-first.com", dayStart, 5*time.Second)
	addVisit(t, store, "today-last.com", dayEnd, 5*time.Second)
	addVisit(t, store, "tomorrow.com", dayEnd.Add(time.Millisecond), 5*time.Second)

	report, err := agg.ForDay(context.Background(), day)
	require.NoError(t, err)

	domains := make([]string, len(report))
	for i, r := range report {
		domains[i] = r.Domain
	}
	assert.ElementsMatch(t, []string{"today-first.com", "today-last.com"}, domains)
}

func TestForDay_EmptyDayYieldsEmptySlice(t *testing.T) {
	store := openTestStore(t)
	agg := New(store)

	report, err := agg.ForDay(context.Background(), time.Now())
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Empty(t, report)
}

func TestForDay_Idempotent(t *testing.T) {
	store := openTestStore(t)
	agg := New(store)

	day := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	addVisit(t, store, "a.com", day, 2*time.Minute)
	addVisit(t, store, "b.com", day.Add(time.Hour), 8*time.Minute)

	first, err := agg.ForDay(context.Background(), day)
	require.NoError(t, err)
	second, err := agg.ForDay(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, first, second, "no intervening writes, identical results")
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2026, 8, 31, 15, 42, 7, 123000000, time.Local)
	start, end := DayBounds(day)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 8, 31, 23, 59, 59, 999000000, time.Local), end)
}
