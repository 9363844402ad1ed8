package cli

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_EmptyDay(t *testing.T) {
	store := openTestStore(t)

	cmd := &StatsCommand{Date: "2025-03-01", globals: &GlobalFlags{}}
	var err error
	output := captureOutput(t, func() {
		err = cmd.executeWithStore(store)
	})

	require.NoError(t, err)
	assert.Contains(t, output, "No browsing time recorded for 2025-03-01")
}

func TestStats_RanksDomainsByTotalTime(t *testing.T) {
	store := openTestStore(t)

	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	seedVisit(t, store, "google.com", day, 2*time.Minute)
	seedVisit(t, store, "github.com", day.Add(10*time.Minute), 5*time.Minute)
	seedVisit(t, store, "google.com", day.Add(30*time.Minute), 1*time.Minute)

	cmd := &StatsCommand{Date: "2025-03-01", globals: &GlobalFlags{}}
	var err error
	output := captureOutput(t, func() {
		err = cmd.executeWithStore(store)
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Browsing time for 2025-03-01")
	assert.Contains(t, output, "github.com")
	assert.Contains(t, output, "google.com")
	assert.Contains(t, output, "Total: 8m 00s across 2 domains")

	// github.com (5m) must rank above google.com (3m)
	assert.Less(t, strings.Index(output, "github.com"), strings.Index(output, "google.com"))
}

func TestStats_JSONOutput(t *testing.T) {
	store := openTestStore(t)

	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	seedVisit(t, store, "example.com", day, 90*time.Second)

	cmd := &StatsCommand{Date: "2025-03-01", globals: &GlobalFlags{JSON: true}}
	var err error
	output := captureOutput(t, func() {
		err = cmd.executeWithStore(store)
	})
	require.NoError(t, err)

	var out jsonStatsOutput
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, "2025-03-01", out.Date)
	assert.Equal(t, int64(90000), out.TotalMS)
	require.Len(t, out.Domains, 1)
	assert.Equal(t, "example.com", out.Domains[0].Domain)
	assert.Equal(t, int64(90000), out.Domains[0].DurationMS)
}

func TestStats_InvalidDate(t *testing.T) {
	store := openTestStore(t)

	cmd := &StatsCommand{Date: "March 1st", globals: &GlobalFlags{}}
	err := cmd.executeWithStore(store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --date")
}
