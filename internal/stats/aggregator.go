// Package stats reduces stored visit records into per-domain duration
// reports. It only reads from the store and never touches session state.
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/runnerr0/dwell/internal/storage"
)

// DomainTotal is one row of a daily report: a domain and its summed
// browsing time.
type DomainTotal struct {
	Domain string
	Total  time.Duration
}

// Aggregator computes ranked per-domain totals from a VisitStore.
type Aggregator struct {
	store storage.VisitStore
}

// New creates an Aggregator reading from store.
func New(store storage.VisitStore) *Aggregator {
	return &Aggregator{store: store}
}

// ForDay returns the per-domain totals for the calendar day containing day,
// in day's own location, sorted by total descending. Ties keep a stable
// order. An empty day yields an empty slice.
func (a *Aggregator) ForDay(ctx context.Context, day time.Time) ([]DomainTotal, error) {
	start, end := DayBounds(day)

	visits, err := a.store.VisitsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]time.Duration)
	var order []string
	for _, v := range visits {
		if _, seen := totals[v.Domain]; !seen {
			order = append(order, v.Domain)
		}
		totals[v.Domain] += v.Duration
	}

	result := make([]DomainTotal, 0, len(order))
	for _, domain := range order {
		result = append(result, DomainTotal{Domain: domain, Total: totals[domain]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})

	return result, nil
}

// Today returns the report for the current local calendar day.
func (a *Aggregator) Today(ctx context.Context) ([]DomainTotal, error) {
	return a.ForDay(ctx, time.Now())
}

// DayBounds returns the inclusive bounds of day's calendar day in its
// location: [00:00:00.000, 23:59:59.999].
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}
