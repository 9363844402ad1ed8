package storage

import "time"

// Visit is a closed, persisted interval of browsing time attributed to one
// domain. Visits are immutable once written; the ID is assigned on insert.
type Visit struct {
	ID        int64
	URL       string
	Domain    string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Stats holds aggregate statistics about the dwell database.
type Stats struct {
	TotalVisits   int64
	TotalDuration time.Duration
	OldestVisit   time.Time
	NewestVisit   time.Time
	TopDomains    []DomainDuration
}

// DomainDuration pairs a domain with its visit count and total tracked time.
type DomainDuration struct {
	Domain   string
	Visits   int64
	Duration time.Duration
}
