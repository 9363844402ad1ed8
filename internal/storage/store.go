package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// VisitStore defines the interface for dwell data operations.
type VisitStore interface {
	AddVisit(ctx context.Context, visit *Visit) error
	VisitsBetween(ctx context.Context, start, end time.Time) ([]Visit, error)
	PruneBefore(ctx context.Context, olderThan time.Time) (int64, error)
	ClearAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements VisitStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	insertVisit   *sql.Stmt
	visitsBetween *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertVisit, err = s.db.Prepare(`
		INSERT INTO visits (url, domain, start_ms, end_ms, duration_ms)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.visitsBetween, err = s.db.Prepare(`
		SELECT id, url, domain, start_ms, end_ms, duration_ms
		FROM visits
		WHERE start_ms >= ? AND start_ms <= ?
		ORDER BY start_ms ASC
	`)
	if err != nil {
		return err
	}

	return nil
}

// AddVisit inserts a new visit record. The visit's ID is populated from the
// database on success. A zero Duration is recomputed from the timestamps.
func (s *SQLiteStore) AddVisit(ctx context.Context, visit *Visit) error {
	if visit.Duration == 0 {
		visit.Duration = visit.EndTime.Sub(visit.StartTime)
	}

	res, err := s.insertVisit.ExecContext(ctx,
		visit.URL, visit.Domain,
		visit.StartTime.UnixMilli(), visit.EndTime.UnixMilli(),
		visit.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("visit id: %w", err)
	}
	visit.ID = id

	return nil
}

// VisitsBetween returns all visits whose start time falls in [start, end],
// both bounds inclusive, ordered by start time.
func (s *SQLiteStore) VisitsBetween(ctx context.Context, start, end time.Time) ([]Visit, error) {
	rows, err := s.visitsBetween.QueryContext(ctx, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var startMS, endMS, durMS int64
		if err := rows.Scan(&v.ID, &v.URL, &v.Domain, &startMS, &endMS, &durMS); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.StartTime = time.UnixMilli(startMS)
		v.EndTime = time.UnixMilli(endMS)
		v.Duration = time.Duration(durMS) * time.Millisecond
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Return empty slice rather than nil
	if visits == nil {
		visits = []Visit{}
	}

	return visits, nil
}

// PruneBefore deletes visits that started before olderThan and returns the
// number of rows removed.
func (s *SQLiteStore) PruneBefore(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM visits WHERE start_ms < ?", olderThan.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("prune visits: %w", err)
	}
	return res.RowsAffected()
}

// ClearAll deletes every visit record. Destructive; invoked only by the
// clear command after confirmation.
func (s *SQLiteStore) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM visits"); err != nil {
		return fmt.Errorf("clear visits: %w", err)
	}
	return nil
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var totalDurMS sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), SUM(duration_ms) FROM visits",
	).Scan(&stats.TotalVisits, &totalDurMS)
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}
	if totalDurMS.Valid {
		stats.TotalDuration = time.Duration(totalDurMS.Int64) * time.Millisecond
	}

	// Oldest and newest (handle empty DB)
	if stats.TotalVisits > 0 {
		var oldestMS, newestMS int64
		err = s.db.QueryRowContext(ctx,
			"SELECT MIN(start_ms), MAX(start_ms) FROM visits",
		).Scan(&oldestMS, &newestMS)
		if err != nil {
			return nil, fmt.Errorf("visit time range: %w", err)
		}
		stats.OldestVisit = time.UnixMilli(oldestMS)
		stats.NewestVisit = time.UnixMilli(newestMS)
	}

	// Top domains by total tracked time
	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, COUNT(*), SUM(duration_ms) AS total
		FROM visits GROUP BY domain ORDER BY total DESC LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("top domains: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dd DomainDuration
		var durMS int64
		if err := rows.Scan(&dd.Domain, &dd.Visits, &durMS); err != nil {
			return nil, err
		}
		dd.Duration = time.Duration(durMS) * time.Millisecond
		stats.TopDomains = append(stats.TopDomains, dd)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed - that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.insertVisit, s.visitsBetween}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
