package storage

import "database/sql"

// migrateV001 creates the initial dwell schema. Timestamps are stored as
// Unix milliseconds so time-range comparisons stay numeric at the
// resolution the tracker works in. Every statement uses IF NOT EXISTS for
// idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visits (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			url         TEXT NOT NULL,
			domain      TEXT NOT NULL DEFAULT '',
			start_ms    INTEGER NOT NULL,
			end_ms      INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_visits_start        ON visits(start_ms)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_domain       ON visits(domain)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_start_domain ON visits(start_ms, domain)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
