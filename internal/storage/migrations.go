package storage

import (
	"database/sql"
	"fmt"
)

// A migration is one versioned schema step. Steps run inside a transaction
// and are recorded in schema_migrations, which makes Run safe to call on
// every startup.
type migration struct {
	version int
	name    string
	up      func(tx *sql.Tx) error
}

// schemaMigrations lists every step this build knows, in apply order.
var schemaMigrations = []migration{
	{version: 1, name: "initial_schema", up: migrateV001},
}

// MigrationRunner brings a database up to the current schema version.
type MigrationRunner struct {
	db *sql.DB
}

func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{db: db}
}

// Run sets connection pragmas, then applies every unrecorded step in
// version order. WAL keeps stats reads from blocking behind the daemon's
// visit writes; foreign keys are enforced from the first statement on.
func (r *MigrationRunner) Run() error {
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := r.db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := r.appliedVersions()
	if err != nil {
		return err
	}

	for _, m := range schemaMigrations {
		if applied[m.version] {
			continue
		}
		if err := r.applyStep(m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	return nil
}

// appliedVersions reads the set of already-recorded migration versions.
func (r *MigrationRunner) appliedVersions() (map[int]bool, error) {
	rows, err := r.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// applyStep runs one migration and its bookkeeping insert in a single
// transaction, so a failed step leaves no partial schema behind.
func (r *MigrationRunner) applyStep(m migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.up(tx); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		m.version, m.name,
	); err != nil {
		return fmt.Errorf("record version %d: %w", m.version, err)
	}
	return tx.Commit()
}
