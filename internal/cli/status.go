package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/runnerr0/dwell/internal/config"
	"github.com/runnerr0/dwell/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version         string       `json:"version"`
	DatabasePath    string       `json:"database_path"`
	DatabaseSize    int64        `json:"database_size_bytes"`
	TotalVisits     int64        `json:"total_visits"`
	TotalTrackedMS  int64        `json:"total_tracked_ms"`
	OldestVisit     string       `json:"oldest_visit,omitempty"`
	NewestVisit     string       `json:"newest_visit,omitempty"`
	RetentionDays   int          `json:"retention_days"`
	TopDomains      []domainJSON `json:"top_domains"`
	DaemonRunning   bool         `json:"daemon_running"`
}

type domainJSON struct {
	Domain     string `json:"domain"`
	Visits     int64  `json:"visits"`
	DurationMS int64  `json:"duration_ms"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, db, cfg)
}

// executeWithStore runs status against a provided store and db (for testing).
func (c *StatusCommand) executeWithStore(store *storage.SQLiteStore, db *sql.DB, cfg *config.Config) error {
	ctx := context.Background()

	st, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbPath, err := cfg.DBPath()
	if err != nil {
		return err
	}
	dbSize := getDatabaseSize(db, dbPath)

	daemonRunning := checkDaemon(cfg.Daemon.Host, cfg.Daemon.Port)

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(st, dbPath, dbSize, daemonRunning, cfg.Retention.Days)
	}
	return c.printStatusHuman(st, dbPath, dbSize, daemonRunning, cfg.Retention.Days)
}

func (c *StatusCommand) printStatusHuman(st *storage.Stats, dbPath string, dbSize int64, daemonRunning bool, retentionDays int) error {
	fmt.Println("Dwell Status")
	fmt.Println("============")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", dbPath, formatBytes(dbSize))
	fmt.Printf("Visits:        %d\n", st.TotalVisits)
	fmt.Printf("Tracked:       %s\n", formatDuration(st.TotalDuration))

	if st.TotalVisits > 0 {
		fmt.Printf("Oldest:        %s\n", st.OldestVisit.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", st.NewestVisit.Local().Format("2006-01-02"))
	}

	fmt.Printf("Retention:     %d days\n", retentionDays)

	if len(st.TopDomains) > 0 {
		fmt.Println()
		fmt.Println("Top Domains:")
		for _, d := range st.TopDomains {
			fmt.Printf("  %-30s %s\n", d.Domain, formatDuration(d.Duration))
		}
	}

	fmt.Println()
	if daemonRunning {
		fmt.Println("Daemon:        running")
	} else {
		fmt.Println("Daemon:        not running")
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(st *storage.Stats, dbPath string, dbSize int64, daemonRunning bool, retentionDays int) error {
	out := statusJSON{
		Version:        c.version,
		DatabasePath:   dbPath,
		DatabaseSize:   dbSize,
		TotalVisits:    st.TotalVisits,
		TotalTrackedMS: st.TotalDuration.Milliseconds(),
		RetentionDays:  retentionDays,
		TopDomains:     make([]domainJSON, len(st.TopDomains)),
		DaemonRunning:  daemonRunning,
	}

	if st.TotalVisits > 0 {
		out.OldestVisit = st.OldestVisit.UTC().Format(time.RFC3339)
		out.NewestVisit = st.NewestVisit.UTC().Format(time.RFC3339)
	}

	for i, d := range st.TopDomains {
		out.TopDomains[i] = domainJSON{
			Domain:     d.Domain,
			Visits:     d.Visits,
			DurationMS: d.Duration.Milliseconds(),
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// checkDaemon attempts an HTTP GET to the daemon's status endpoint.
// Returns true if the daemon responds within 1 second.
func checkDaemon(host string, port int) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s:%d/status", host, port))
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
