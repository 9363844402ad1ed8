package cli

import "database/sql"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// TrackCommand — run the tracking daemon the browser extension connects to.
type TrackCommand struct {
	Host     string `long:"host" description:"Override daemon bind host"`
	Port     int    `long:"port" description:"Override daemon port"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}

// StatsCommand — per-domain browsing time report for one day.
type StatsCommand struct {
	Date string `long:"date" description:"Day to report, YYYY-MM-DD (default: today)"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show database health, totals, and daemon liveness.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PruneCommand — delete visits older than the retention window.
type PruneCommand struct {
	OlderThan string `long:"older-than" description:"Override retention period (e.g., 30d)"`
	DryRun    bool   `long:"dry-run" description:"Show what would be pruned without deleting"`

	globals *GlobalFlags
	version string
}

// ClearCommand — delete ALL recorded visits with safety confirmation.
type ClearCommand struct {
	All   bool `long:"all" description:"Required flag to confirm clear intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	db      *sql.DB // injectable for testing; nil means open default DB
}
