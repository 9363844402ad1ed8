package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/runnerr0/dwell/internal/storage"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	retention := time.Duration(cfg.Retention.Days) * 24 * time.Hour
	if c.OlderThan != "" {
		retention, err = parseDuration(c.OlderThan)
		if err != nil {
			return fmt.Errorf("invalid --older-than value %q: %w", c.OlderThan, err)
		}
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, retention)
}

// executeWithStore runs the prune against a provided store (for testing).
func (c *PruneCommand) executeWithStore(store storage.VisitStore, retention time.Duration) error {
	ctx := context.Background()
	cutoff := time.Now().Add(-retention)

	var pruned int64
	if c.DryRun {
		// Count exactly what the delete's start_ms < cutoff matches,
		// pre-epoch rows included. math.MinInt64 itself does not survive
		// the UnixMilli round trip, so halve it for an open lower bound.
		floor := time.UnixMilli(math.MinInt64 / 2)
		visits, err := store.VisitsBetween(ctx, floor, cutoff.Add(-time.Millisecond))
		if err != nil {
			return fmt.Errorf("count prunable visits: %w", err)
		}
		pruned = int64(len(visits))
	} else {
		var err error
		pruned, err = store.PruneBefore(ctx, cutoff)
		if err != nil {
			return err
		}
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"pruned":  pruned,
			"cutoff":  cutoff.UTC().Format(time.RFC3339),
			"dry_run": c.DryRun,
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	if c.DryRun {
		fmt.Printf("Would prune %d visits older than %s\n", pruned, formatRetention(retention))
		return nil
	}
	fmt.Printf("Pruned %d visits older than %s\n", pruned, formatRetention(retention))
	return nil
}

// formatRetention formats a retention window like "90 days" or "36 hours".
func formatRetention(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours > 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}
