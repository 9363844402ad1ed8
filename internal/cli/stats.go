package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/dwell/internal/stats"
	"github.com/runnerr0/dwell/internal/storage"
)

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
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

	return c.executeWithStore(store)
}

// executeWithStore runs the report against a provided store (for testing).
func (c *StatsCommand) executeWithStore(store storage.VisitStore) error {
	day := time.Now()
	if c.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", c.Date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date value %q (want YYYY-MM-DD)", c.Date)
		}
		day = parsed
	}

	report, err := stats.New(store).ForDay(context.Background(), day)
	if err != nil {
		return fmt.Errorf("aggregate visits: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(day, report)
	}
	return c.printHuman(day, report)
}

func (c *StatsCommand) printHuman(day time.Time, report []stats.DomainTotal) error {
	dateStr := day.Format("2006-01-02")

	if len(report) == 0 {
		fmt.Printf("No browsing time recorded for %s\n", dateStr)
		return nil
	}

	fmt.Printf("Browsing time for %s\n\n", dateStr)

	var total time.Duration
	for _, row := range report {
		fmt.Printf("  %-30s %s\n", row.Domain, formatDuration(row.Total))
		total += row.Total
	}

	fmt.Printf("\nTotal: %s across %d domains\n", formatDuration(total), len(report))
	return nil
}

type jsonDomainTotal struct {
	Domain     string `json:"domain"`
	DurationMS int64  `json:"duration_ms"`
	Duration   string `json:"duration"`
}

type jsonStatsOutput struct {
	Date    string            `json:"date"`
	TotalMS int64             `json:"total_ms"`
	Domains []jsonDomainTotal `json:"domains"`
}

func (c *StatsCommand) printJSON(day time.Time, report []stats.DomainTotal) error {
	out := jsonStatsOutput{
		Date:    day.Format("2006-01-02"),
		Domains: make([]jsonDomainTotal, len(report)),
	}
	for i, row := range report {
		out.Domains[i] = jsonDomainTotal{
			Domain:     row.Domain,
			DurationMS: row.Total.Milliseconds(),
			Duration:   formatDuration(row.Total),
		}
		out.TotalMS += row.Total.Milliseconds()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
