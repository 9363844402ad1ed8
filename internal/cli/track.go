package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runnerr0/dwell/internal/daemon"
	"github.com/runnerr0/dwell/internal/logging"
	"github.com/runnerr0/dwell/internal/tracker"
)

// Execute implements the go-flags Commander interface for TrackCommand.
func (c *TrackCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if c.LogLevel != "" {
		level = c.LogLevel
	}
	logging.SetLevel(level)

	host := cfg.Daemon.Host
	if c.Host != "" {
		host = c.Host
	}
	port := cfg.Daemon.Port
	if c.Port != 0 {
		port = c.Port
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.NewLogger("track")
	registry := daemon.NewTabRegistry()
	events := make(chan tracker.Event, 64)

	tr := tracker.New(store, registry, logging.NewLogger("tracker"),
		tracker.WithMinVisit(time.Duration(cfg.Tracking.MinVisitMS)*time.Millisecond))

	trackerDone := make(chan struct{})
	go func() {
		// Run flushes every open session on shutdown, best effort.
		tr.Run(ctx, events)
		close(trackerDone)
	}()

	addr := fmt.Sprintf("%s:%d", host, port)
	srv := daemon.NewServer(addr, registry, events, log)
	err = srv.ListenAndServe(ctx)

	stop()
	<-trackerDone

	if err != nil {
		return fmt.Errorf("daemon: %w", err)
	}
	log.Info("daemon stopped")
	return nil
}
