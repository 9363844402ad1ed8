// Package logging provides pre-configured logrus loggers, one per component.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger returns a logger tagged with the given component name. The same
// entry is reused for repeated calls with the same component.
//
// The level defaults to info and can be overridden with DWELL_LOG_LEVEL or
// SetLevel (from config).
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if entry, ok := loggers[component]; ok {
		return entry
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(resolveLevel(""))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// SetLevel applies a configured level string to every existing and future
// component logger. Unknown levels fall back to info.
func SetLevel(level string) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	parsed := resolveLevel(level)
	for _, entry := range loggers {
		entry.Logger.SetLevel(parsed)
	}
	configuredLevel = parsed
}

var configuredLevel = logrus.InfoLevel

// resolveLevel picks the effective level: DWELL_LOG_LEVEL wins, then the
// explicit argument, then the last configured level.
func resolveLevel(level string) logrus.Level {
	if env := os.Getenv("DWELL_LOG_LEVEL"); env != "" {
		level = env
	}
	if level == "" {
		return configuredLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
