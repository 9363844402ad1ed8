package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/dwell",
			SQLiteFile: "dwell.db",
		},
		Daemon: DaemonConfig{
			Host: "127.0.0.1",
			Port: 7741,
		},
		Tracking: TrackingConfig{
			MinVisitMS: 1000,
		},
		Retention: RetentionConfig{
			Days: 90,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
