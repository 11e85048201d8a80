package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:              "~/.config/pageopener",
			SQLiteFile:        "pageopener.db",
			SQLiteJournalMode: "wal",
		},
		Scheduler: SchedulerConfig{
			Tick:   "1s",
			Parser: "robfig",
		},
		Launcher: LauncherConfig{
			Command: "",
			Args:    []string{},
		},
		Logging: LoggingConfig{
			Level:   "info",
			File:    "",
			Console: true,
		},
	}
}
