package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/pageopener/config.yaml"

// DefaultTick is the scheduler cadence used when none is configured.
const DefaultTick = time.Second

// Config holds all pageopener configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Launcher  LauncherConfig  `yaml:"launcher"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type StorageConfig struct {
	Path              string `yaml:"path"`
	SQLiteFile        string `yaml:"sqlite_file"`
	SQLiteJournalMode string `yaml:"sqlite_journal_mode"`
}

type SchedulerConfig struct {
	Tick   string `yaml:"tick"`
	Parser string `yaml:"parser"` // robfig | gronx
}

// LauncherConfig selects how pages are opened. An empty Command uses the
// system browser.
type LauncherConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// TickInterval returns the parsed scheduler cadence.
func (c SchedulerConfig) TickInterval() (time.Duration, error) {
	return ParseDurationOrDefault("scheduler.tick", c.Tick, DefaultTick)
}

// Validate reports the first invalid option.
func (c *Config) Validate() error {
	if _, err := c.Scheduler.TickInterval(); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(c.Scheduler.Parser)) {
	case "", "robfig", "gronx":
	default:
		return fmt.Errorf("scheduler.parser: unknown parser %q (use robfig or gronx)", c.Scheduler.Parser)
	}
	if strings.TrimSpace(c.Storage.SQLiteFile) == "" {
		return fmt.Errorf("storage.sqlite_file is required")
	}
	return nil
}

// DBPath returns the SQLite database path with a leading ~ expanded.
func (c *Config) DBPath() (string, error) {
	dir, err := expandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// LogFile returns the log file path with a leading ~ expanded, or "" when
// file logging is off.
func (c *Config) LogFile() (string, error) {
	if strings.TrimSpace(c.Logging.File) == "" {
		return "", nil
	}
	return expandPath(c.Logging.File)
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read, contains invalid YAML or
// fails validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
