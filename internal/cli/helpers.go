package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"

	"github.com/runnerr0/pageopener/internal/app"
	"github.com/runnerr0/pageopener/internal/config"
	"github.com/runnerr0/pageopener/internal/launcher"
	"github.com/runnerr0/pageopener/internal/logging"
	"github.com/runnerr0/pageopener/internal/schedule"
	"github.com/runnerr0/pageopener/internal/storage"
)

// env is everything a command needs once flags and config are resolved.
type env struct {
	cfg    *config.Config
	dbPath string
	log    *logging.Logger
	store  *storage.SQLiteStore
	parser schedule.Parser
	opener launcher.Opener
	svc    *app.Service
}

// loadConfig resolves the configuration from --config, or from the default
// path, which is created with defaults on first use.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals.Config != "" {
		return config.Load(globals.Config)
	}
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath determines the SQLite database file path.
// Priority: --db-path flag > config file.
func resolveDBPath(globals *GlobalFlags, cfg *config.Config) (string, error) {
	if globals.DBPath != "" {
		return globals.DBPath, nil
	}
	return cfg.DBPath()
}

// openEnv loads config, sets up logging and opens the store. One-shot
// commands log at warn or above unless --verbose.
func openEnv(globals *GlobalFlags, daemon bool) (*env, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, err
	}

	logFile, err := cfg.LogFile()
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if !daemon && logging.ParseLevel(level, zerolog.InfoLevel) < zerolog.WarnLevel {
		level = "warn"
	}
	log, err := logging.New(logging.Options{
		Level:   level,
		Console: cfg.Logging.Console,
		File:    logFile,
		Verbose: globals.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	dbPath, err := resolveDBPath(globals, cfg)
	if err != nil {
		log.Close()
		return nil, err
	}
	store, err := storage.Open(dbPath, cfg.Storage.SQLiteJournalMode)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	parser, err := schedule.NewParser(cfg.Scheduler.Parser)
	if err != nil {
		store.Close()
		log.Close()
		return nil, err
	}

	opener := launcher.New(cfg.Launcher)
	return &env{
		cfg:    cfg,
		dbPath: dbPath,
		log:    log,
		store:  store,
		parser: parser,
		opener: opener,
		svc: app.NewService(store, opener,
			app.WithParser(parser),
			app.WithLogger(log.Component("app")),
		),
	}, nil
}

func (e *env) Close() {
	e.store.Close()
	e.log.Close()
}

// stdout returns the writer for command output, translating ANSI escapes
// on consoles that need it.
func stdout() io.Writer {
	return colorable.NewColorable(os.Stdout)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// themeFor reads dark mode for the output palette. Failures fall back to
// the light palette.
func themeFor(ctx context.Context, svc *app.Service) palette {
	st, err := svc.Settings(ctx)
	if err != nil {
		return newPalette(false)
	}
	return newPalette(st.DarkMode)
}

// lastOpenedText renders a page's last visit relative to now.
func lastOpenedText(p storage.Page, now time.Time) string {
	if p.LastOpened == nil {
		return "Never opened"
	}
	return "Last opened: " + humanize.RelTime(*p.LastOpened, now, "ago", "from now")
}

// formatTime renders an instant in local time for human output.
func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// formatRFC3339 renders an optional instant for JSON output.
func formatRFC3339(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
