package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/pageopener/internal/app"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string   `json:"version"`
	DatabasePath      string   `json:"database_path"`
	DatabaseSizeBytes int64    `json:"database_size_bytes"`
	SchemaVersion     int      `json:"schema_version"`
	TotalPages        int64    `json:"total_pages"`
	NeverOpened       int64    `json:"never_opened"`
	LastOpened        string   `json:"last_opened,omitempty"`
	DarkMode          bool     `json:"dark_mode"`
	Parser            string   `json:"parser"`
	Next              nextJSON `json:"next"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	e, err := openEnv(c.globals, false)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithService(context.Background(), e.svc, e.dbPath, time.Now())
}

// executeWithService runs status against a provided service (for testing).
func (c *StatusCommand) executeWithService(ctx context.Context, svc *app.Service, dbPath string, now time.Time) error {
	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}
	settings, err := svc.Settings(ctx)
	if err != nil {
		return err
	}
	preview, err := svc.NextRun(ctx, now)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		out := statusJSON{
			Version:           c.version,
			DatabasePath:      dbPath,
			DatabaseSizeBytes: stats.DatabaseSizeBytes,
			SchemaVersion:     stats.SchemaVersion,
			TotalPages:        stats.TotalPages,
			NeverOpened:       stats.NeverOpened,
			DarkMode:          settings.DarkMode,
			Parser:            svc.Parser().Name(),
			Next:              nextJSONFrom(preview),
		}
		if !stats.LastOpened.IsZero() {
			out.LastOpened = formatRFC3339(&stats.LastOpened)
		}
		return printJSON(out)
	}

	pal := newPalette(settings.DarkMode)
	w := stdout()
	fmt.Fprintln(w, pal.Accent("pageopener status"))
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "Version:       %s\n", c.version)
	fmt.Fprintf(w, "Database:      %s (%s, schema v%d)\n", dbPath, humanize.IBytes(uint64(stats.DatabaseSizeBytes)), stats.SchemaVersion)
	fmt.Fprintf(w, "Pages:         %s\n", humanize.Comma(stats.TotalPages))
	fmt.Fprintf(w, "Never opened:  %s\n", humanize.Comma(stats.NeverOpened))
	if !stats.LastOpened.IsZero() {
		fmt.Fprintf(w, "Last opened:   %s (%s)\n", formatTime(stats.LastOpened), humanize.RelTime(stats.LastOpened, now, "ago", "from now"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Schedule:      %s (%s parser)\n", preview.Expression, svc.Parser().Name())
	if preview.Valid() {
		fmt.Fprintf(w, "Next run:      %s\n", pal.Good(formatTime(*preview.NextRun)))
		fmt.Fprintf(w, "Countdown:     %s\n", preview.Countdown)
	} else {
		fmt.Fprintf(w, "Next run:      %s\n", pal.Bad("Invalid cron expression"))
	}
	theme := "light"
	if settings.DarkMode {
		theme = "dark"
	}
	fmt.Fprintf(w, "Theme:         %s\n", theme)

	return nil
}
