package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/pageopener/internal/app"
)

// nextJSON is the JSON output structure for the next command.
type nextJSON struct {
	CronExpression string `json:"cron_expression"`
	Valid          bool   `json:"valid"`
	NextRun        string `json:"next_run,omitempty"`
	Countdown      string `json:"countdown,omitempty"`
	Seconds        int64  `json:"seconds_until,omitempty"`
}

func nextJSONFrom(p app.Preview) nextJSON {
	out := nextJSON{CronExpression: p.Expression, Valid: p.Valid()}
	if p.NextRun != nil {
		out.NextRun = formatRFC3339(p.NextRun)
	}
	if p.Countdown != nil {
		out.Countdown = p.Countdown.String()
		out.Seconds = int64(p.Countdown.Duration() / time.Second)
	}
	return out
}

// Execute implements the go-flags Commander interface for NextCommand.
func (c *NextCommand) Execute(args []string) error {
	e, err := openEnv(c.globals, false)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithService(context.Background(), e.svc, time.Now())
}

// executeWithService previews the next run from a provided service (for testing).
func (c *NextCommand) executeWithService(ctx context.Context, svc *app.Service, now time.Time) error {
	preview, err := svc.NextRun(ctx, now)
	if err != nil {
		return err
	}

	if c.globals.JSON {
		return printJSON(nextJSONFrom(preview))
	}

	pal := themeFor(ctx, svc)
	w := stdout()
	if !preview.Valid() {
		fmt.Fprintf(w, "Next run: %s\n", pal.Bad("Invalid cron expression"))
		return nil
	}
	fmt.Fprintf(w, "Next run: %s\n", pal.Accent(formatTime(*preview.NextRun)))
	if preview.Countdown != nil {
		fmt.Fprintf(w, "Time until next run: %s\n", preview.Countdown)
	}
	return nil
}
