package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/pageopener/internal/app"
)

// Execute implements the go-flags Commander interface for CronCommand.
func (c *CronCommand) Execute(args []string) error {
	e, err := openEnv(c.globals, false)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithService(context.Background(), e.svc, time.Now())
}

// expression joins the positional words so both `cron "0 9 * * *"` and
// `cron 0 9 \* \* \*` work.
func (c *CronCommand) expression() string {
	return strings.TrimSpace(strings.Join(c.Args.Expression, " "))
}

// executeWithService shows or sets the expression on a provided service (for testing).
func (c *CronCommand) executeWithService(ctx context.Context, svc *app.Service, now time.Time) error {
	expr := c.expression()
	updated := expr != ""
	if updated {
		if err := svc.SetCronExpression(ctx, expr); err != nil {
			return err
		}
	}

	preview, err := svc.NextRun(ctx, now)
	if err != nil {
		return err
	}

	if c.globals.JSON {
		out := map[string]interface{}{
			"cron_expression": preview.Expression,
			"valid":           preview.Valid(),
			"updated":         updated,
		}
		if preview.NextRun != nil {
			out["next_run"] = formatRFC3339(preview.NextRun)
		}
		return printJSON(out)
	}

	pal := themeFor(ctx, svc)
	w := stdout()
	if updated {
		fmt.Fprintf(w, "Cron expression set to %s\n", pal.Accent(preview.Expression))
	} else {
		fmt.Fprintf(w, "Cron expression: %s\n", pal.Accent(preview.Expression))
	}
	if !preview.Valid() {
		fmt.Fprintln(w, pal.Bad("Invalid cron expression"))
	}
	return nil
}
