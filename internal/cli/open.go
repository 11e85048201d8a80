package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/pageopener/internal/app"
)

// Execute implements the go-flags Commander interface for OpenCommand.
func (c *OpenCommand) Execute(args []string) error {
	e, err := openEnv(c.globals, false)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithService(context.Background(), e.svc, time.Now())
}

// executeWithService opens the next page through a provided service (for testing).
func (c *OpenCommand) executeWithService(ctx context.Context, svc *app.Service, now time.Time) error {
	visit, err := svc.OpenNext(ctx, now)
	if err != nil {
		return err
	}

	if c.globals.JSON {
		out := map[string]interface{}{"opened": visit != nil}
		if visit != nil {
			out["page_id"] = visit.PageID
			out["url"] = visit.URL
			out["at"] = visit.At.UTC().Format(time.RFC3339Nano)
		}
		return printJSON(out)
	}

	w := stdout()
	if visit == nil {
		fmt.Fprintln(w, "No pages to open.")
		return nil
	}
	pal := themeFor(ctx, svc)
	fmt.Fprintf(w, "Opened %s %s\n", pal.Accent(fmt.Sprintf("#%d", visit.PageID)), visit.URL)
	return nil
}
