package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/pageopener/internal/app"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if c.URL == "" && len(args) > 0 {
		c.URL = args[0]
	}
	if c.URL == "" {
		return fmt.Errorf("--url is required for add command")
	}

	e, err := openEnv(c.globals, false)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithService(context.Background(), e.svc)
}

// executeWithService runs the add logic against a provided service (used by tests).
func (c *AddCommand) executeWithService(ctx context.Context, svc *app.Service) error {
	page, err := svc.AddPage(ctx, c.URL)
	if err != nil {
		return err
	}

	if c.globals.JSON {
		return printJSON(pageJSONFrom(page))
	}

	pal := themeFor(ctx, svc)
	fmt.Fprintf(stdout(), "Added page %s\n", pal.Accent(fmt.Sprintf("#%d", page.ID)))
	fmt.Fprintf(stdout(), "  URL: %s\n", page.URL)
	return nil
}
