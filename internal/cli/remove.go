package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/pageopener/internal/app"
	"github.com/runnerr0/pageopener/internal/storage"
)

// Execute implements the go-flags Commander interface for RemoveCommand.
func (c *RemoveCommand) Execute(args []string) error {
	if c.ID <= 0 {
		return fmt.Errorf("--id is required for remove command")
	}

	e, err := openEnv(c.globals, false)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithService(context.Background(), e.svc)
}

// executeWithService removes the page from a provided service (for testing).
func (c *RemoveCommand) executeWithService(ctx context.Context, svc *app.Service) error {
	if err := svc.RemovePage(ctx, c.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("page not found: %d", c.ID)
		}
		return err
	}

	if c.globals.JSON {
		return printJSON(map[string]interface{}{
			"id":      c.ID,
			"removed": true,
		})
	}

	fmt.Fprintf(stdout(), "Removed page #%d\n", c.ID)
	return nil
}
