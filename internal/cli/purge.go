package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runnerr0/pageopener/internal/app"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	e, err := openEnv(c.globals, false)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithService(context.Background(), e.svc, os.Stdin)
}

// confirm asks for the typed confirmation unless --force.
func (c *PurgeCommand) confirm(in io.Reader) error {
	if c.Force {
		return nil
	}

	w := stdout()
	fmt.Fprintln(w, "⚠ WARNING: This will permanently delete ALL pages.")
	fmt.Fprintln(w, "  - Every saved URL")
	fmt.Fprintln(w, "  - Every last opened time")
	fmt.Fprintln(w, "Settings are kept.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This action cannot be undone.")
	fmt.Fprintln(w)
	fmt.Fprint(w, `Type "PURGE" to confirm: `)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	if strings.TrimSpace(scanner.Text()) != "PURGE" {
		return fmt.Errorf("aborted: confirmation text did not match")
	}
	return nil
}

// executeWithService purges pages from a provided service (for testing).
func (c *PurgeCommand) executeWithService(ctx context.Context, svc *app.Service, in io.Reader) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}
	if err := c.confirm(in); err != nil {
		return err
	}

	n, err := svc.PurgePages(ctx)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.globals.JSON {
		return printJSON(map[string]interface{}{
			"purged":  true,
			"deleted": n,
		})
	}

	fmt.Fprintf(stdout(), "Purged %d pages. The rotation is empty.\n", n)
	return nil
}
