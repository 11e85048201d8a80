package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/pageopener/internal/app"
)

// Execute implements the go-flags Commander interface for ThemeCommand.
func (c *ThemeCommand) Execute(args []string) error {
	if c.Dark && c.Light {
		return fmt.Errorf("--dark and --light are mutually exclusive")
	}

	e, err := openEnv(c.globals, false)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithService(context.Background(), e.svc)
}

// executeWithService switches the theme on a provided service (for testing).
func (c *ThemeCommand) executeWithService(ctx context.Context, svc *app.Service) error {
	var dark bool
	var err error
	switch {
	case c.Dark:
		dark, err = svc.SetDarkMode(ctx, true)
	case c.Light:
		dark, err = svc.SetDarkMode(ctx, false)
	default:
		dark, err = svc.ToggleDarkMode(ctx)
	}
	if err != nil {
		return err
	}

	if c.globals.JSON {
		return printJSON(map[string]interface{}{"dark_mode": dark})
	}

	name := "light"
	if dark {
		name = "dark"
	}
	pal := newPalette(dark)
	fmt.Fprintf(stdout(), "Theme: %s\n", pal.Accent(name))
	return nil
}
