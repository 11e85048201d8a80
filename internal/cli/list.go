package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/pageopener/internal/app"
	"github.com/runnerr0/pageopener/internal/storage"
)

// pageJSON is the JSON output structure for a page.
type pageJSON struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	LastOpened string `json:"last_opened,omitempty"`
	CreatedAt  string `json:"created_at"`
	Opened     bool   `json:"opened"`
}

func pageJSONFrom(p storage.Page) pageJSON {
	return pageJSON{
		ID:         p.ID,
		URL:        p.URL,
		LastOpened: formatRFC3339(p.LastOpened),
		CreatedAt:  formatRFC3339(&p.CreatedAt),
		Opened:     p.Opened(),
	}
}

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	e, err := openEnv(c.globals, false)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWithService(context.Background(), e.svc, time.Now())
}

// executeWithService lists pages from a provided service (for testing).
func (c *ListCommand) executeWithService(ctx context.Context, svc *app.Service, now time.Time) error {
	pages, err := svc.Pages(ctx)
	if err != nil {
		return err
	}

	if c.Never {
		filtered := pages[:0]
		for _, p := range pages {
			if !p.Opened() {
				filtered = append(filtered, p)
			}
		}
		pages = filtered
	}

	if c.globals.JSON {
		out := make([]pageJSON, len(pages))
		for i, p := range pages {
			out[i] = pageJSONFrom(p)
		}
		return printJSON(out)
	}

	w := stdout()
	if len(pages) == 0 {
		fmt.Fprintln(w, "No pages. Add one with: pageopener add --url <URL>")
		return nil
	}

	pal := themeFor(ctx, svc)
	for _, p := range pages {
		fmt.Fprintf(w, "%s %s\n", pal.Accent(fmt.Sprintf("#%-4d", p.ID)), p.URL)
		fmt.Fprintf(w, "      %s\n", pal.Muted(lastOpenedText(p, now)))
	}
	return nil
}
