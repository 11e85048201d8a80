// Package launcher opens page URLs for the user, either in the system
// browser or through a configured command.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/browser"

	"github.com/runnerr0/pageopener/internal/config"
)

// ErrEmptyURL is returned when asked to open an empty URL.
var ErrEmptyURL = errors.New("empty url")

// Opener opens a URL for the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// New picks a CommandOpener when a launcher command is configured and the
// system browser otherwise.
func New(cfg config.LauncherConfig) Opener {
	if cmd := strings.TrimSpace(cfg.Command); cmd != "" {
		return &CommandOpener{Command: cmd, Args: cfg.Args}
	}
	return NewBrowserOpener()
}

// BrowserOpener hands URLs to the platform's default browser. Output of
// the helper process is discarded.
type BrowserOpener struct{}

var quietBrowser sync.Once

// NewBrowserOpener silences pkg/browser's output writers once, before any
// opener uses them.
func NewBrowserOpener() *BrowserOpener {
	quietBrowser.Do(func() {
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
	})
	return &BrowserOpener{}
}

func (b *BrowserOpener) Open(ctx context.Context, url string) error {
	if url == "" {
		return ErrEmptyURL
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open in browser: %w", err)
	}
	return nil
}

// CommandOpener runs Command with Args followed by the URL.
type CommandOpener struct {
	Command string
	Args    []string
}

func (c *CommandOpener) Open(ctx context.Context, url string) error {
	if url == "" {
		return ErrEmptyURL
	}

	args := append(append([]string(nil), c.Args...), url)
	cmd := exec.CommandContext(ctx, c.Command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("run %s: %w: %s", c.Command, err, msg)
		}
		return fmt.Errorf("run %s: %w", c.Command, err)
	}
	return nil
}

// Recorder is an Opener that only remembers what it was asked to open.
type Recorder struct {
	mu   sync.Mutex
	urls []string

	// Err, when set, is returned by Open and nothing is recorded.
	Err error
}

func (r *Recorder) Open(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.urls = append(r.urls, url)
	return nil
}

// URLs returns a copy of the opened URLs in order.
func (r *Recorder) URLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}
