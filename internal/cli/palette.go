package cli

import (
	"os"

	"github.com/mattn/go-isatty"
)

// palette holds the ANSI styles of human output. Dark mode picks bright
// colours for dark terminals; light mode picks deeper ones.
type palette struct {
	accent string
	muted  string
	good   string
	bad    string
	reset  string
}

// colorEnabled is false when stdout is not a terminal or NO_COLOR is set.
var colorEnabled = func() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newPalette(dark bool) palette {
	if !colorEnabled() {
		return palette{}
	}
	if dark {
		return palette{
			accent: "\x1b[96m",
			muted:  "\x1b[37m",
			good:   "\x1b[92m",
			bad:    "\x1b[91m",
			reset:  "\x1b[0m",
		}
	}
	return palette{
		accent: "\x1b[34m",
		muted:  "\x1b[90m",
		good:   "\x1b[32m",
		bad:    "\x1b[31m",
		reset:  "\x1b[0m",
	}
}

func (p palette) paint(style, s string) string {
	if style == "" {
		return s
	}
	return style + s + p.reset
}

func (p palette) Accent(s string) string { return p.paint(p.accent, s) }
func (p palette) Muted(s string) string  { return p.paint(p.muted, s) }
func (p palette) Good(s string) string   { return p.paint(p.good, s) }
func (p palette) Bad(s string) string    { return p.paint(p.bad, s) }
