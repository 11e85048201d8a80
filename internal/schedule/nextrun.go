package schedule

import (
	"strings"
	"time"
)

// ComputeNextRun returns the first instant strictly after now at which expr
// fires. It reports false instead of failing when the expression is empty,
// unparseable or never fires, and recovers from parser panics.
func ComputeNextRun(p Parser, expr string, now time.Time) (next time.Time, ok bool) {
	if p == nil || strings.TrimSpace(expr) == "" {
		return time.Time{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			next, ok = time.Time{}, false
		}
	}()

	next, err := p.Next(expr, now)
	if err != nil || next.IsZero() || !next.After(now) {
		return time.Time{}, false
	}
	return next, true
}
