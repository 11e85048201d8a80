package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/runnerr0/pageopener/internal/config"
	"github.com/runnerr0/pageopener/internal/schedule"
)

// Execute implements the go-flags Commander interface for RunCommand.
func (c *RunCommand) Execute(args []string) error {
	e, err := openEnv(c.globals, true)
	if err != nil {
		return err
	}
	defer e.Close()

	tick, err := c.tickInterval(e.cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := e.store.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("initialise settings: %w", err)
	}

	opts := schedule.Options{
		Tick:   tick,
		Parser: e.parser,
		Logger: e.log.Component("scheduler"),
	}
	return c.run(ctx, schedule.New(e.store, e.opener, c.withObserver(opts, stdout())), e.log.Component("cli"))
}

// tickInterval applies --tick over the configured cadence.
func (c *RunCommand) tickInterval(cfg *config.Config) (time.Duration, error) {
	if c.Tick != "" {
		d, err := config.ParseDurationField("--tick", c.Tick)
		if err != nil {
			return 0, err
		}
		if d <= 0 {
			return 0, fmt.Errorf("--tick: must be positive")
		}
		return d, nil
	}
	return cfg.Scheduler.TickInterval()
}

// withObserver installs the console reporter on opts.
func (c *RunCommand) withObserver(opts schedule.Options, w io.Writer) schedule.Options {
	opts.Observer = newRunReporter(w, c.Countdown, c.globals.JSON).observe
	return opts
}

// run blocks until ctx is cancelled.
func (c *RunCommand) run(ctx context.Context, s *schedule.Scheduler, log zerolog.Logger) error {
	log.Info().Str("version", c.version).Msg("pageopener running, press Ctrl+C to stop")
	err := s.Run(ctx)
	if c.Countdown && !c.globals.JSON {
		fmt.Fprintln(stdout())
	}
	return err
}

// runReporter prints fires and, optionally, a live countdown line.
type runReporter struct {
	w         io.Writer
	countdown bool
	asJSON    bool
	lastState schedule.State
	started   bool
}

func newRunReporter(w io.Writer, countdown, asJSON bool) *runReporter {
	return &runReporter{w: w, countdown: countdown, asJSON: asJSON}
}

func (r *runReporter) observe(s schedule.Snapshot) {
	if r.asJSON {
		r.observeJSON(s)
		return
	}

	if s.Fired && s.LastVisit != nil && s.LastVisit.At.Equal(s.At) {
		if r.countdown {
			fmt.Fprint(r.w, "\r\x1b[K")
		}
		fmt.Fprintf(r.w, "%s opened #%d %s\n", formatTime(s.At), s.LastVisit.PageID, s.LastVisit.URL)
	}
	if (!r.started || r.lastState != s.State) && s.State == schedule.StateIdle {
		if r.countdown {
			fmt.Fprint(r.w, "\r\x1b[K")
		}
		fmt.Fprintf(r.w, "Invalid cron expression %q, waiting for a valid one\n", s.Expression)
	}
	r.started, r.lastState = true, s.State

	if r.countdown && s.Countdown != nil {
		fmt.Fprintf(r.w, "\r\x1b[KNext run in %s", s.Countdown)
	}
}

// observeJSON emits one JSON line per fire.
func (r *runReporter) observeJSON(s schedule.Snapshot) {
	if !s.Fired || s.LastVisit == nil || !s.LastVisit.At.Equal(s.At) {
		return
	}
	_ = json.NewEncoder(r.w).Encode(s.LastVisit)
}
