package schedule

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/runnerr0/pageopener/internal/storage"
)

// ErrAlreadyRunning is returned by Run when the scheduler loop is active.
var ErrAlreadyRunning = errors.New("scheduler already running")

// State is the scheduler state derived on every tick.
type State int

const (
	// StateIdle: no valid next run (expression missing or unparseable).
	StateIdle State = iota
	// StateArmed: a concrete next run instant is known.
	StateArmed
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	default:
		return "idle"
	}
}

// Snapshot is what the presentation layer needs after a tick.
type Snapshot struct {
	At         time.Time
	State      State
	Expression string
	NextRun    *time.Time
	Countdown  *Countdown
	Fired      bool   // a fire happened on this tick
	LastVisit  *Visit // most recent successful visit
}

// Store is the subset of storage.Store the scheduler reads and writes.
type Store interface {
	PageToucher
	ListPages(ctx context.Context) ([]storage.Page, error)
	GetSettings(ctx context.Context) (*storage.Settings, error)
}

// Options tune a Scheduler. Zero values pick sensible defaults.
type Options struct {
	Tick     time.Duration
	Parser   Parser
	Logger   zerolog.Logger
	Rand     *rand.Rand
	Clock    func() time.Time
	Observer func(Snapshot)
}

// Scheduler owns the single tick source of the engine.
type Scheduler struct {
	store   Store
	opener  Opener
	parser  Parser
	log     zerolog.Logger
	rng     *rand.Rand
	tick    time.Duration
	now     func() time.Time
	observe func(Snapshot)

	mu     sync.Mutex
	snap   Snapshot
	cursor time.Time // instant of the previous evaluation
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler over store that opens pages with opener.
func New(store Store, opener Opener, opts Options) *Scheduler {
	s := &Scheduler{
		store:   store,
		opener:  opener,
		parser:  opts.Parser,
		log:     opts.Logger,
		rng:     opts.Rand,
		tick:    opts.Tick,
		now:     opts.Clock,
		observe: opts.Observer,
	}
	if s.parser == nil {
		s.parser = NewRobfigParser()
	}
	if s.tick <= 0 {
		s.tick = time.Second
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Run evaluates a tick immediately and then on every interval until ctx is
// cancelled or Stop is called. No tick runs after Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.cancel, s.done = nil, nil
		s.mu.Unlock()
		close(done)
	}()

	s.log.Info().
		Dur("tick", s.tick).
		Str("parser", s.parser.Name()).
		Msg("scheduler started")

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.Tick(ctx, s.now())
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler stopped")
			return nil
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}

// Stop cancels a running loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Snapshot returns the state computed by the latest tick.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Tick runs next-run, countdown and fire-check for now, in that order.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) Snapshot {
	s.mu.Lock()
	cursor := s.cursor
	prev := s.snap
	s.mu.Unlock()

	// The first tick, and a clock that went backwards, only establish a
	// baseline: instants before it are never fired retroactively.
	if cursor.IsZero() || now.Before(cursor) {
		cursor = now
	}

	snap := Snapshot{At: now, LastVisit: prev.LastVisit}

	// next-run
	snap.Expression = s.expression(ctx, prev)
	next, ok := ComputeNextRun(s.parser, snap.Expression, cursor)

	// countdown
	snap.NextRun, snap.Countdown = nextAndCountdown(next, ok, now)

	// fire-check
	if ok && !now.Before(next) {
		snap.Fired = true
		if v := s.fire(ctx, now); v != nil {
			snap.LastVisit = v
		}
		next, ok = ComputeNextRun(s.parser, snap.Expression, now)
		snap.NextRun, snap.Countdown = nextAndCountdown(next, ok, now)
	}

	if ok {
		snap.State = StateArmed
	}
	if prev.State != snap.State && !prev.At.IsZero() {
		s.log.Info().
			Str("from", prev.State.String()).
			Str("to", snap.State.String()).
			Str("expression", snap.Expression).
			Msg("scheduler state changed")
	}

	s.mu.Lock()
	s.cursor = now
	s.snap = snap
	s.mu.Unlock()

	if s.observe != nil {
		s.observe(snap)
	}
	return snap
}

func nextAndCountdown(next time.Time, ok bool, now time.Time) (*time.Time, *Countdown) {
	if !ok {
		return nil, nil
	}
	return &next, TimeUntil(&next, now)
}

// expression reads the current cron expression. A missing row yields the
// default and a stored empty expression stays empty, which never fires. A
// failed read keeps the value from the previous tick.
func (s *Scheduler) expression(ctx context.Context, prev Snapshot) string {
	st, err := s.store.GetSettings(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("read settings failed")
		if prev.At.IsZero() {
			return storage.DefaultCronExpression
		}
		return prev.Expression
	}
	if st == nil {
		return storage.DefaultCronExpression
	}
	return st.CronExpression
}

// fire selects and visits one page. Failures are logged and not retried.
func (s *Scheduler) fire(ctx context.Context, now time.Time) *Visit {
	pages, err := s.store.ListPages(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("list pages failed, skipping run")
		return nil
	}

	page, ok := SelectNextPage(pages, s.rng)
	if !ok {
		s.log.Debug().Msg("no pages to open")
		return nil
	}

	v := OnFire(page, now)
	if err := Execute(ctx, s.store, s.opener, v); err != nil {
		s.log.Error().Err(err).Int64("page_id", v.PageID).Msg("visit failed")
		return nil
	}

	s.log.Info().
		Int64("page_id", v.PageID).
		Str("url", v.URL).
		Msg("page opened")
	return &v
}
