// Package app is the presentation contract over the page store and the
// schedule engine. Front ends (the CLI today) talk to a Service and never
// to storage directly.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/runnerr0/pageopener/internal/schedule"
	"github.com/runnerr0/pageopener/internal/storage"
)

// ErrInvalidURL is returned by AddPage for input that is not an absolute URL.
var ErrInvalidURL = errors.New("please enter a valid URL")

// Preview is the next-run view shown to the user.
type Preview struct {
	Expression string              `json:"cron_expression"`
	NextRun    *time.Time          `json:"next_run,omitempty"`
	Countdown  *schedule.Countdown `json:"countdown,omitempty"`
}

// Valid reports whether the expression yields a next run.
func (p Preview) Valid() bool { return p.NextRun != nil }

// Service exposes every user-facing operation.
type Service struct {
	store  storage.Store
	parser schedule.Parser
	opener schedule.Opener
	rng    *rand.Rand
	log    zerolog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithParser selects the cron parser used for previews.
func WithParser(p schedule.Parser) Option {
	return func(s *Service) { s.parser = p }
}

// WithRand makes page selection deterministic.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService wires a Service over store. opener may be nil when the caller
// never opens pages.
func NewService(store storage.Store, opener schedule.Opener, opts ...Option) *Service {
	s := &Service{store: store, opener: opener}
	for _, opt := range opts {
		opt(s)
	}
	if s.parser == nil {
		s.parser = schedule.NewRobfigParser()
	}
	return s
}

// Parser returns the cron parser in use.
func (s *Service) Parser() schedule.Parser { return s.parser }

// ValidateURL trims raw and checks that it is an absolute URL.
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", ErrInvalidURL
	}
	if u.Host == "" && u.Opaque == "" && u.Path == "" {
		return "", ErrInvalidURL
	}
	return raw, nil
}

// AddPage stores a new never-opened page. Invalid input never reaches the
// store.
func (s *Service) AddPage(ctx context.Context, rawURL string) (storage.Page, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return storage.Page{}, err
	}

	id, err := s.store.InsertPage(ctx, u, nil)
	if err != nil {
		return storage.Page{}, fmt.Errorf("add page: %w", err)
	}
	page, err := s.store.GetPage(ctx, id)
	if err != nil {
		return storage.Page{}, fmt.Errorf("read added page: %w", err)
	}

	s.log.Info().Int64("page_id", id).Str("url", u).Msg("page added")
	return *page, nil
}

// RemovePage deletes a page by id.
func (s *Service) RemovePage(ctx context.Context, id int64) error {
	if err := s.store.DeletePage(ctx, id); err != nil {
		return fmt.Errorf("remove page %d: %w", id, err)
	}
	s.log.Info().Int64("page_id", id).Msg("page removed")
	return nil
}

// Pages lists every page in insertion order.
func (s *Service) Pages(ctx context.Context) ([]storage.Page, error) {
	pages, err := s.store.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// PurgePages deletes every page and keeps settings.
func (s *Service) PurgePages(ctx context.Context) (int64, error) {
	n, err := s.store.PurgePages(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge pages: %w", err)
	}
	s.log.Warn().Int64("deleted", n).Msg("pages purged")
	return n, nil
}

// Settings returns the stored settings, or defaults when none exist yet.
func (s *Service) Settings(ctx context.Context) (storage.Settings, error) {
	st, err := s.store.GetSettings(ctx)
	if err != nil {
		return storage.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if st == nil {
		return storage.DefaultSettings(), nil
	}
	return *st, nil
}

// SetCronExpression stores expr verbatim. An unparseable expression is
// accepted and simply yields no next run.
func (s *Service) SetCronExpression(ctx context.Context, expr string) error {
	if err := s.store.UpsertSettings(ctx, storage.SettingsPatch{CronExpression: &expr}); err != nil {
		return fmt.Errorf("set cron expression: %w", err)
	}
	if err := s.parser.Validate(expr); err != nil {
		s.log.Warn().Err(err).Str("expression", expr).Msg("cron expression updated, it will never fire")
		return nil
	}
	s.log.Info().Str("expression", expr).Msg("cron expression updated")
	return nil
}

// ToggleDarkMode flips dark mode and returns the new value.
func (s *Service) ToggleDarkMode(ctx context.Context) (bool, error) {
	st, err := s.Settings(ctx)
	if err != nil {
		return false, err
	}
	return s.SetDarkMode(ctx, !st.DarkMode)
}

// SetDarkMode forces dark mode on or off.
func (s *Service) SetDarkMode(ctx context.Context, on bool) (bool, error) {
	if err := s.store.UpsertSettings(ctx, storage.SettingsPatch{DarkMode: &on}); err != nil {
		return false, fmt.Errorf("set dark mode: %w", err)
	}
	return on, nil
}

// NextRun previews the next fire instant after now.
func (s *Service) NextRun(ctx context.Context, now time.Time) (Preview, error) {
	st, err := s.Settings(ctx)
	if err != nil {
		return Preview{}, err
	}
	expr := st.CronExpression
	p := Preview{Expression: expr}
	if next, ok := schedule.ComputeNextRun(s.parser, expr, now); ok {
		p.NextRun = &next
		p.Countdown = schedule.TimeUntil(&next, now)
	}
	return p, nil
}

// OpenNext selects the next page exactly as a scheduled fire would and
// visits it. It returns nil when there are no pages.
func (s *Service) OpenNext(ctx context.Context, now time.Time) (*schedule.Visit, error) {
	if s.opener == nil {
		return nil, errors.New("no opener configured")
	}
	pages, err := s.Pages(ctx)
	if err != nil {
		return nil, err
	}
	page, ok := schedule.SelectNextPage(pages, s.rng)
	if !ok {
		return nil, nil
	}

	v := schedule.OnFire(page, now)
	if err := schedule.Execute(ctx, s.store, s.opener, v); err != nil {
		return nil, err
	}
	s.log.Info().Int64("page_id", v.PageID).Str("url", v.URL).Msg("page opened")
	return &v, nil
}

// Stats returns store statistics.
func (s *Service) Stats(ctx context.Context) (*storage.Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	return st, nil
}
