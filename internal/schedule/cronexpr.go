package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"github.com/robfig/cron/v3"
)

// ErrUnknownParser is returned by NewParser for unsupported backends.
var ErrUnknownParser = errors.New("unknown cron parser")

// Parser computes the first fire instant of a cron expression strictly
// after a reference time.
type Parser interface {
	Next(expr string, after time.Time) (time.Time, error)
	Validate(expr string) error
	Name() string
}

// NewParser returns the backend registered under name. An empty name
// selects robfig.
func NewParser(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "robfig":
		return NewRobfigParser(), nil
	case "gronx":
		return NewGronxParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
}

// RobfigParser wraps robfig/cron for schedule-only usage.
type RobfigParser struct {
	parser cron.Parser
}

// NewRobfigParser accepts standard five-field expressions and descriptors
// such as @hourly.
func NewRobfigParser() *RobfigParser {
	return &RobfigParser{
		parser: cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		),
	}
}

func (p *RobfigParser) Name() string { return "robfig" }

// Next returns the zero time when the schedule has no activation within
// the library's search horizon.
func (p *RobfigParser) Next(expr string, after time.Time) (time.Time, error) {
	sched, err := p.parser.Parse(expr)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(after), nil
}

func (p *RobfigParser) Validate(expr string) error {
	_, err := p.parser.Parse(expr)
	return err
}

// GronxParser uses adhocore/gronx, which also understands an optional
// seconds field and a trailing year.
type GronxParser struct{}

func NewGronxParser() *GronxParser {
	return &GronxParser{}
}

func (p *GronxParser) Name() string { return "gronx" }

func (p *GronxParser) Next(expr string, after time.Time) (time.Time, error) {
	if err := p.Validate(expr); err != nil {
		return time.Time{}, err
	}
	return gronx.NextTickAfter(expr, after, false)
}

func (p *GronxParser) Validate(expr string) error {
	if !gronx.IsValid(expr) {
		return fmt.Errorf("invalid cron expression %q", expr)
	}
	return nil
}
