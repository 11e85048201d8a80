package schedule

import (
	"fmt"
	"time"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Countdown is the time left until the next run, truncated to whole seconds.
type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// TimeUntil breaks the millisecond difference between target and now into
// days, hours, minutes and seconds. It returns nil when target is nil or not
// after now.
func TimeUntil(target *time.Time, now time.Time) *Countdown {
	if target == nil {
		return nil
	}
	diff := target.UnixMilli() - now.UnixMilli()
	if diff <= 0 {
		return nil
	}
	return &Countdown{
		Days:    diff / msPerDay,
		Hours:   diff % msPerDay / msPerHour,
		Minutes: diff % msPerHour / msPerMinute,
		Seconds: diff % msPerMinute / msPerSecond,
	}
}

// Duration converts the countdown back to a time.Duration.
func (c Countdown) Duration() time.Duration {
	return time.Duration(c.Days)*24*time.Hour +
		time.Duration(c.Hours)*time.Hour +
		time.Duration(c.Minutes)*time.Minute +
		time.Duration(c.Seconds)*time.Second
}

// String renders "1d 2h 3m 4s"; the day part is left out when zero.
func (c Countdown) String() string {
	if c.Days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", c.Days, c.Hours, c.Minutes, c.Seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", c.Hours, c.Minutes, c.Seconds)
}
