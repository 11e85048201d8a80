package schedule

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestTimeUntil(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		tt := now.Add(d)
		return &tt
	}

	tests := []struct {
		name   string
		target *time.Time
		want   *Countdown
	}{
		{name: "nil target", target: nil, want: nil},
		{name: "equal", target: at(0), want: nil},
		{name: "past", target: at(-time.Minute), want: nil},
		{name: "sub-millisecond", target: at(500 * time.Microsecond), want: nil},
		{name: "one of each", target: at(90061000 * time.Millisecond), want: &Countdown{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{name: "truncates", target: at(59*time.Second + 999*time.Millisecond), want: &Countdown{Seconds: 59}},
		{name: "under a second", target: at(400 * time.Millisecond), want: &Countdown{}},
		{name: "days only", target: at(72 * time.Hour), want: &Countdown{Days: 3}},
		{name: "mixed", target: at(4*time.Minute + 59*time.Second), want: &Countdown{Minutes: 4, Seconds: 59}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TimeUntil(tc.target, now)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("TimeUntil() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCountdownString(t *testing.T) {
	assert.Equal(t, "1d 1h 1m 1s", Countdown{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}.String())
	assert.Equal(t, "0h 4m 59s", Countdown{Minutes: 4, Seconds: 59}.String())
}

func TestCountdownDuration(t *testing.T) {
	c := Countdown{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}
	assert.Equal(t, 90061*time.Second, c.Duration())
}
