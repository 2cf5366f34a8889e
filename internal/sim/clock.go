package sim

import "time"

// Clock turns wall-clock frame times into simulation timesteps. Long stalls
// are clamped to MaxDt so a paused terminal does not fling particles through
// walls on the next frame.
type Clock struct {
	MaxDt   float64
	last    time.Time
	started bool
}

func NewClock(maxDt float64) *Clock {
	return &Clock{MaxDt: maxDt}
}

// Tick returns the seconds elapsed since the previous tick. The first tick
// returns 0.
func (c *Clock) Tick(now time.Time) float64 {
	if !c.started {
		c.last, c.started = now, true
		return 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		return 0
	}
	if c.MaxDt > 0 && dt > c.MaxDt {
		return c.MaxDt
	}
	return dt
}

// Reset makes the next Tick return 0, e.g. after unpausing.
func (c *Clock) Reset() { c.started = false }
