// Package timer implements the one-second countdown used for preparation and speaking time.
//
// A Countdown does not own a clock. The host delivers one Tick per second, which keeps every
// state change on the host's event loop.
package timer

import "fmt"

type Countdown struct {
	duration   int
	remaining  int
	active     bool
	onComplete func()
}

// Start arms the countdown. A previous run is discarded without firing.
func (c *Countdown) Start(seconds int, onComplete func()) {
	c.duration = seconds
	c.remaining = seconds
	c.onComplete = onComplete
	c.active = true
	if seconds <= 0 {
		c.complete()
	}
}

// Tick advances by one second. It reports whether this tick completed the countdown.
func (c *Countdown) Tick() bool {
	if !c.active {
		return false
	}
	c.remaining--
	if c.remaining > 0 {
		return false
	}
	c.complete()
	return true
}

func (c *Countdown) complete() {
	c.remaining = 0
	c.active = false
	fn := c.onComplete
	c.onComplete = nil
	if fn != nil {
		fn()
	}
}

// SetDuration changes the configured duration. An active countdown restarts from the new value.
func (c *Countdown) SetDuration(seconds int) {
	c.duration = seconds
	if c.active && seconds > 0 {
		c.remaining = seconds
	}
}

// Stop deactivates the countdown without firing completion.
func (c *Countdown) Stop() {
	c.active = false
	c.onComplete = nil
}

func (c *Countdown) Active() bool   { return c.active }
func (c *Countdown) Remaining() int { return c.remaining }
func (c *Countdown) Duration() int  { return c.duration }

// Progress is the remaining fraction in [0, 1].
func (c *Countdown) Progress() float64 {
	if c.duration <= 0 {
		return 0
	}
	return float64(c.remaining) / float64(c.duration)
}

// Format renders seconds as m:ss.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
