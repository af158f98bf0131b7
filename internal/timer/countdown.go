// Package timer implements wall-clock countdowns and the meditation timer.
package timer

import (
	"errors"
	"time"
)

// ErrRunning is returned when a running countdown is asked to change duration.
var ErrRunning = errors.New("timer is running")

// State is a countdown lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Handle identifies one running period of a countdown. Every transition out
// of Running invalidates it, so a tick carrying an old handle is ignored.
type Handle uint64

// Countdown measures elapsed time as wall-clock deltas from the instant it
// started running, plus whatever accumulated before the last pause. Tick
// frequency never affects the result.
type Countdown struct {
	duration    time.Duration
	state       State
	accumulated time.Duration
	startedAt   time.Time
	gen         Handle
}

// NewCountdown returns an idle countdown.
func NewCountdown(d time.Duration) *Countdown {
	return &Countdown{duration: d}
}

func (c *Countdown) Duration() time.Duration { return c.duration }
func (c *Countdown) State() State            { return c.state }

// SetDuration changes the total and returns the countdown to Idle.
func (c *Countdown) SetDuration(d time.Duration) error {
	if c.state == Running {
		return ErrRunning
	}
	c.invalidate()
	c.duration = d
	c.state = Idle
	c.accumulated = 0
	return nil
}

// Restore resumes a checkpointed countdown in the Paused state. Elapsed
// values outside (0, duration) leave the countdown alone.
func (c *Countdown) Restore(elapsed time.Duration) bool {
	if c.state == Running || elapsed <= 0 || elapsed >= c.duration {
		return false
	}
	c.accumulated = elapsed
	c.state = Paused
	return true
}

// Start begins or resumes running. Starting a running countdown is a no-op
// that returns the current handle; starting a completed one begins again
// from zero.
func (c *Countdown) Start(now time.Time) (Handle, bool) {
	if c.state == Running {
		return c.gen, false
	}
	c.invalidate()
	if c.state == Completed {
		c.accumulated = 0
	}
	c.state = Running
	c.startedAt = now
	return c.gen, true
}

// Pause stops a running countdown, keeping the elapsed time.
func (c *Countdown) Pause(now time.Time) bool {
	if c.state != Running {
		return false
	}
	c.invalidate()
	c.accumulated = c.Elapsed(now)
	c.state = Paused
	return true
}

// Reset discards all elapsed time and returns to Idle.
func (c *Countdown) Reset() {
	c.invalidate()
	c.state = Idle
	c.accumulated = 0
}

// Valid reports whether h belongs to the current running period.
func (c *Countdown) Valid(h Handle) bool {
	return c.state == Running && h == c.gen
}

// Elapsed returns the elapsed time at now, capped at the duration.
func (c *Countdown) Elapsed(now time.Time) time.Duration {
	e := c.accumulated
	if c.state == Running {
		if d := now.Sub(c.startedAt); d > 0 {
			e += d
		}
	}
	if c.state == Completed || e > c.duration {
		e = c.duration
	}
	return e
}

// Remaining returns the time left at now, truncated to whole seconds of elapsed time.
func (c *Countdown) Remaining(now time.Time) time.Duration {
	return time.Duration(c.RemainingSeconds(now)) * time.Second
}

// ElapsedSeconds returns the elapsed whole seconds at now.
func (c *Countdown) ElapsedSeconds(now time.Time) int {
	return int(c.Elapsed(now) / time.Second)
}

// RemainingSeconds returns the whole seconds left at now.
func (c *Countdown) RemainingSeconds(now time.Time) int {
	r := int(c.duration/time.Second) - c.ElapsedSeconds(now)
	if r < 0 {
		return 0
	}
	return r
}

// Tick advances a running countdown to now. ok is false for a stale handle,
// in which case nothing changes. done is true on the tick that completes it.
func (c *Countdown) Tick(h Handle, now time.Time) (done, ok bool) {
	if !c.Valid(h) {
		return false, false
	}
	if c.RemainingSeconds(now) > 0 {
		return false, true
	}
	c.invalidate()
	c.accumulated = c.duration
	c.state = Completed
	return true, true
}

func (c *Countdown) invalidate() {
	c.gen++
}
