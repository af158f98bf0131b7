package tui

import (
	"context"

	"github.com/rcliao/jagarana/internal/midnight"
	"github.com/rcliao/jagarana/internal/timer"
	"github.com/rcliao/jagarana/internal/tracker"
)

// Frame is what a countdown screen renders.
type Frame struct {
	Stale     bool
	Completed bool
	Remaining int
	Total     int
	Label     string
}

// Fraction is the share of the countdown already elapsed.
func (f Frame) Fraction() float64 {
	if f.Total <= 0 {
		return 0
	}
	return float64(f.Total-f.Remaining) / float64(f.Total)
}

// Driver connects a countdown screen to the countdown it shows. All calls
// happen on the Bubble Tea update goroutine.
type Driver interface {
	Title() string
	Start() (timer.Handle, error)
	Tick(h timer.Handle) Frame
	Pause() bool
	Reset()
	Status() Frame
	// PauseLabel names what the pause key does.
	PauseLabel() string
}

type meditationDriver struct {
	ctx context.Context
	tr  *tracker.Tracker
}

// MeditationDriver drives the tracker's meditation timer.
func MeditationDriver(ctx context.Context, tr *tracker.Tracker) Driver {
	return meditationDriver{ctx: ctx, tr: tr}
}

func (d meditationDriver) Title() string      { return "Meditation" }
func (d meditationDriver) PauseLabel() string { return "pause" }

func (d meditationDriver) Start() (timer.Handle, error) {
	return d.tr.StartTimer(d.ctx, 0)
}

func (d meditationDriver) Tick(h timer.Handle) Frame {
	res := d.tr.TickTimer(d.ctx, h)
	f := d.Status()
	f.Stale = res.Stale
	f.Completed = res.Completed
	f.Remaining = res.Remaining
	return f
}

func (d meditationDriver) Pause() bool { return d.tr.PauseTimer(d.ctx) }
func (d meditationDriver) Reset()      { d.tr.ResetTimer(d.ctx) }

func (d meditationDriver) Status() Frame {
	st := d.tr.State().Meditation
	f := Frame{
		Completed: st.State == timer.Completed,
		Remaining: st.Remaining,
		Total:     st.Minutes * 60,
	}
	if p, ok := d.tr.BreathPhase(); ok {
		f.Label = p.Label
	}
	return f
}

type stillnessDriver struct {
	ctx context.Context
	tr  *tracker.Tracker
}

// StillnessDriver drives the midnight stillness countdown. Pausing
// dismisses it; it restarts from zero.
func StillnessDriver(ctx context.Context, tr *tracker.Tracker) Driver {
	return stillnessDriver{ctx: ctx, tr: tr}
}

func (d stillnessDriver) Title() string      { return "Midnight Stillness" }
func (d stillnessDriver) PauseLabel() string { return "dismiss" }

func (d stillnessDriver) Start() (timer.Handle, error) { return d.tr.StartStillness() }

func (d stillnessDriver) Tick(h timer.Handle) Frame {
	res := d.tr.TickStillness(d.ctx, h)
	return Frame{
		Stale:     res.Stale,
		Completed: res.Completed,
		Remaining: res.Remaining,
		Total:     int(midnight.StillnessDuration.Seconds()),
		Label:     "Sit in silence.",
	}
}

func (d stillnessDriver) Pause() bool { return d.tr.DismissStillness() }
func (d stillnessDriver) Reset()      { d.tr.DismissStillness() }

func (d stillnessDriver) Status() Frame {
	return Frame{
		Completed: d.tr.StillnessState() == timer.Completed,
		Remaining: d.tr.StillnessRemaining(),
		Total:     int(midnight.StillnessDuration.Seconds()),
	}
}
