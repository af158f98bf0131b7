// Package midnight watches for the nightly window and runs the midnight
// stillness countdown.
package midnight

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/jagarana/internal/clock"
	"github.com/rcliao/jagarana/internal/model"
	"github.com/rcliao/jagarana/internal/timer"
)

const (
	// WindowMinutes is how long after local midnight the event can fire.
	WindowMinutes = 15

	DefaultPollInterval = 30 * time.Second
	StillnessDuration   = 5 * time.Minute
)

// ErrNotTriggered is returned when stillness is started before the event fired.
var ErrNotTriggered = errors.New("midnight event has not been triggered")

// Saver persists the record after a mutation.
type Saver interface {
	Save(ctx context.Context)
}

// InWindow reports whether t falls inside the nightly window.
func InWindow(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() < WindowMinutes
}

// Watcher detects the first entry into the nightly window.
type Watcher struct {
	rec   *model.Progress
	saver Saver
	clock clock.Clock
}

func NewWatcher(rec *model.Progress, saver Saver, clk clock.Clock) *Watcher {
	return &Watcher{rec: rec, saver: saver, clock: clk}
}

// Triggered reports whether the event has already fired.
func (w *Watcher) Triggered() bool { return w.rec.MidnightTriggered }

// InWindow reports whether the watcher's clock is inside the nightly window.
func (w *Watcher) InWindow() bool { return InWindow(w.clock.Now()) }

// Poll checks the clock once. It returns true only on the poll that fires
// the event; the trigger is persisted before returning, so a reload inside
// the same window does not fire again.
func (w *Watcher) Poll(ctx context.Context) bool {
	if w.rec.MidnightTriggered || !w.InWindow() {
		return false
	}
	w.rec.MidnightTriggered = true
	w.saver.Save(ctx)
	return true
}

// Watch polls every interval until the event fires or ctx ends. It reports
// whether this call fired the event.
func (w *Watcher) Watch(ctx context.Context, interval time.Duration) (bool, error) {
	fired := false
	err := timer.Drive(ctx, interval, func() bool {
		if w.Triggered() {
			return true
		}
		fired = w.Poll(ctx)
		return fired
	})
	return fired, err
}

// Tick describes one stillness tick.
type Tick struct {
	Stale     bool `json:"stale,omitempty"`
	Remaining int  `json:"remaining"`
	Completed bool `json:"completed,omitempty"`
}

// Stillness is the fixed-length countdown offered once the event fires.
type Stillness struct {
	rec   *model.Progress
	saver Saver
	clock clock.Clock
	cd    *timer.Countdown
}

func NewStillness(rec *model.Progress, saver Saver, clk clock.Clock) *Stillness {
	return &Stillness{
		rec:   rec,
		saver: saver,
		clock: clk,
		cd:    timer.NewCountdown(StillnessDuration),
	}
}

func (s *Stillness) State() timer.State { return s.cd.State() }

// Remaining returns the whole seconds left.
func (s *Stillness) Remaining() int { return s.cd.RemainingSeconds(s.clock.Now()) }

// Start runs the countdown from zero, or returns the current handle if it is
// already running.
func (s *Stillness) Start() (timer.Handle, error) {
	if !s.rec.MidnightTriggered {
		return 0, ErrNotTriggered
	}
	if s.cd.State() != timer.Running {
		s.cd.Reset()
	}
	h, _ := s.cd.Start(s.clock.Now())
	return h, nil
}

// Tick brings the countdown up to the clock. Completion marks both the
// midnight and the meditation requirement done.
func (s *Stillness) Tick(ctx context.Context, h timer.Handle) Tick {
	now := s.clock.Now()
	done, ok := s.cd.Tick(h, now)
	res := Tick{Stale: !ok, Remaining: s.cd.RemainingSeconds(now)}
	if done {
		s.rec.MidnightDone = true
		s.rec.MeditationDone = true
		s.saver.Save(ctx)
		res.Completed = true
	}
	return res
}

// Dismiss abandons a running countdown without marking anything done.
func (s *Stillness) Dismiss() bool {
	if s.cd.State() != timer.Running {
		return false
	}
	s.cd.Reset()
	return true
}
