package timer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/jagarana/internal/clock"
	"github.com/rcliao/jagarana/internal/model"
)

const (
	DefaultMinutes = 11
	MaxMinutes     = model.MaxElapsedSeconds / 60

	// CheckpointSeconds is the persistence granularity of elapsed time.
	CheckpointSeconds = 10
)

// ErrInvalidDuration is returned for durations outside 1..MaxMinutes.
var ErrInvalidDuration = errors.New("invalid meditation duration")

// Saver persists the record after a mutation.
type Saver interface {
	Save(ctx context.Context)
}

// Phase is one step of the breathing cycle.
type Phase struct {
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Duration time.Duration `json:"-"`
}

// BreathCycle is the inhale/hold/exhale loop shown while meditating.
var BreathCycle = []Phase{
	{Name: "inhale", Label: "Breathe in...", Duration: 4 * time.Second},
	{Name: "hold", Label: "Hold...", Duration: 4 * time.Second},
	{Name: "exhale", Label: "Breathe out...", Duration: 6 * time.Second},
}

// TickResult describes what a meditation tick did.
type TickResult struct {
	Stale        bool  `json:"stale,omitempty"`
	Elapsed      int   `json:"elapsed"`
	Remaining    int   `json:"remaining"`
	Checkpointed bool  `json:"checkpointed,omitempty"`
	Completed    bool  `json:"completed,omitempty"`
	Phase        Phase `json:"phase"`
}

// Meditation is the meditation countdown bound to the progress record.
type Meditation struct {
	rec   *model.Progress
	saver Saver
	clock clock.Clock

	cd             *Countdown
	lastCheckpoint int
	breathStart    time.Time
}

// NewMeditation returns a meditation timer of the given length. A checkpoint
// left by an earlier session is resumed in the paused state.
func NewMeditation(rec *model.Progress, saver Saver, clk clock.Clock, minutes int) (*Meditation, error) {
	if err := validMinutes(minutes); err != nil {
		return nil, err
	}
	m := &Meditation{
		rec:   rec,
		saver: saver,
		clock: clk,
		cd:    NewCountdown(time.Duration(minutes) * time.Minute),
	}
	m.Reload()
	return m, nil
}

// Reload discards the timer's running state and resumes whatever checkpoint
// the record now holds. Outstanding handles become stale. Nothing is saved.
func (m *Meditation) Reload() {
	m.cd.Reset()
	m.lastCheckpoint = 0
	if !m.rec.MeditationDone {
		m.cd.Restore(time.Duration(m.rec.MeditationElapsed) * time.Second)
	}
}

func validMinutes(minutes int) error {
	if minutes < 1 || minutes > MaxMinutes {
		return fmt.Errorf("%w: %d minutes (want 1..%d)", ErrInvalidDuration, minutes, MaxMinutes)
	}
	return nil
}

func (m *Meditation) State() State { return m.cd.State() }

// Minutes returns the configured length.
func (m *Meditation) Minutes() int { return int(m.cd.Duration() / time.Minute) }

// SetDuration changes the length. It is rejected while running and clears
// the elapsed checkpoint otherwise.
func (m *Meditation) SetDuration(ctx context.Context, minutes int) error {
	if err := validMinutes(minutes); err != nil {
		return err
	}
	if err := m.cd.SetDuration(time.Duration(minutes) * time.Minute); err != nil {
		return err
	}
	m.rec.MeditationElapsed = 0
	m.lastCheckpoint = 0
	m.saver.Save(ctx)
	return nil
}

// Start runs the timer and returns the handle ticks must carry. Starting a
// running timer returns the existing handle.
func (m *Meditation) Start() Handle {
	now := m.clock.Now()
	h, started := m.cd.Start(now)
	if started {
		m.lastCheckpoint = m.cd.ElapsedSeconds(now)
		m.rec.MeditationElapsed = m.lastCheckpoint
		m.breathStart = now
	}
	return h
}

// Pause stops a running timer and checkpoints. It is a no-op otherwise.
func (m *Meditation) Pause(ctx context.Context) bool {
	now := m.clock.Now()
	if !m.cd.Pause(now) {
		return false
	}
	m.checkpoint(ctx, m.cd.ElapsedSeconds(now))
	return true
}

// Reset returns the timer to idle and clears the meditation progress.
func (m *Meditation) Reset(ctx context.Context) {
	m.cd.Reset()
	m.lastCheckpoint = 0
	m.rec.MeditationElapsed = 0
	m.rec.MeditationDone = false
	m.saver.Save(ctx)
}

// Tick brings the timer up to the clock. Ticks carrying a handle from an
// earlier running period change nothing.
func (m *Meditation) Tick(ctx context.Context, h Handle) TickResult {
	now := m.clock.Now()
	done, ok := m.cd.Tick(h, now)
	if !ok {
		return TickResult{Stale: true, Elapsed: m.cd.ElapsedSeconds(now), Remaining: m.cd.RemainingSeconds(now)}
	}

	elapsed := m.cd.ElapsedSeconds(now)
	res := TickResult{Elapsed: elapsed, Remaining: m.cd.RemainingSeconds(now)}

	if done {
		m.rec.MeditationDone = true
		m.checkpoint(ctx, elapsed)
		res.Completed = true
		res.Checkpointed = true
		return res
	}

	m.rec.MeditationElapsed = elapsed
	if elapsed/CheckpointSeconds > m.lastCheckpoint/CheckpointSeconds {
		m.checkpoint(ctx, elapsed)
		res.Checkpointed = true
	}
	res.Phase, _ = m.BreathPhase()
	return res
}

func (m *Meditation) checkpoint(ctx context.Context, elapsed int) {
	m.rec.MeditationElapsed = elapsed
	m.lastCheckpoint = elapsed
	m.saver.Save(ctx)
}

// Remaining returns the whole seconds left.
func (m *Meditation) Remaining() int {
	return m.cd.RemainingSeconds(m.clock.Now())
}

// Elapsed returns the whole seconds elapsed.
func (m *Meditation) Elapsed() int {
	return m.cd.ElapsedSeconds(m.clock.Now())
}

// BreathPhase returns the current breathing phase. It only exists while the
// timer runs, and every start begins at the first phase.
func (m *Meditation) BreathPhase() (Phase, bool) {
	if m.cd.State() != Running {
		return Phase{}, false
	}
	return phaseAt(m.clock.Now().Sub(m.breathStart)), true
}

func phaseAt(offset time.Duration) Phase {
	var cycle time.Duration
	for _, p := range BreathCycle {
		cycle += p.Duration
	}
	if offset < 0 {
		offset = 0
	}
	offset %= cycle
	for _, p := range BreathCycle {
		if offset < p.Duration {
			return p
		}
		offset -= p.Duration
	}
	return BreathCycle[0]
}
