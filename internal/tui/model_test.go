package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/jagarana/internal/clock"
	"github.com/rcliao/jagarana/internal/midnight"
	"github.com/rcliao/jagarana/internal/store"
	"github.com/rcliao/jagarana/internal/timer"
	"github.com/rcliao/jagarana/internal/tracker"
)

var t0 = time.Date(2026, 2, 15, 23, 50, 0, 0, time.Local)

func newTracker(t *testing.T, clk *clock.Manual) *tracker.Tracker {
	t.Helper()
	tr, err := tracker.New(context.Background(), store.NewMemorySlot(),
		tracker.WithClock(clk), tracker.WithMeditationMinutes(1))
	require.NoError(t, err)
	return tr
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMeditationScreenRunsToCompletion(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	tr := newTracker(t, clk)
	m := New(MeditationDriver(ctx, tr))

	m, cmd := update(t, m, startMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.running)
	h := m.handle

	for i := 0; i < 59; i++ {
		clk.Advance(time.Second)
		m, cmd = update(t, m, tickMsg{handle: h})
		require.NotNil(t, cmd, "tick %d reschedules", i)
	}
	assert.Equal(t, 1, m.frame.Remaining)
	assert.Contains(t, m.View(), "00:01")

	clk.Advance(time.Second)
	m, cmd = update(t, m, tickMsg{handle: h})
	assert.Nil(t, cmd)
	assert.True(t, m.Completed())
	assert.True(t, tr.State().Progress.MeditationDone)
	assert.Contains(t, m.View(), "Complete")
}

func TestPauseDropsScheduledTicks(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	tr := newTracker(t, clk)
	m := New(MeditationDriver(ctx, tr))

	m, _ = update(t, m, startMsg{})
	old := m.handle
	clk.Advance(5 * time.Second)

	m, cmd := update(t, m, keyRunes("p"))
	assert.Nil(t, cmd)
	assert.False(t, m.running)
	assert.Equal(t, timer.Paused, tr.State().Meditation.State)

	clk.Advance(time.Minute)
	m, cmd = update(t, m, tickMsg{handle: old})
	assert.Nil(t, cmd)
	assert.False(t, tr.State().Progress.MeditationDone)
	assert.Equal(t, 55, m.frame.Remaining)

	m, cmd = update(t, m, keyRunes("p"))
	require.NotNil(t, cmd)
	assert.NotEqual(t, old, m.handle)

	m, _ = update(t, m, tickMsg{handle: old})
	assert.Equal(t, 55, m.frame.Remaining, "old handle still ignored after resume")
}

func TestResetKey(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	tr := newTracker(t, clk)
	m := New(MeditationDriver(ctx, tr))

	m, _ = update(t, m, startMsg{})
	clk.Advance(20 * time.Second)
	m, _ = update(t, m, tickMsg{handle: m.handle})

	m, _ = update(t, m, keyRunes("r"))
	assert.False(t, m.running)
	assert.Equal(t, 60, m.frame.Remaining)
	assert.Equal(t, 0, tr.State().Progress.MeditationElapsed)
}

func TestQuitCheckpoints(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	tr := newTracker(t, clk)
	m := New(MeditationDriver(ctx, tr))

	m, _ = update(t, m, startMsg{})
	clk.Advance(17 * time.Second)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, 17, tr.State().Progress.MeditationElapsed)
}

func TestStillnessScreenRequiresTrigger(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	tr := newTracker(t, clk)

	m, _ := update(t, New(StillnessDriver(ctx, tr)), startMsg{})
	assert.ErrorIs(t, m.Err(), midnight.ErrNotTriggered)
}

func TestStillnessScreenDismiss(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(t0)
	tr := newTracker(t, clk)
	clk.Set(time.Date(2026, 2, 16, 0, 1, 0, 0, time.Local))
	require.True(t, tr.PollMidnight(ctx))

	m := New(StillnessDriver(ctx, tr))
	assert.Contains(t, m.View(), "dismiss")
	m, _ = update(t, m, startMsg{})
	clk.Advance(time.Minute)
	m, _ = update(t, m, tickMsg{handle: m.handle})
	assert.Equal(t, 240, m.frame.Remaining)

	m, _ = update(t, m, keyRunes(" "))
	assert.False(t, m.running)
	assert.Equal(t, timer.Idle, tr.StillnessState())
	assert.Equal(t, 300, m.frame.Remaining)
	assert.False(t, tr.State().Progress.MidnightDone)
}

type failingDriver struct{ Driver }

func (failingDriver) Start() (timer.Handle, error) { return 0, errors.New("boom") }
func (failingDriver) Status() Frame                { return Frame{Total: 60, Remaining: 60} }
func (failingDriver) PauseLabel() string           { return "pause" }
func (failingDriver) Title() string                { return "Failing" }

func TestStartErrorQuits(t *testing.T) {
	m, cmd := update(t, New(failingDriver{}), startMsg{})
	require.NotNil(t, cmd)
	assert.EqualError(t, m.Err(), "boom")
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{0: "00:00", 59: "00:59", 660: "11:00", 3599: "59:59", -4: "00:00"}
	for in, want := range tests {
		assert.Equal(t, want, FormatClock(in))
	}
}

func TestHelpToggle(t *testing.T) {
	m := New(failingDriver{})
	m, _ = update(t, m, keyRunes("?"))
	assert.True(t, m.help.ShowAll)
	assert.True(t, strings.Contains(m.View(), "help"))
}
