package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 2, 15, 23, 0, 0, 0, time.Local)

func TestCountdownLifecycle(t *testing.T) {
	c := NewCountdown(time.Minute)
	assert.Equal(t, Idle, c.State())

	h, started := c.Start(t0)
	require.True(t, started)
	assert.Equal(t, Running, c.State())

	h2, started := c.Start(t0.Add(5 * time.Second))
	assert.False(t, started, "second start is a no-op")
	assert.Equal(t, h, h2)

	assert.True(t, c.Pause(t0.Add(20*time.Second)))
	assert.False(t, c.Pause(t0.Add(21*time.Second)), "pausing a paused countdown is a no-op")
	assert.Equal(t, Paused, c.State())
	assert.Equal(t, 20*time.Second, c.Elapsed(t0.Add(time.Hour)))

	c.Reset()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, time.Duration(0), c.Elapsed(t0))
}

func TestCountdownPauseResumeMatchesWallClock(t *testing.T) {
	tests := []struct {
		name string
		step time.Duration
	}{
		{"fine ticks", 100 * time.Millisecond},
		{"one second ticks", time.Second},
		{"throttled ticks", 7 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCountdown(10 * time.Minute)
			now := t0

			h, _ := c.Start(now)
			for end := now.Add(45 * time.Second); now.Before(end); now = now.Add(tt.step) {
				c.Tick(h, now)
			}
			runEnd := t0.Add(45 * time.Second)
			c.Pause(runEnd)

			// Paused for three minutes.
			resumeAt := runEnd.Add(3 * time.Minute)
			h, _ = c.Start(resumeAt)
			now = resumeAt
			for end := resumeAt.Add(30 * time.Second); now.Before(end); now = now.Add(tt.step) {
				c.Tick(h, now)
			}
			check := resumeAt.Add(30 * time.Second)

			wall := check.Sub(t0)
			paused := 3 * time.Minute
			assert.Equal(t, wall-paused, c.Elapsed(check))
		})
	}
}

func TestCountdownStaleHandle(t *testing.T) {
	c := NewCountdown(30 * time.Second)
	h, _ := c.Start(t0)
	c.Pause(t0.Add(5 * time.Second))

	done, ok := c.Tick(h, t0.Add(time.Hour))
	assert.False(t, ok)
	assert.False(t, done)
	assert.Equal(t, Paused, c.State())

	h2, _ := c.Start(t0.Add(10 * time.Second))
	assert.NotEqual(t, h, h2)
	_, ok = c.Tick(h, t0.Add(11*time.Second))
	assert.False(t, ok, "old handle stays invalid after restart")
}

func TestCountdownCompletes(t *testing.T) {
	c := NewCountdown(30 * time.Second)
	h, _ := c.Start(t0)

	done, ok := c.Tick(h, t0.Add(29*time.Second+900*time.Millisecond))
	assert.True(t, ok)
	assert.False(t, done)

	done, ok = c.Tick(h, t0.Add(2*time.Minute))
	assert.True(t, ok)
	assert.True(t, done)
	assert.Equal(t, Completed, c.State())
	assert.Equal(t, 0, c.RemainingSeconds(t0.Add(2*time.Minute)))
	assert.Equal(t, 30*time.Second, c.Elapsed(t0))

	_, ok = c.Tick(h, t0.Add(3*time.Minute))
	assert.False(t, ok, "completion invalidates the handle")

	_, started := c.Start(t0.Add(4 * time.Minute))
	assert.True(t, started)
	assert.Equal(t, 30, c.RemainingSeconds(t0.Add(4*time.Minute)), "restart begins from zero")
}

func TestCountdownSetDuration(t *testing.T) {
	c := NewCountdown(time.Minute)
	c.Start(t0)
	assert.ErrorIs(t, c.SetDuration(2*time.Minute), ErrRunning)
	assert.Equal(t, time.Minute, c.Duration())

	c.Pause(t0.Add(10 * time.Second))
	require.NoError(t, c.SetDuration(2*time.Minute))
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 120, c.RemainingSeconds(t0))
}

func TestCountdownRestore(t *testing.T) {
	c := NewCountdown(time.Minute)
	assert.False(t, c.Restore(0))
	assert.False(t, c.Restore(time.Minute))
	assert.True(t, c.Restore(20*time.Second))
	assert.Equal(t, Paused, c.State())
	assert.Equal(t, 40, c.RemainingSeconds(t0))
}
