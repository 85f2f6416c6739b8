package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsAfterInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithInterval(time.Second), WithClock(clock.now))

	for i := range 59 {
		clock.t = clock.t.Add(10 * time.Millisecond)
		_, ok := p.Tick(2, i == 3)
		require.False(t, ok)
	}

	clock.t = time.Unix(2, 0)
	stats, ok := p.Tick(2, false)
	require.True(t, ok)
	assert.Equal(t, 60, stats.Frames)
	assert.Equal(t, 120, stats.DrawCalls)
	assert.Equal(t, 1, stats.SkippedFrames)
	assert.InDelta(t, 30, stats.FPS, 1e-9)
	assert.Greater(t, stats.SysMB, 0.0)

	clock.t = clock.t.Add(time.Millisecond)
	_, ok = p.Tick(1, false)
	assert.False(t, ok, "new window started")
}

func TestReset(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now))
	p.Tick(5, true)
	clock.t = time.Unix(10, 0)
	p.Reset()

	clock.t = clock.t.Add(2 * time.Second)
	stats, ok := p.Tick(0, false)
	require.True(t, ok)
	assert.Equal(t, 1, stats.Frames)
	assert.Zero(t, stats.SkippedFrames)
	assert.InDelta(t, 0.5, stats.FPS, 1e-9)
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
}
