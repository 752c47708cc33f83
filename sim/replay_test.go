package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries(n int) []Candle {
	inst, _ := AssetByID("EUR/USD")
	return Generate(inst, n)
}

func TestCursorInitialPlacement(t *testing.T) {
	series := testSeries(50)

	c := NewCursor(series, 10)
	assert.Equal(t, 10, c.Index())
	assert.Equal(t, CursorIdle, c.State())

	// Offset clamps into the series.
	c = NewCursor(series, 500)
	assert.Equal(t, 49, c.Index())
	assert.True(t, c.Finished())

	c = NewCursor(series, -3)
	assert.Equal(t, 0, c.Index())

	c = NewCursor(nil, 10)
	assert.True(t, c.Finished())
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestCursorStepForwardBounds(t *testing.T) {
	series := testSeries(5)
	c := NewCursor(series, 2)

	candle, fresh, ok := c.StepForward()
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, series[3], candle)
	assert.Equal(t, CursorPaused, c.State())

	_, fresh, ok = c.StepForward()
	require.True(t, ok)
	assert.True(t, fresh)
	assert.True(t, c.Finished())

	// Past the end: no-op.
	_, _, ok = c.StepForward()
	assert.False(t, ok)
	assert.Equal(t, 4, c.Index())
}

func TestCursorRewindDoesNotReevaluate(t *testing.T) {
	series := testSeries(20)
	c := NewCursor(series, 5)

	for i := 0; i < 3; i++ {
		_, fresh, ok := c.StepForward()
		require.True(t, ok)
		require.True(t, fresh)
	}
	assert.Equal(t, 8, c.Index())

	require.True(t, c.StepBackward())
	require.True(t, c.StepBackward())
	assert.Equal(t, 6, c.Index())

	// Re-stepping over rewound ground exposes candles without freshness.
	_, fresh, ok := c.StepForward()
	require.True(t, ok)
	assert.False(t, fresh)
	_, fresh, _ = c.StepForward()
	assert.False(t, fresh)

	// The next new index is fresh again.
	_, fresh, _ = c.StepForward()
	assert.True(t, fresh)
}

func TestCursorRewindFloor(t *testing.T) {
	series := testSeries(20)
	c := NewCursor(series, 5)
	c.StepForward()

	require.True(t, c.StepBackward())
	assert.False(t, c.StepBackward(), "must not rewind below the initial offset")
	assert.Equal(t, 5, c.Index())

	c.StepForward()
	c.StepForward()
	c.JumpToStart()
	assert.Equal(t, 5, c.Index())
	assert.False(t, c.StepBackward())
}

func TestCursorVisibleWindow(t *testing.T) {
	series := testSeries(30)
	c := NewCursor(series, 9)

	v := c.Visible(5)
	require.Len(t, v, 5)
	assert.Equal(t, series[5], v[0])
	assert.Equal(t, series[9], v[4])

	// Window longer than history.
	v = c.Visible(100)
	assert.Len(t, v, 10)

	assert.Nil(t, c.Visible(0))
}

func TestSpeedIntervals(t *testing.T) {
	assert.Equal(t, 2000*time.Millisecond, SpeedHalf.Interval())
	assert.Equal(t, 1000*time.Millisecond, Speed1x.Interval())
	assert.Equal(t, 500*time.Millisecond, Speed2x.Interval())
	assert.Equal(t, 250*time.Millisecond, Speed4x.Interval())
	assert.Equal(t, 1000*time.Millisecond, Speed(3).Interval())
}
