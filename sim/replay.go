package sim

import "time"

type CursorState string

const (
	CursorIdle     CursorState = "idle"
	CursorRunning  CursorState = "running"
	CursorPaused   CursorState = "paused"
	CursorFinished CursorState = "finished"
)

// Speed is an auto-play multiplier. Presets map to concrete tick intervals.
type Speed float64

const (
	SpeedHalf Speed = 0.5
	Speed1x   Speed = 1
	Speed2x   Speed = 2
	Speed4x   Speed = 4
)

// Interval returns the tick duration for a preset. Unknown values fall back
// to the 1x interval.
func (s Speed) Interval() time.Duration {
	switch s {
	case SpeedHalf:
		return 2000 * time.Millisecond
	case Speed1x:
		return 1000 * time.Millisecond
	case Speed2x:
		return 500 * time.Millisecond
	case Speed4x:
		return 250 * time.Millisecond
	default:
		return 1000 * time.Millisecond
	}
}

// Scheduler requests a single callback after a delay. The returned cancel
// function stops a pending callback; after cancel returns, the callback will
// not fire. Decouples auto-play from any specific timer API.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// NewTimerScheduler returns the wall-clock Scheduler used outside of tests.
func NewTimerScheduler() Scheduler { return timerScheduler{} }

// Cursor is a monotonic index into a candle series. Forward steps expose one
// new candle at a time; backward steps are a view-only rewind. Trigger
// evaluation is forward-only: an index is reported as fresh exactly once,
// tracked by a high-water mark, so rewinding and stepping forward again never
// re-evaluates history.
type Cursor struct {
	series        []Candle
	initialOffset int
	index         int
	evaluated     int
	state         CursorState
}

// NewCursor positions the cursor at initialOffset (clamped into the series)
// so the first rendered window has lookback history. Candles at or before the
// offset are history and are never evaluated.
func NewCursor(series []Candle, initialOffset int) *Cursor {
	if initialOffset < 0 {
		initialOffset = 0
	}
	if len(series) > 0 && initialOffset > len(series)-1 {
		initialOffset = len(series) - 1
	}
	c := &Cursor{
		series:        series,
		initialOffset: initialOffset,
		index:         initialOffset,
		evaluated:     initialOffset,
		state:         CursorIdle,
	}
	if len(series) == 0 || initialOffset == len(series)-1 {
		c.state = CursorFinished
	}
	return c
}

func (c *Cursor) State() CursorState { return c.state }
func (c *Cursor) Index() int         { return c.index }
func (c *Cursor) Len() int           { return len(c.series) }
func (c *Cursor) InitialOffset() int { return c.initialOffset }
func (c *Cursor) Finished() bool     { return c.state == CursorFinished }

// Current returns the candle under the cursor.
func (c *Cursor) Current() (Candle, bool) {
	if len(c.series) == 0 {
		return Candle{}, false
	}
	return c.series[c.index], true
}

// StepForward advances by one candle. fresh reports whether the exposed
// candle has never been evaluated before; callers run trigger evaluation only
// when fresh is true. Advancing past the end is a no-op.
func (c *Cursor) StepForward() (candle Candle, fresh bool, ok bool) {
	if c.state == CursorFinished || c.index >= len(c.series)-1 {
		c.state = CursorFinished
		return Candle{}, false, false
	}
	c.index++
	if c.index == len(c.series)-1 {
		c.state = CursorFinished
	} else if c.state == CursorIdle {
		c.state = CursorPaused
	}
	fresh = c.index > c.evaluated
	if fresh {
		c.evaluated = c.index
	}
	return c.series[c.index], fresh, true
}

// StepBackward rewinds the view by one candle, never below the initial
// offset. It does not undo trigger evaluation.
func (c *Cursor) StepBackward() bool {
	if c.index <= c.initialOffset {
		return false
	}
	c.index--
	if c.state == CursorFinished || c.state == CursorIdle {
		c.state = CursorPaused
	}
	return true
}

// JumpToStart rewinds the view to just after the initial offset. View-only,
// like StepBackward.
func (c *Cursor) JumpToStart() {
	c.index = c.initialOffset
	if c.state != CursorIdle {
		c.state = CursorPaused
	}
}

// SetRunning flips between running and paused for status reporting. The
// finished state is terminal.
func (c *Cursor) SetRunning(running bool) {
	if c.state == CursorFinished {
		return
	}
	if running {
		c.state = CursorRunning
	} else {
		c.state = CursorPaused
	}
}

// Visible returns a bounded suffix of the series up to the cursor, used only
// for rendering and scaling. Order logic always sees the full exposed series.
func (c *Cursor) Visible(window int) []Candle {
	if len(c.series) == 0 || window <= 0 {
		return nil
	}
	start := c.index - window + 1
	if start < 0 {
		start = 0
	}
	return c.series[start : c.index+1]
}
