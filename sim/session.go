package sim

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultCandleCount and friends mirror the replay screen defaults.
const (
	DefaultCandleCount   = 500
	DefaultInitialOffset = 100
	DefaultWindow        = 100
	DefaultBalance       = 10000
)

// SessionConfig tunes a new session. Zero values fall back to the defaults
// above.
type SessionConfig struct {
	CandleCount   int
	InitialOffset int
	Window        int
	Balance       float64
	Scheduler     Scheduler

	// OnTick fires after every auto-play advance, OnClose after every
	// position closure (any reason). Both are invoked with the session
	// lock held; callbacks must not call back into the session.
	OnTick  func(Status)
	OnClose func(Instrument, ClosedTrade)
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.CandleCount <= 0 {
		c.CandleCount = DefaultCandleCount
	}
	if c.InitialOffset <= 0 {
		c.InitialOffset = DefaultInitialOffset
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Balance <= 0 {
		c.Balance = DefaultBalance
	}
	if c.Scheduler == nil {
		c.Scheduler = NewTimerScheduler()
	}
	return c
}

// Status is a consistent snapshot of the session for status endpoints and
// the replay stream.
type Status struct {
	SessionID    string      `json:"session_id"`
	Asset        string      `json:"asset"`
	State        CursorState `json:"state"`
	CursorIndex  int         `json:"cursor_index"`
	TotalCandles int         `json:"total_candles"`
	Progress     float64     `json:"progress"`
	Speed        Speed       `json:"speed"`
	CurrentPrice float64     `json:"current_price"`
	Balance      float64     `json:"balance"`
	Equity       float64     `json:"equity"`
	PendingCount int         `json:"pending_count"`
	OpenCount    int         `json:"open_count"`
	Candle       Candle      `json:"candle"`
}

// Session ties one instrument's series, replay cursor, order book, and
// annotations together behind a single lock. The core pieces stay synchronous
// and lock-free; the session is the only place concurrency (HTTP handlers,
// the auto-play timer) meets the simulation.
type Session struct {
	ID string

	mu         sync.Mutex
	cfg        SessionConfig
	instrument Instrument
	series     []Candle
	cursor     *Cursor
	book       *Book
	drawings   []Drawing
	closed     []ClosedTrade

	speed      Speed
	playGen    int
	cancelTick func()
}

// NewSession generates a fresh series for inst and seeds all dependent state.
func NewSession(inst Instrument, cfg SessionConfig) *Session {
	s := &Session{
		ID:    uuid.NewString(),
		cfg:   cfg.withDefaults(),
		speed: Speed1x,
	}
	s.reset(inst)
	return s
}

// reset regenerates the series and discards cursor, book, and drawings.
// Callers hold the lock (or are the constructor).
func (s *Session) reset(inst Instrument) {
	s.stopPlayLocked()
	s.instrument = inst
	s.series = Generate(inst, s.cfg.CandleCount)
	s.cursor = NewCursor(s.series, s.cfg.InitialOffset)
	s.book = NewBook(inst.PipSize, s.cfg.Balance)
	s.drawings = nil
	s.closed = nil
}

// SelectInstrument regenerates the series and resets the book and drawings,
// even when the same instrument is chosen again.
func (s *Session) SelectInstrument(inst Instrument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(inst)
}

func (s *Session) Instrument() Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instrument
}

// StepForward advances the cursor by one candle and, if the candle is newly
// exposed, evaluates the book against it exactly once.
func (s *Session) StepForward() (StepEvents, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepForwardLocked()
}

func (s *Session) stepForwardLocked() (StepEvents, bool) {
	candle, fresh, ok := s.cursor.StepForward()
	if !ok {
		return StepEvents{}, false
	}
	if !fresh {
		return StepEvents{}, true
	}
	ev := s.book.Evaluate(candle)
	s.recordClosures(ev.Closed)
	return ev, true
}

// StepBackward rewinds the view by one candle without touching the book.
func (s *Session) StepBackward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.StepBackward()
}

// JumpToStart rewinds the view to the initial offset.
func (s *Session) JumpToStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.JumpToStart()
}

// JumpToEnd steps through every remaining candle in index order, evaluating
// each one as if it had been stepped individually.
func (s *Session) JumpToEnd() StepEvents {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all StepEvents
	for {
		ev, ok := s.stepForwardLocked()
		if !ok {
			break
		}
		all.Filled = append(all.Filled, ev.Filled...)
		all.Opened = append(all.Opened, ev.Opened...)
		all.Closed = append(all.Closed, ev.Closed...)
	}
	return all
}

// Play starts auto-advance at the given speed. Restarting with a new speed
// reschedules; reaching the end of the series stops playback.
func (s *Session) Play(speed Speed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor.Finished() {
		return
	}
	s.stopPlayLocked()
	s.speed = speed
	s.cursor.SetRunning(true)
	s.scheduleTickLocked()
}

// Pause stops auto-advance immediately. The generation counter guarantees a
// tick that already fired cannot advance a paused session.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPlayLocked()
	s.cursor.SetRunning(false)
}

func (s *Session) stopPlayLocked() {
	s.playGen++
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

func (s *Session) scheduleTickLocked() {
	gen := s.playGen
	s.cancelTick = s.cfg.Scheduler.AfterFunc(s.speed.Interval(), func() { s.tick(gen) })
}

func (s *Session) tick(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.playGen {
		return // cancelled after the timer fired
	}
	_, ok := s.stepForwardLocked()
	if !ok || s.cursor.Finished() {
		s.cancelTick = nil
		s.cursor.SetRunning(false)
	} else {
		s.scheduleTickLocked()
	}
	if s.cfg.OnTick != nil {
		s.cfg.OnTick(s.statusLocked())
	}
}

// PlaceOrder validates and submits an order. Market orders execute at the
// current visible close.
func (s *Session) PlaceOrder(req OrderRequest) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, _ := s.cursor.Current()
	order, _, err := s.book.Place(req, current.Close, current.Time)
	return order, err
}

// CancelOrder cancels a pending order by id.
func (s *Session) CancelOrder(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Cancel(orderID)
}

// ClosePosition closes an open position at the current visible close.
func (s *Session) ClosePosition(positionID string) (ClosedTrade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.cursor.Current()
	if !ok {
		return ClosedTrade{}, ErrNoCandle
	}
	ct, err := s.book.CloseManual(positionID, current.Close, current.Time)
	if err != nil {
		return ClosedTrade{}, err
	}
	s.recordClosures([]ClosedTrade{ct})
	return ct, nil
}

func (s *Session) recordClosures(closed []ClosedTrade) {
	for _, ct := range closed {
		s.closed = append(s.closed, ct)
		if s.cfg.OnClose != nil {
			s.cfg.OnClose(s.instrument, ct)
		}
	}
}

// AddDrawing appends a finalized annotation.
func (s *Session) AddDrawing(d Drawing) Drawing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.drawings = append(s.drawings, d)
	return d
}

// ClearDrawings removes every annotation.
func (s *Session) ClearDrawings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawings = nil
}

func (s *Session) Drawings() []Drawing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Drawing, len(s.drawings))
	copy(out, s.drawings)
	return out
}

// ClosedTrades returns the realized closures so far, oldest first.
func (s *Session) ClosedTrades() []ClosedTrade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ClosedTrade, len(s.closed))
	copy(out, s.closed)
	return out
}

func (s *Session) PendingOrders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.book.Pending()))
	copy(out, s.book.Pending())
	return out
}

func (s *Session) OpenPositions() []Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Position, len(s.book.Positions()))
	copy(out, s.book.Positions())
	return out
}

// VisibleCandles returns the render window: a bounded suffix of the exposed
// series.
func (s *Session) VisibleCandles() []Candle {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.cursor.Visible(s.cfg.Window)
	out := make([]Candle, len(v))
	copy(out, v)
	return out
}

// Status returns a consistent snapshot of cursor, book, and account state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() Status {
	current, _ := s.cursor.Current()
	progress := 0.0
	if n := s.cursor.Len(); n > 1 {
		progress = float64(s.cursor.Index()) / float64(n-1) * 100
	}
	return Status{
		SessionID:    s.ID,
		Asset:        s.instrument.ID,
		State:        s.cursor.State(),
		CursorIndex:  s.cursor.Index(),
		TotalCandles: s.cursor.Len(),
		Progress:     progress,
		Speed:        s.speed,
		CurrentPrice: current.Close,
		Balance:      s.book.Balance(),
		Equity:       s.book.Equity(current.Close),
		PendingCount: len(s.book.Pending()),
		OpenCount:    len(s.book.Positions()),
		Candle:       current,
	}
}
