package sim

import "time"

type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
	OrderStop   OrderType = "stop"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusFilled    OrderStatus = "filled"
	StatusCancelled OrderStatus = "cancelled"
)

// PipValue is the fixed per-lot dollar value of one pip, independent of the
// instrument.
const PipValue = 10.0

// Candle is a single OHLCV bar. Immutable once generated; high >= max(open,
// close) and low <= min(open, close) always hold for generated series.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Instrument is static per-session configuration. Selecting a new instrument
// regenerates the candle series and resets the book.
type Instrument struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	BasePrice  float64 `json:"base_price"`
	Volatility float64 `json:"volatility"`
	PipSize    float64 `json:"pip_size"`
}

type Order struct {
	ID         string      `json:"id"`
	Type       OrderType   `json:"type"`
	Side       Side        `json:"side"`
	Size       float64     `json:"size"`
	Price      float64     `json:"price"`
	StopLoss   float64     `json:"stop_loss,omitempty"`
	TakeProfit float64     `json:"take_profit,omitempty"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	FilledAt   time.Time   `json:"filled_at,omitempty"`
}

type Position struct {
	ID         string    `json:"id"`
	Side       Side      `json:"side"`
	Size       float64   `json:"size"`
	EntryPrice float64   `json:"entry_price"`
	StopLoss   float64   `json:"stop_loss,omitempty"`
	TakeProfit float64   `json:"take_profit,omitempty"`
	OpenTime   time.Time `json:"open_time"`
}

type CloseReason string

const (
	ReasonStopLoss   CloseReason = "stop_loss"
	ReasonTakeProfit CloseReason = "take_profit"
	ReasonManual     CloseReason = "manual"
)

// ClosedTrade records a realized position closure. Exactly one is produced
// per closure and its Pnl is applied to the account balance once.
type ClosedTrade struct {
	PositionID string      `json:"position_id"`
	Side       Side        `json:"side"`
	Size       float64     `json:"size"`
	EntryPrice float64     `json:"entry_price"`
	ExitPrice  float64     `json:"exit_price"`
	StopLoss   float64     `json:"stop_loss,omitempty"`
	Pnl        float64     `json:"pnl"`
	Reason     CloseReason `json:"reason"`
	OpenTime   time.Time   `json:"open_time"`
	CloseTime  time.Time   `json:"close_time"`
}

// Account tracks realized balance. Equity is derived on demand and never
// stored.
type Account struct {
	Balance float64 `json:"balance"`
}

type DrawingKind string

const (
	DrawLine       DrawingKind = "line"
	DrawHorizontal DrawingKind = "horizontal"
	DrawRectangle  DrawingKind = "rectangle"
	DrawFibonacci  DrawingKind = "fibonacci"
)

// Anchor ties a pointer location to chart coordinates at capture time.
type Anchor struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Price       float64 `json:"price"`
	CandleIndex int     `json:"candle_index"`
}

// Drawing is a finalized annotation. Start/End are the pointer-down and
// pointer-up anchors; immutable once finalized.
type Drawing struct {
	ID    string      `json:"id"`
	Kind  DrawingKind `json:"kind"`
	Start Anchor      `json:"start"`
	End   Anchor      `json:"end"`
}

// FibLevels are the retracement ratios rendered by the fibonacci tool.
var FibLevels = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// PriceRange returns the drawing's price band normalized so High >= Low,
// regardless of screen-space drag direction.
func (d Drawing) PriceRange() (high, low float64) {
	if d.Start.Price >= d.End.Price {
		return d.Start.Price, d.End.Price
	}
	return d.End.Price, d.Start.Price
}
