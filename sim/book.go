package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBadPrice       = errors.New("order price must be a positive number")
	ErrBadSize        = errors.New("order size must be a positive number")
	ErrNoSuchOrder    = errors.New("no such pending order")
	ErrNoSuchPosition = errors.New("no such open position")
	ErrNoCandle       = errors.New("no visible candle to price against")
)

// OrderRequest is the user-facing order submission input.
type OrderRequest struct {
	Type       OrderType `json:"type"`
	Side       Side      `json:"side"`
	Size       float64   `json:"size"`
	Price      float64   `json:"price,omitempty"`
	StopLoss   float64   `json:"stop_loss,omitempty"`
	TakeProfit float64   `json:"take_profit,omitempty"`
}

// StepEvents collects everything that happened while evaluating one candle.
type StepEvents struct {
	Filled []Order
	Opened []Position
	Closed []ClosedTrade
}

// Book owns all pending orders and open positions for the active instrument.
// It evaluates exactly one newly revealed candle per cursor advance: pending
// order triggers first, then stop-loss/take-profit on the positions that were
// open before the step. Positions opened by fills within the same step are
// not re-checked until the next candle.
type Book struct {
	pip     float64
	pending []Order
	open    []Position
	filled  []Order
	account Account
}

func NewBook(pipSize, startBalance float64) *Book {
	if pipSize <= 0 {
		pipSize = 0.0001
	}
	return &Book{pip: pipSize, account: Account{Balance: startBalance}}
}

func (b *Book) Pending() []Order      { return b.pending }
func (b *Book) Positions() []Position { return b.open }
func (b *Book) Filled() []Order       { return b.filled }
func (b *Book) Balance() float64      { return b.account.Balance }

// Equity is the derived view: balance plus unrealized PnL of open positions
// marked at the given price.
func (b *Book) Equity(currentPrice float64) float64 {
	eq := b.account.Balance
	for _, p := range b.open {
		eq += pnl(p.Side, p.EntryPrice, currentPrice, b.pip, p.Size)
	}
	return eq
}

// Place validates and routes an order. Market orders fill immediately at
// lastClose and never enter the pending set; limit and stop orders rest until
// a candle triggers them. Validation failures leave the book untouched.
func (b *Book) Place(req OrderRequest, lastClose float64, now time.Time) (Order, *Position, error) {
	if !positiveFinite(req.Size) {
		return Order{}, nil, ErrBadSize
	}
	switch req.Type {
	case OrderMarket:
		if !positiveFinite(lastClose) {
			return Order{}, nil, ErrNoCandle
		}
		order := Order{
			ID:         uuid.NewString(),
			Type:       OrderMarket,
			Side:       req.Side,
			Size:       req.Size,
			Price:      lastClose,
			StopLoss:   req.StopLoss,
			TakeProfit: req.TakeProfit,
			Status:     StatusFilled,
			CreatedAt:  now,
			FilledAt:   now,
		}
		pos := b.openPosition(order, now)
		b.filled = append(b.filled, order)
		return order, &pos, nil
	case OrderLimit, OrderStop:
		if !positiveFinite(req.Price) {
			return Order{}, nil, ErrBadPrice
		}
		order := Order{
			ID:         uuid.NewString(),
			Type:       req.Type,
			Side:       req.Side,
			Size:       req.Size,
			Price:      req.Price,
			StopLoss:   req.StopLoss,
			TakeProfit: req.TakeProfit,
			Status:     StatusPending,
			CreatedAt:  now,
		}
		b.pending = append(b.pending, order)
		return order, nil, nil
	default:
		return Order{}, nil, fmt.Errorf("unknown order type: %q", req.Type)
	}
}

// Cancel removes a pending order by id.
func (b *Book) Cancel(orderID string) error {
	for i, o := range b.pending {
		if o.ID == orderID {
			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchOrder
}

// Evaluate runs the single-pass trigger check against one newly revealed
// candle. Fill order is deterministic: pending orders in placement order,
// then the pre-step positions in open order, stop-loss checked before
// take-profit.
func (b *Book) Evaluate(c Candle) StepEvents {
	var ev StepEvents

	// Snapshot the positions open before any fills this step.
	pre := make([]Position, len(b.open))
	copy(pre, b.open)

	keep := b.pending[:0]
	for _, o := range b.pending {
		if !orderTriggered(o, c) {
			keep = append(keep, o)
			continue
		}
		o.Status = StatusFilled
		o.FilledAt = c.Time
		pos := b.openPosition(o, c.Time)
		b.filled = append(b.filled, o)
		ev.Filled = append(ev.Filled, o)
		ev.Opened = append(ev.Opened, pos)
	}
	b.pending = keep

	for _, p := range pre {
		if p.StopLoss != 0 && stopLossHit(p, c) {
			if ct, err := b.closeAt(p.ID, p.StopLoss, ReasonStopLoss, c.Time); err == nil {
				ev.Closed = append(ev.Closed, ct)
			}
			continue
		}
		if p.TakeProfit != 0 && takeProfitHit(p, c) {
			if ct, err := b.closeAt(p.ID, p.TakeProfit, ReasonTakeProfit, c.Time); err == nil {
				ev.Closed = append(ev.Closed, ct)
			}
		}
	}
	return ev
}

// CloseManual closes an open position at the current visible close. Closing
// an unknown position reports ErrNoSuchPosition without mutating anything.
func (b *Book) CloseManual(positionID string, price float64, now time.Time) (ClosedTrade, error) {
	if !positiveFinite(price) {
		return ClosedTrade{}, ErrNoCandle
	}
	return b.closeAt(positionID, price, ReasonManual, now)
}

func (b *Book) openPosition(o Order, now time.Time) Position {
	pos := Position{
		ID:         uuid.NewString(),
		Side:       o.Side,
		Size:       o.Size,
		EntryPrice: o.Price, // resting price, not the candle close
		StopLoss:   o.StopLoss,
		TakeProfit: o.TakeProfit,
		OpenTime:   now,
	}
	b.open = append(b.open, pos)
	return pos
}

func (b *Book) closeAt(positionID string, exitPrice float64, reason CloseReason, now time.Time) (ClosedTrade, error) {
	for i, p := range b.open {
		if p.ID != positionID {
			continue
		}
		b.open = append(b.open[:i], b.open[i+1:]...)
		ct := ClosedTrade{
			PositionID: p.ID,
			Side:       p.Side,
			Size:       p.Size,
			EntryPrice: p.EntryPrice,
			ExitPrice:  exitPrice,
			StopLoss:   p.StopLoss,
			Pnl:        pnl(p.Side, p.EntryPrice, exitPrice, b.pip, p.Size),
			Reason:     reason,
			OpenTime:   p.OpenTime,
			CloseTime:  now,
		}
		b.account.Balance += ct.Pnl
		return ct, nil
	}
	return ClosedTrade{}, ErrNoSuchPosition
}

// orderTriggered applies the limit/stop trigger table to the candle range.
func orderTriggered(o Order, c Candle) bool {
	switch o.Type {
	case OrderLimit:
		if o.Side == SideBuy {
			return c.Low <= o.Price
		}
		return c.High >= o.Price
	case OrderStop:
		if o.Side == SideBuy {
			return c.High >= o.Price
		}
		return c.Low <= o.Price
	default:
		return false
	}
}

func stopLossHit(p Position, c Candle) bool {
	if p.Side == SideBuy {
		return c.Low <= p.StopLoss
	}
	return c.High >= p.StopLoss
}

func takeProfitHit(p Position, c Candle) bool {
	if p.Side == SideBuy {
		return c.High >= p.TakeProfit
	}
	return c.Low <= p.TakeProfit
}

// pnl converts a price move into dollars: pips times lot size times the fixed
// per-lot pip value, sign-flipped for sells.
func pnl(side Side, entry, exit, pip, size float64) float64 {
	d := (exit - entry) / pip * size * PipValue
	if side == SideSell {
		d = -d
	}
	return d
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}
