package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookNow = time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

func candle(open, high, low, close float64) Candle {
	return Candle{Time: bookNow, Open: open, High: high, Low: low, Close: close, Volume: 500}
}

func TestMarketOrderFillsAtVisibleClose(t *testing.T) {
	b := NewBook(0.0001, 10000)

	order, pos, err := b.Place(OrderRequest{Type: OrderMarket, Side: SideBuy, Size: 1}, 1.0850, bookNow)
	require.NoError(t, err)
	require.NotNil(t, pos)

	assert.Equal(t, StatusFilled, order.Status)
	assert.Equal(t, 1.0850, order.Price)
	assert.Equal(t, 1.0850, pos.EntryPrice)
	assert.Empty(t, b.Pending())
	require.Len(t, b.Positions(), 1)
	assert.Equal(t, 10000.0, b.Balance(), "opening a position must not touch the balance")
}

func TestLimitBuyFillsAtRestingPrice(t *testing.T) {
	b := NewBook(0.0001, 10000)

	order, pos, err := b.Place(OrderRequest{Type: OrderLimit, Side: SideBuy, Size: 1, Price: 1.0800}, 1.0850, bookNow)
	require.NoError(t, err)
	assert.Nil(t, pos)
	assert.Equal(t, StatusPending, order.Status)

	// Candle that does not reach the limit: no fill.
	ev := b.Evaluate(candle(1.0840, 1.0860, 1.0820, 1.0830))
	assert.Empty(t, ev.Filled)
	assert.Len(t, b.Pending(), 1)

	// Candle trading through the limit: fill at the resting price, not the
	// candle close.
	ev = b.Evaluate(candle(1.0820, 1.0820, 1.0795, 1.0815))
	require.Len(t, ev.Filled, 1)
	require.Len(t, ev.Opened, 1)
	assert.Equal(t, 1.0800, ev.Opened[0].EntryPrice)
	assert.Empty(t, b.Pending())
}

func TestTriggerTable(t *testing.T) {
	cases := []struct {
		name    string
		typ     OrderType
		side    Side
		price   float64
		c       Candle
		trigger bool
	}{
		{"limit buy: low reaches", OrderLimit, SideBuy, 1.0800, candle(1.0820, 1.0830, 1.0800, 1.0810), true},
		{"limit buy: low above", OrderLimit, SideBuy, 1.0800, candle(1.0820, 1.0830, 1.0805, 1.0810), false},
		{"limit sell: high reaches", OrderLimit, SideSell, 1.0900, candle(1.0880, 1.0900, 1.0870, 1.0890), true},
		{"limit sell: high below", OrderLimit, SideSell, 1.0900, candle(1.0880, 1.0895, 1.0870, 1.0890), false},
		{"stop buy: high reaches", OrderStop, SideBuy, 1.0900, candle(1.0880, 1.0905, 1.0870, 1.0890), true},
		{"stop buy: high below", OrderStop, SideBuy, 1.0900, candle(1.0880, 1.0895, 1.0870, 1.0890), false},
		{"stop sell: low reaches", OrderStop, SideSell, 1.0800, candle(1.0820, 1.0830, 1.0795, 1.0810), true},
		{"stop sell: low above", OrderStop, SideSell, 1.0800, candle(1.0820, 1.0830, 1.0805, 1.0810), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBook(0.0001, 10000)
			_, _, err := b.Place(OrderRequest{Type: tc.typ, Side: tc.side, Size: 1, Price: tc.price}, 1.0850, bookNow)
			require.NoError(t, err)
			ev := b.Evaluate(tc.c)
			assert.Equal(t, tc.trigger, len(ev.Filled) == 1)
		})
	}
}

func TestStopLossCheckedBeforeTakeProfit(t *testing.T) {
	b := NewBook(0.0001, 10000)
	_, _, err := b.Place(OrderRequest{
		Type: OrderMarket, Side: SideBuy, Size: 1,
		StopLoss: 1.0790, TakeProfit: 1.0850,
	}, 1.0820, bookNow)
	require.NoError(t, err)

	// One candle spans both levels: the stop-loss wins.
	ev := b.Evaluate(candle(1.0820, 1.0855, 1.0785, 1.0840))
	require.Len(t, ev.Closed, 1)
	assert.Equal(t, ReasonStopLoss, ev.Closed[0].Reason)
	assert.Equal(t, 1.0790, ev.Closed[0].ExitPrice)
	assert.Empty(t, b.Positions())
}

func TestTakeProfitClosesAtTargetPrice(t *testing.T) {
	b := NewBook(0.0001, 10000)
	_, _, err := b.Place(OrderRequest{
		Type: OrderMarket, Side: SideSell, Size: 2, TakeProfit: 1.0800,
	}, 1.0850, bookNow)
	require.NoError(t, err)

	ev := b.Evaluate(candle(1.0840, 1.0845, 1.0795, 1.0810))
	require.Len(t, ev.Closed, 1)
	ct := ev.Closed[0]
	assert.Equal(t, ReasonTakeProfit, ct.Reason)
	assert.Equal(t, 1.0800, ct.ExitPrice)
	// Sell from 1.0850 to 1.0800 is +50 pips * 2 lots * 10 = +1000.
	assert.InDelta(t, 1000, ct.Pnl, 1e-6)
	assert.InDelta(t, 11000, b.Balance(), 1e-6)
}

func TestPnlSignSymmetry(t *testing.T) {
	buy := pnl(SideBuy, 1.0800, 1.0850, 0.0001, 1)
	sell := pnl(SideSell, 1.0800, 1.0850, 0.0001, 1)
	assert.InDelta(t, 500, buy, 1e-6)
	assert.InDelta(t, -500, sell, 1e-6)
}

func TestSameStepFillIsNotRetroactivelyClosed(t *testing.T) {
	b := NewBook(0.0001, 10000)
	_, _, err := b.Place(OrderRequest{
		Type: OrderLimit, Side: SideBuy, Size: 1, Price: 1.0800,
		StopLoss: 1.0795,
	}, 1.0850, bookNow)
	require.NoError(t, err)

	// The filling candle also trades through the stop-loss, but a position
	// opened this step is not checked until the next candle.
	ev := b.Evaluate(candle(1.0820, 1.0820, 1.0790, 1.0810))
	require.Len(t, ev.Opened, 1)
	assert.Empty(t, ev.Closed)
	require.Len(t, b.Positions(), 1)

	// The next candle does close it.
	ev = b.Evaluate(candle(1.0810, 1.0815, 1.0793, 1.0800))
	require.Len(t, ev.Closed, 1)
	assert.Equal(t, ReasonStopLoss, ev.Closed[0].Reason)
}

func TestPlaceValidation(t *testing.T) {
	b := NewBook(0.0001, 10000)

	_, _, err := b.Place(OrderRequest{Type: OrderLimit, Side: SideBuy, Size: 0, Price: 1.08}, 1.0850, bookNow)
	assert.ErrorIs(t, err, ErrBadSize)

	_, _, err = b.Place(OrderRequest{Type: OrderLimit, Side: SideBuy, Size: 1, Price: -1}, 1.0850, bookNow)
	assert.ErrorIs(t, err, ErrBadPrice)

	_, _, err = b.Place(OrderRequest{Type: OrderMarket, Side: SideBuy, Size: 1}, 0, bookNow)
	assert.ErrorIs(t, err, ErrNoCandle)

	_, _, err = b.Place(OrderRequest{Type: "oco", Side: SideBuy, Size: 1, Price: 1.08}, 1.0850, bookNow)
	assert.Error(t, err)

	assert.Empty(t, b.Pending())
	assert.Empty(t, b.Positions())
}

func TestCancelAndManualClose(t *testing.T) {
	b := NewBook(0.0001, 10000)

	order, _, err := b.Place(OrderRequest{Type: OrderLimit, Side: SideSell, Size: 1, Price: 1.0900}, 1.0850, bookNow)
	require.NoError(t, err)
	require.NoError(t, b.Cancel(order.ID))
	assert.ErrorIs(t, b.Cancel(order.ID), ErrNoSuchOrder)

	_, pos, err := b.Place(OrderRequest{Type: OrderMarket, Side: SideBuy, Size: 1}, 1.0850, bookNow)
	require.NoError(t, err)

	_, err = b.CloseManual("nope", 1.0860, bookNow)
	assert.ErrorIs(t, err, ErrNoSuchPosition)
	require.Len(t, b.Positions(), 1)

	ct, err := b.CloseManual(pos.ID, 1.0860, bookNow)
	require.NoError(t, err)
	assert.Equal(t, ReasonManual, ct.Reason)
	assert.InDelta(t, 100, ct.Pnl, 1e-6)
	assert.Empty(t, b.Positions())
}

func TestEquityMarksOpenPositions(t *testing.T) {
	b := NewBook(0.0001, 10000)
	_, _, err := b.Place(OrderRequest{Type: OrderMarket, Side: SideBuy, Size: 1}, 1.0850, bookNow)
	require.NoError(t, err)

	assert.InDelta(t, 10000, b.Equity(1.0850), 1e-6)
	assert.InDelta(t, 10100, b.Equity(1.0860), 1e-6)
	assert.InDelta(t, 9900, b.Equity(1.0840), 1e-6)
}
