package journal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tradelingo/sim"
)

func TestNewClientDisabledWithoutBaseURL(t *testing.T) {
	assert.Nil(t, NewClient("", time.Second, zap.NewNop()))

	// A nil client swallows calls instead of panicking.
	var c *Client
	c.LogTrade(TradeRecord{Asset: "EUR/USD"})
}

func TestRecordFor(t *testing.T) {
	inst, _ := sim.AssetByID("EUR/USD")
	rec := RecordFor(inst, sim.ClosedTrade{
		Side:       sim.SideBuy,
		Size:       1,
		EntryPrice: 1.0850,
		ExitPrice:  1.0870,
		StopLoss:   1.0840,
		Pnl:        200,
		Reason:     sim.ReasonTakeProfit,
	})

	assert.Equal(t, "EUR/USD", rec.Asset)
	assert.Equal(t, "buy", rec.Direction)
	assert.Equal(t, 200.0, rec.ResultInUSD)
	assert.Equal(t, "take_profit", rec.Reason)
	// Risked 10 pips for 20: +2R.
	assert.Equal(t, 2.0, rec.ResultInR)
}

func TestLogTradePostsRecord(t *testing.T) {
	got := make(chan TradeRecord, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/real-market/trades", r.URL.Path)
		var rec TradeRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		got <- rec
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	c.LogTrade(TradeRecord{Asset: "XAU/USD", Direction: "sell", ResultInUSD: -50})

	select {
	case rec := <-got:
		assert.Equal(t, "XAU/USD", rec.Asset)
		assert.Equal(t, -50.0, rec.ResultInUSD)
	case <-time.After(2 * time.Second):
		t.Fatal("journal post never arrived")
	}
}
