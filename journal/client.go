// Package journal posts trade summaries to the backend for journaling and
// discipline scoring. Calls are advisory: the simulator never waits on them
// and never rolls back local state when they fail.
package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tradelingo/sim"

	"go.uber.org/zap"
)

// TradeRecord is the summary persisted per closed position.
type TradeRecord struct {
	Asset          string   `json:"asset"`
	Direction      string   `json:"direction"`
	EntryPrice     float64  `json:"entry_price"`
	ExitPrice      float64  `json:"exit_price"`
	StopLoss       float64  `json:"stop_loss,omitempty"`
	ResultInR      float64  `json:"result_in_r"`
	ResultInUSD    float64  `json:"result_in_usd"`
	Reason         string   `json:"reason"`
	EmotionBefore  string   `json:"emotion_before,omitempty"`
	EmotionAfter   string   `json:"emotion_after,omitempty"`
	RuleViolation  bool     `json:"rule_violation"`
	ViolationTypes []string `json:"violation_types,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient returns a journaling client, or nil when no base URL is
// configured (journaling disabled).
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// RecordFor converts a closed trade into the journaled summary.
func RecordFor(inst sim.Instrument, ct sim.ClosedTrade) TradeRecord {
	return TradeRecord{
		Asset:       inst.ID,
		Direction:   string(ct.Side),
		EntryPrice:  ct.EntryPrice,
		ExitPrice:   ct.ExitPrice,
		StopLoss:    ct.StopLoss,
		ResultInR:   sim.ResultInR(ct.EntryPrice, ct.ExitPrice, ct.StopLoss, ct.Side),
		ResultInUSD: ct.Pnl,
		Reason:      string(ct.Reason),
	}
}

// LogTrade posts the record in the background. Failures are logged at warn
// level and otherwise ignored.
func (c *Client) LogTrade(rec TradeRecord) {
	if c == nil {
		return
	}
	go func() {
		if err := c.post("/api/real-market/trades", rec); err != nil {
			c.log.Warn("trade journal post failed", zap.String("asset", rec.Asset), zap.Error(err))
			return
		}
		c.log.Debug("trade journaled",
			zap.String("asset", rec.Asset),
			zap.Float64("pnl", rec.ResultInUSD))
	}()
}

func (c *Client) post(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned %s", resp.Status)
	}
	return nil
}
