package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioYAML is the on-disk shape of a headless replay scenario.
type ScenarioYAML struct {
	Replay struct {
		Asset         string  `yaml:"asset"`
		Candles       int     `yaml:"candles"`
		InitialOffset int     `yaml:"initial_offset"`
		Balance       float64 `yaml:"balance"`
	} `yaml:"replay"`

	Orders []struct {
		AtIndex    int     `yaml:"at_index"`
		Type       string  `yaml:"type"`
		Side       string  `yaml:"side"`
		Size       float64 `yaml:"size"`
		Price      float64 `yaml:"price"`
		StopLoss   float64 `yaml:"stop_loss"`
		TakeProfit float64 `yaml:"take_profit"`
	} `yaml:"orders"`
}

// ScenarioOrder is an order submitted when the cursor reaches AtIndex.
type ScenarioOrder struct {
	AtIndex int
	Request OrderRequest
}

type Scenario struct {
	Instrument Instrument
	Candles    int
	Offset     int
	Balance    float64
	Orders     []ScenarioOrder
}

// LoadScenario reads and validates a replay scenario YAML file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	var y ScenarioYAML
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}

	inst, ok := AssetByID(y.Replay.Asset)
	if !ok {
		return Scenario{}, fmt.Errorf("unknown asset: %q", y.Replay.Asset)
	}

	sc := Scenario{
		Instrument: inst,
		Candles:    y.Replay.Candles,
		Offset:     y.Replay.InitialOffset,
		Balance:    y.Replay.Balance,
	}
	for i, o := range y.Orders {
		req := OrderRequest{
			Type:       OrderType(o.Type),
			Side:       Side(o.Side),
			Size:       o.Size,
			Price:      o.Price,
			StopLoss:   o.StopLoss,
			TakeProfit: o.TakeProfit,
		}
		switch req.Type {
		case OrderMarket, OrderLimit, OrderStop:
		default:
			return Scenario{}, fmt.Errorf("orders[%d]: unknown order type %q", i, o.Type)
		}
		switch req.Side {
		case SideBuy, SideSell:
		default:
			return Scenario{}, fmt.Errorf("orders[%d]: unknown side %q", i, o.Side)
		}
		sc.Orders = append(sc.Orders, ScenarioOrder{AtIndex: o.AtIndex, Request: req})
	}
	return sc, nil
}

// ScenarioResult summarizes a completed headless replay.
type ScenarioResult struct {
	Instrument   Instrument
	Candles      int
	FinalBalance float64
	FinalEquity  float64
	Closed       []ClosedTrade
	OpenLeft     int
	PendingLeft  int
	Rejected     []error
}

// RunScenario steps a fresh session through the whole series, submitting
// scenario orders as their indices are reached. Invalid orders are collected
// rather than aborting the run.
func RunScenario(sc Scenario) ScenarioResult {
	sess := NewSession(sc.Instrument, SessionConfig{
		CandleCount:   sc.Candles,
		InitialOffset: sc.Offset,
		Balance:       sc.Balance,
	})

	pending := append([]ScenarioOrder(nil), sc.Orders...)
	var rejected []error
	submit := func(index int) {
		keep := pending[:0]
		for _, o := range pending {
			if o.AtIndex > index {
				keep = append(keep, o)
				continue
			}
			if _, err := sess.PlaceOrder(o.Request); err != nil {
				rejected = append(rejected, fmt.Errorf("order at index %d: %w", o.AtIndex, err))
			}
		}
		pending = keep
	}

	submit(sess.Status().CursorIndex)
	for {
		if _, ok := sess.StepForward(); !ok {
			break
		}
		submit(sess.Status().CursorIndex)
	}

	final := sess.Status()
	return ScenarioResult{
		Instrument:   sc.Instrument,
		Candles:      final.TotalCandles,
		FinalBalance: final.Balance,
		FinalEquity:  final.Equity,
		Closed:       sess.ClosedTrades(),
		OpenLeft:     final.OpenCount,
		PendingLeft:  final.PendingCount,
		Rejected:     rejected,
	}
}
