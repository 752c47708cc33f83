package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEntryORB(t *testing.T) {
	orb := ORBRange{High: 1.0850, Low: 1.0800}

	v := ValidateEntry(TradeEntry{Direction: SideBuy, EntryPrice: 1.0860, StopLoss: 1.0840}, orb)
	assert.Empty(t, v)

	v = ValidateEntry(TradeEntry{Direction: SideBuy, EntryPrice: 1.0820, StopLoss: 1.0800}, orb)
	assert.Equal(t, []string{ViolationEntryBelowHigh}, v)

	v = ValidateEntry(TradeEntry{Direction: SideSell, EntryPrice: 1.0790, StopLoss: 1.0810}, orb)
	assert.Empty(t, v)

	v = ValidateEntry(TradeEntry{Direction: SideSell, EntryPrice: 1.0830}, orb)
	assert.ElementsMatch(t, []string{ViolationNoStopLoss, ViolationEntryAboveLow}, v)
}

func TestRiskReward(t *testing.T) {
	assert.Equal(t, 2.0, RiskReward(1.0850, 1.0840, 1.0870, SideBuy))
	assert.Equal(t, 2.0, RiskReward(1.0850, 1.0860, 1.0830, SideSell))
	assert.Equal(t, 0.0, RiskReward(1.0850, 1.0840, 0, SideBuy), "no take-profit means undefined")
	assert.Equal(t, 0.0, RiskReward(1.0850, 1.0850, 1.0870, SideBuy), "zero risk means undefined")
}

func TestResultInR(t *testing.T) {
	// Risked 10 pips, made 20: +2R.
	assert.Equal(t, 2.0, ResultInR(1.0850, 1.0870, 1.0840, SideBuy))
	// Stopped out: -1R.
	assert.Equal(t, -1.0, ResultInR(1.0850, 1.0840, 1.0840, SideBuy))
	assert.Equal(t, 2.0, ResultInR(1.0850, 1.0830, 1.0860, SideSell))
	assert.Equal(t, 0.0, ResultInR(1.0850, 1.0870, 1.0850, SideBuy))
}

func TestDisciplineScore(t *testing.T) {
	assert.Zero(t, Discipline(nil).Score)

	// All trades use a stop and none violate: 40 + 40 + 2*2 = 84.
	trades := []TradeResult{
		{Direction: SideBuy, StopLoss: 1.0840, ResultInR: 2},
		{Direction: SideSell, StopLoss: 1.0860, ResultInR: -1},
	}
	score := Discipline(trades)
	assert.Equal(t, 2, score.TotalTrades)
	assert.Equal(t, 2, score.TradesWithStop)
	assert.InDelta(t, 100, score.StopUsageRate, 1e-6)
	assert.InDelta(t, 0, score.ViolationRate, 1e-6)
	assert.InDelta(t, 84, score.Score, 1e-6)

	// Violations drag the score down and surface the most common code.
	trades = append(trades,
		TradeResult{Direction: SideBuy, RuleViolation: true, ViolationTypes: []string{ViolationNoStopLoss}},
		TradeResult{Direction: SideBuy, RuleViolation: true, ViolationTypes: []string{ViolationNoStopLoss}},
	)
	score = Discipline(trades)
	assert.Less(t, score.Score, 84.0)
	assert.Equal(t, ViolationNoStopLoss, score.MostCommonViolation)

	// The experience bonus is capped at 20 points and the score at 100.
	many := make([]TradeResult, 15)
	for i := range many {
		many[i] = TradeResult{Direction: SideBuy, StopLoss: 1.08, ResultInR: 1}
	}
	assert.InDelta(t, 100, Discipline(many).Score, 1e-6)
}
