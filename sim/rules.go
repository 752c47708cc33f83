package sim

import "math"

// ORBRange is a user-marked opening-range high/low band used as the
// reference zone for entry validation.
type ORBRange struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

// Violation codes reported by ValidateEntry.
const (
	ViolationNoStopLoss     = "no_stop_loss"
	ViolationEntryBelowHigh = "entry_below_orb_high"
	ViolationEntryAboveLow  = "entry_above_orb_low"
)

// TradeEntry is the order-side input to rule validation.
type TradeEntry struct {
	Direction  Side    `json:"direction"`
	EntryPrice float64 `json:"entry_price"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
}

// ValidateEntry checks a planned entry against the ORB rules: a stop-loss
// must be set, buys enter above the range high, sells below the range low.
func ValidateEntry(t TradeEntry, orb ORBRange) []string {
	var violations []string
	if t.StopLoss == 0 {
		violations = append(violations, ViolationNoStopLoss)
	}
	if t.Direction == SideBuy {
		if t.EntryPrice < orb.High {
			violations = append(violations, ViolationEntryBelowHigh)
		}
	} else if t.EntryPrice > orb.Low {
		violations = append(violations, ViolationEntryAboveLow)
	}
	return violations
}

// RiskReward returns reward/risk for a planned trade, 0 when undefined.
func RiskReward(entry, stop, takeProfit float64, dir Side) float64 {
	if takeProfit == 0 {
		return 0
	}
	risk := math.Abs(entry - stop)
	var reward float64
	if dir == SideBuy {
		reward = math.Abs(takeProfit - entry)
	} else {
		reward = math.Abs(entry - takeProfit)
	}
	if risk == 0 {
		return 0
	}
	return math.Round(reward/risk*100) / 100
}

// ResultInR expresses a realized trade as a multiple of the initial risk
// (distance from entry to stop).
func ResultInR(entry, exit, stop float64, dir Side) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	var pl float64
	if dir == SideBuy {
		pl = exit - entry
	} else {
		pl = entry - exit
	}
	return math.Round(pl/risk*100) / 100
}

// TradeResult is the journaled outcome of one trade, as submitted alongside
// emotion and rule-compliance tags.
type TradeResult struct {
	Direction      Side     `json:"direction"`
	StopLoss       float64  `json:"stop_loss"`
	ResultInR      float64  `json:"result_in_r"`
	RuleViolation  bool     `json:"rule_violation"`
	ViolationTypes []string `json:"violation_types,omitempty"`
	EmotionBefore  string   `json:"emotion_before,omitempty"`
	EmotionAfter   string   `json:"emotion_after,omitempty"`
}

// DisciplineScore summarizes rule compliance and emotional stability over a
// trade history.
type DisciplineScore struct {
	TotalTrades          int     `json:"total_trades"`
	TradesWithStop       int     `json:"trades_with_stop"`
	TradesClean          int     `json:"trades_without_violations"`
	StopUsageRate        float64 `json:"stop_usage_rate"`
	ViolationRate        float64 `json:"violation_rate"`
	Score                float64 `json:"discipline_score"`
	EmotionalConsistency float64 `json:"emotional_consistency_score"`
	MostCommonViolation  string  `json:"most_common_violation,omitempty"`
}

// Discipline computes the weighted discipline score: 40% stop usage, 40%
// violation-free trades, and an experience bonus capped at 20 points.
func Discipline(trades []TradeResult) DisciplineScore {
	if len(trades) == 0 {
		return DisciplineScore{}
	}

	total := len(trades)
	withStop := 0
	clean := 0
	stable := 0
	violationCounts := map[string]int{}

	for _, t := range trades {
		if t.StopLoss > 0 {
			withStop++
		}
		if !t.RuleViolation {
			clean++
		}
		for _, v := range t.ViolationTypes {
			violationCounts[v]++
		}
		if t.EmotionBefore != "" && t.EmotionBefore == t.EmotionAfter {
			stable++
		}
	}

	mostCommon := ""
	best := 0
	for v, n := range violationCounts {
		if n > best || (n == best && v < mostCommon) {
			mostCommon, best = v, n
		}
	}

	stopRate := float64(withStop) / float64(total) * 100
	violationRate := float64(total-clean) / float64(total) * 100
	score := stopRate*0.4 + (100-violationRate)*0.4 + math.Min(float64(total), 10)*2

	return DisciplineScore{
		TotalTrades:          total,
		TradesWithStop:       withStop,
		TradesClean:          clean,
		StopUsageRate:        math.Round(stopRate*10) / 10,
		ViolationRate:        math.Round(violationRate*10) / 10,
		Score:                math.Round(math.Min(score, 100)*10) / 10,
		EmotionalConsistency: math.Round(float64(stable)/float64(total)*1000) / 10,
		MostCommonViolation:  mostCommon,
	}
}
