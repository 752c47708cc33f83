package sim

import (
	"fmt"
	"math"
)

// Exercise is an interactive-lesson question: mark a single price, or draw a
// price zone. Zone exercises set TargetHigh/TargetLow; click exercises set
// TargetPrice. Tolerance is a percentage band for click answers and an
// absolute slack for near-zone clicks.
type Exercise struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	TargetPrice float64 `json:"target_price,omitempty"`
	TargetHigh  float64 `json:"target_high,omitempty"`
	TargetLow   float64 `json:"target_low,omitempty"`
	Tolerance   float64 `json:"tolerance"`
	Explanation string  `json:"explanation,omitempty"`
}

// AnswerResult is what the lesson screen renders back to the user. The chart
// only displays the target and the submission; correctness is decided here.
type AnswerResult struct {
	Correct      bool    `json:"is_correct"`
	Accuracy     float64 `json:"accuracy"`
	CorrectPrice float64 `json:"correct_price"`
	Feedback     string  `json:"feedback"`
	Explanation  string  `json:"explanation,omitempty"`
}

func (e Exercise) isZone() bool { return e.TargetHigh > e.TargetLow && e.TargetHigh > 0 }

func (e Exercise) tolerance() float64 {
	if e.Tolerance <= 0 {
		return 1.0
	}
	return e.Tolerance
}

// ValidateClick scores a single-price submission. Click exercises use a
// percent tolerance band around the target; clicking inside a zone target is
// fully correct, near misses are judged against half the zone height plus
// the tolerance.
func (e Exercise) ValidateClick(clicked float64) AnswerResult {
	tol := e.tolerance()

	if e.isZone() {
		target := (e.TargetHigh + e.TargetLow) / 2
		if clicked >= e.TargetLow && clicked <= e.TargetHigh {
			return e.result(true, 100, target, clicked)
		}
		diff := math.Abs(clicked - target)
		zoneSize := e.TargetHigh - e.TargetLow
		correct := diff <= zoneSize/2+tol
		accuracy := 100.0
		if !correct {
			accuracy = math.Max(0, 100-diff/target*100)
		}
		return e.result(correct, accuracy, target, clicked)
	}

	target := e.TargetPrice
	diffPct := 0.0
	if target != 0 {
		diffPct = math.Abs(clicked-target) / target * 100
	}
	correct := diffPct <= tol
	accuracy := 0.0
	if correct {
		accuracy = math.Max(0, 100-diffPct/tol*100)
	}
	return e.result(correct, accuracy, target, clicked)
}

// ValidateZone scores a drawn zone against a target zone by overlap (70%
// weight) and size similarity (30%); at least half credit counts as correct.
func (e Exercise) ValidateZone(high, low float64) AnswerResult {
	if high < low {
		high, low = low, high
	}
	target := (e.TargetHigh + e.TargetLow) / 2

	overlapTop := math.Min(high, e.TargetHigh)
	overlapBottom := math.Max(low, e.TargetLow)
	overlap := math.Max(0, overlapTop-overlapBottom)

	targetSize := e.TargetHigh - e.TargetLow
	userSize := high - low

	if overlap <= 0 || targetSize <= 0 || userSize <= 0 {
		r := e.result(false, 0, target, 0)
		r.Feedback = fmt.Sprintf("Not quite. The %s is %.5f - %.5f. You drew %.5f - %.5f",
			e.labelOr("zone"), e.TargetLow, e.TargetHigh, low, high)
		return r
	}

	overlapRatio := overlap / targetSize
	sizeRatio := math.Min(userSize, targetSize) / math.Max(userSize, targetSize)
	accuracy := (overlapRatio*0.7 + sizeRatio*0.3) * 100
	correct := accuracy >= 50

	r := e.result(correct, accuracy, target, 0)
	if correct {
		r.Feedback = fmt.Sprintf("Great zone! The %s is %.5f - %.5f", e.labelOr("zone"), e.TargetLow, e.TargetHigh)
	} else {
		r.Feedback = fmt.Sprintf("Not quite. The %s is %.5f - %.5f. You drew %.5f - %.5f",
			e.labelOr("zone"), e.TargetLow, e.TargetHigh, low, high)
	}
	return r
}

func (e Exercise) result(correct bool, accuracy, target, clicked float64) AnswerResult {
	feedback := fmt.Sprintf("Not quite. The %s is %.5f. You clicked %.5f", e.labelOr("answer"), target, clicked)
	if correct {
		feedback = fmt.Sprintf("Correct! The %s is %.5f", e.labelOr("answer"), target)
	}
	return AnswerResult{
		Correct:      correct,
		Accuracy:     math.Round(accuracy*10) / 10,
		CorrectPrice: target,
		Feedback:     feedback,
		Explanation:  e.Explanation,
	}
}

func (e Exercise) labelOr(fallback string) string {
	if e.Label != "" {
		return e.Label
	}
	return fallback
}
