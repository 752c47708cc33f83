package sim

import (
	"math"
	"math/rand"
	"time"
)

// CandleInterval is the fixed wall-clock spacing between generated candles.
const CandleInterval = 5 * time.Minute

// seriesEpoch anchors generated timestamps. Purely synthetic; only the fixed
// spacing matters to the simulation.
var seriesEpoch = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// Generate produces count candles for inst as a pseudo-random walk seeded by
// the instrument's base price: a slow sinusoidal trend plus uniform noise
// scaled by volatility. Each open equals the previous close, and wicks extend
// past the body by at most half the volatility. A non-positive count yields
// an empty series.
func Generate(inst Instrument, count int) []Candle {
	if count <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seedFor(inst)))
	price := inst.BasePrice
	ts := seriesEpoch

	candles := make([]Candle, 0, count)
	for i := 0; i < count; i++ {
		trend := math.Sin(float64(i)/50)*0.3 + rng.Float64()*0.4
		change := (rng.Float64() - 0.5 + trend*0.1) * inst.Volatility

		open := price
		close := price + change
		high := math.Max(open, close) + rng.Float64()*inst.Volatility*0.5
		low := math.Min(open, close) - rng.Float64()*inst.Volatility*0.5

		candles = append(candles, Candle{
			Time:   ts,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: rng.Int63n(1000) + 100,
		})

		price = close
		ts = ts.Add(CandleInterval)
	}
	return candles
}

func seedFor(inst Instrument) int64 {
	return int64(math.Float64bits(inst.BasePrice))
}
