package chart

import (
	"fmt"
	"math"

	"tradelingo/sim"
)

// Margins around the plot area, in pixels.
const (
	marginLeft   = 10.0
	marginRight  = 70.0
	marginTop    = 20.0
	marginBottom = 40.0
)

// Scale maps between price/index space and pixel space for one rendered
// frame. It is rebuilt from the visible window on every redraw, never cached
// across frames.
type Scale struct {
	Width    int
	Height   int
	MinPrice float64
	MaxPrice float64
	Spacing  float64
	Body     float64
	Count    int
}

// NewScale derives the linear price scale from the window's low/high range
// expanded by a 0.05% margin so extremes do not touch the canvas edges.
func NewScale(candles []sim.Candle, width, height int) (Scale, error) {
	if len(candles) == 0 {
		return Scale{}, fmt.Errorf("empty candle window")
	}
	if width <= int(marginLeft+marginRight)+10 || height <= int(marginTop+marginBottom)+10 {
		return Scale{}, fmt.Errorf("invalid chart size %dx%d", width, height)
	}

	minP := math.Inf(1)
	maxP := math.Inf(-1)
	for _, c := range candles {
		if c.Low < minP {
			minP = c.Low
		}
		if c.High > maxP {
			maxP = c.High
		}
	}
	minP *= 0.9995
	maxP *= 1.0005
	if maxP <= minP {
		return Scale{}, fmt.Errorf("degenerate price range")
	}

	s := Scale{
		Width:    width,
		Height:   height,
		MinPrice: minP,
		MaxPrice: maxP,
		Count:    len(candles),
	}
	s.Spacing = s.PlotWidth() / float64(len(candles))
	s.Body = math.Max(2, math.Min(12, s.Spacing-2))
	return s, nil
}

func (s Scale) PlotWidth() float64  { return float64(s.Width) - marginLeft - marginRight }
func (s Scale) PlotHeight() float64 { return float64(s.Height) - marginTop - marginBottom }
func (s Scale) PlotLeft() float64   { return marginLeft }
func (s Scale) PlotRight() float64  { return float64(s.Width) - marginRight }
func (s Scale) PlotTop() float64    { return marginTop }
func (s Scale) PlotBottom() float64 { return float64(s.Height) - marginBottom }

// PriceToY maps a price to a vertical pixel, clamped into the plot area.
func (s Scale) PriceToY(p float64) float64 {
	r := (p - s.MinPrice) / (s.MaxPrice - s.MinPrice)
	r = math.Max(0, math.Min(1, r))
	return marginTop + (1-r)*s.PlotHeight()
}

// YToPrice is the inverse pointer mapping used for order placement and
// drawing capture.
func (s Scale) YToPrice(y float64) float64 {
	r := 1 - (y-marginTop)/s.PlotHeight()
	return s.MinPrice + r*(s.MaxPrice-s.MinPrice)
}

// IndexToX returns the center X of the candle at a window-relative index.
func (s Scale) IndexToX(i int) float64 {
	return marginLeft + float64(i)*s.Spacing + s.Spacing/2
}

// XToIndex maps a pointer X back to a window-relative candle index, clamped
// into the window.
func (s Scale) XToIndex(x float64) int {
	i := int(math.Floor((x - marginLeft) / s.Spacing))
	if i < 0 {
		i = 0
	}
	if i > s.Count-1 {
		i = s.Count - 1
	}
	return i
}
