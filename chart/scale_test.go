package chart

import (
	"math"
	"testing"
	"time"

	"tradelingo/sim"
)

func flatWindow(n int, low, high float64) []sim.Candle {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]sim.Candle, n)
	for i := range out {
		out[i] = sim.Candle{Time: ts, Open: low, High: high, Low: low, Close: high, Volume: 100}
		ts = ts.Add(5 * time.Minute)
	}
	return out
}

func TestNewScaleRange(t *testing.T) {
	sc, err := NewScale(flatWindow(100, 1.0800, 1.0900), 980, 520)
	if err != nil {
		t.Fatalf("NewScale: %v", err)
	}
	if got, want := sc.MinPrice, 1.0800*0.9995; math.Abs(got-want) > 1e-9 {
		t.Fatalf("min price = %v, want %v", got, want)
	}
	if got, want := sc.MaxPrice, 1.0900*1.0005; math.Abs(got-want) > 1e-9 {
		t.Fatalf("max price = %v, want %v", got, want)
	}
	if sc.Body < 2 || sc.Body > 12 {
		t.Fatalf("body width %v out of [2, 12]", sc.Body)
	}
}

func TestNewScaleErrors(t *testing.T) {
	if _, err := NewScale(nil, 980, 520); err == nil {
		t.Fatal("expected error for empty window")
	}
	if _, err := NewScale(flatWindow(10, 1.08, 1.09), 50, 520); err == nil {
		t.Fatal("expected error for too-small canvas")
	}
}

func TestPriceToYClampsAndInverts(t *testing.T) {
	sc, err := NewScale(flatWindow(50, 1.0800, 1.0900), 980, 520)
	if err != nil {
		t.Fatalf("NewScale: %v", err)
	}

	top := sc.PriceToY(sc.MaxPrice)
	bottom := sc.PriceToY(sc.MinPrice)
	if math.Abs(top-sc.PlotTop()) > 1e-9 || math.Abs(bottom-sc.PlotBottom()) > 1e-9 {
		t.Fatalf("extremes must map to plot edges: top=%v bottom=%v", top, bottom)
	}

	// Off-scale prices clamp into the plot area.
	if y := sc.PriceToY(2.0); y != sc.PlotTop() {
		t.Fatalf("high outlier must clamp to plot top, got %v", y)
	}
	if y := sc.PriceToY(0.5); y != sc.PlotBottom() {
		t.Fatalf("low outlier must clamp to plot bottom, got %v", y)
	}

	// Round trip inside the range.
	p := 1.0850
	if got := sc.YToPrice(sc.PriceToY(p)); math.Abs(got-p) > 1e-9 {
		t.Fatalf("round trip: got %v, want %v", got, p)
	}
}

func TestIndexToXRoundTrip(t *testing.T) {
	sc, err := NewScale(flatWindow(100, 1.0800, 1.0900), 980, 520)
	if err != nil {
		t.Fatalf("NewScale: %v", err)
	}
	for _, i := range []int{0, 1, 50, 99} {
		if got := sc.XToIndex(sc.IndexToX(i)); got != i {
			t.Fatalf("round trip index %d: got %d", i, got)
		}
	}
	// Out-of-plot pointer positions clamp into the window.
	if got := sc.XToIndex(-100); got != 0 {
		t.Fatalf("left clamp: got %d", got)
	}
	if got := sc.XToIndex(5000); got != 99 {
		t.Fatalf("right clamp: got %d", got)
	}
}
