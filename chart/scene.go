package chart

import (
	"fmt"

	"tradelingo/sim"
)

// Chart palette.
const (
	colorBackground = "#0d1117"
	colorGrid       = "#1e2430"
	colorUp         = "#22c55e"
	colorDown       = "#ef4444"
	colorBuy        = "#3b82f6"
	colorSell       = "#f97316"
	colorDrawing    = "#a855f7"
	colorCrosshair  = "#4b5563"
	colorLabel      = "#6b7280"
	colorTarget     = "#38bdf8"
)

// Primitive is one element of the declarative draw list. The scene builder
// decides what to draw; backends (SVG here) decide how.
type Primitive interface{ prim() }

type Rect struct {
	X, Y, W, H  float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
}

type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	Width          float64
	Dash           string
	Opacity        float64
}

type Label struct {
	X, Y float64
	Text string
	Fill string
	Size int
	Bold bool
}

func (Rect) prim()  {}
func (Line) prim()  {}
func (Label) prim() {}

// Point is a pointer location in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OrderPreview is the dashed placement guide shown while the order panel is
// open.
type OrderPreview struct {
	Side  sim.Side `json:"side"`
	Price float64  `json:"price"`
}

// ExerciseOverlay renders an exercise target and the user's submission side
// by side. Correctness is computed elsewhere; the chart only displays both.
type ExerciseOverlay struct {
	TargetPrice    float64
	TargetHigh     float64
	TargetLow      float64
	SubmittedPrice float64
	SubmittedHigh  float64
	SubmittedLow   float64
}

// View is the full render input: a consistent snapshot of window, book, and
// annotation state.
type View struct {
	Asset     string
	Candles   []sim.Candle
	Pending   []sim.Order
	Positions []sim.Position
	Drawings  []sim.Drawing
	Sketch    *sim.Drawing
	Crosshair *Point
	Preview   *OrderPreview
	Exercise  *ExerciseOverlay
}

// Scene is an ordered draw list plus the scale it was built against.
type Scene struct {
	Width  int
	Height int
	Scale  Scale
	Prims  []Primitive
}

// BuildScene computes the draw list back to front: background, grid, candles,
// pending orders, positions, finalized drawings, exercise overlay,
// in-progress sketch, crosshair, order preview. Pure: no pixels are touched.
func BuildScene(v View, width, height int) (Scene, error) {
	sc, err := NewScale(v.Candles, width, height)
	if err != nil {
		return Scene{}, err
	}
	b := sceneBuilder{scale: sc}

	b.background()
	b.grid()
	b.candles(v.Candles)
	for _, o := range v.Pending {
		b.pendingOrder(o)
	}
	for _, p := range v.Positions {
		b.position(p)
	}
	for _, d := range v.Drawings {
		b.drawing(d)
	}
	if v.Exercise != nil {
		b.exercise(*v.Exercise)
	}
	if v.Sketch != nil {
		b.drawing(*v.Sketch)
	}
	if v.Crosshair != nil {
		b.crosshair(*v.Crosshair)
	}
	if v.Preview != nil {
		b.preview(*v.Preview)
	}

	return Scene{Width: width, Height: height, Scale: sc, Prims: b.prims}, nil
}

type sceneBuilder struct {
	scale Scale
	prims []Primitive
}

func (b *sceneBuilder) add(p Primitive) { b.prims = append(b.prims, p) }

func (b *sceneBuilder) background() {
	b.add(Rect{X: 0, Y: 0, W: float64(b.scale.Width), H: float64(b.scale.Height), Fill: colorBackground})
}

func (b *sceneBuilder) grid() {
	sc := b.scale
	for i := 0; i <= 6; i++ {
		y := sc.PlotTop() + sc.PlotHeight()/6*float64(i)
		b.add(Line{X1: sc.PlotLeft(), Y1: y, X2: sc.PlotRight(), Y2: y, Stroke: colorGrid, Width: 1})
		price := sc.MaxPrice - (sc.MaxPrice-sc.MinPrice)/6*float64(i)
		b.add(Label{X: sc.PlotRight() + 5, Y: y + 4, Text: fmtPrice(price), Fill: colorLabel, Size: 11})
	}
}

func (b *sceneBuilder) candles(candles []sim.Candle) {
	sc := b.scale
	for i, c := range candles {
		x := sc.IndexToX(i)
		col := colorUp
		if c.Close < c.Open {
			col = colorDown
		}
		b.add(Line{X1: x, Y1: sc.PriceToY(c.High), X2: x, Y2: sc.PriceToY(c.Low), Stroke: col, Width: 1})

		top := sc.PriceToY(c.Open)
		bottom := sc.PriceToY(c.Close)
		if bottom < top {
			top, bottom = bottom, top
		}
		h := bottom - top
		if h < 1 {
			h = 1
		}
		b.add(Rect{X: x - sc.Body/2, Y: top, W: sc.Body, H: h, Fill: col, Opacity: 0.9})
	}
}

func (b *sceneBuilder) pendingOrder(o sim.Order) {
	sc := b.scale
	col := colorBuy
	if o.Side == sim.SideSell {
		col = colorSell
	}
	y := sc.PriceToY(o.Price)
	b.add(Line{X1: sc.PlotLeft(), Y1: y, X2: sc.PlotRight(), Y2: y, Stroke: col, Width: 1, Dash: "4 4"})
	b.add(Label{
		X: sc.PlotLeft() + 5, Y: y - 5,
		Text: fmt.Sprintf("%s %s @ %s", upper(string(o.Type)), upper(string(o.Side)), fmtPrice(o.Price)),
		Fill: col, Size: 10, Bold: true,
	})
}

func (b *sceneBuilder) position(p sim.Position) {
	sc := b.scale
	col := colorUp
	if p.Side == sim.SideSell {
		col = colorDown
	}
	y := sc.PriceToY(p.EntryPrice)
	b.add(Line{X1: sc.PlotLeft(), Y1: y, X2: sc.PlotRight(), Y2: y, Stroke: col, Width: 2})

	if p.StopLoss != 0 {
		sy := sc.PriceToY(p.StopLoss)
		b.add(Line{X1: sc.PlotLeft(), Y1: sy, X2: sc.PlotRight(), Y2: sy, Stroke: colorDown, Width: 1, Dash: "3 3"})
		b.add(Label{X: sc.PlotRight() - 100, Y: sy - 3, Text: "SL: " + fmtPrice(p.StopLoss), Fill: colorDown, Size: 10})
	}
	if p.TakeProfit != 0 {
		ty := sc.PriceToY(p.TakeProfit)
		b.add(Line{X1: sc.PlotLeft(), Y1: ty, X2: sc.PlotRight(), Y2: ty, Stroke: colorUp, Width: 1, Dash: "3 3"})
		b.add(Label{X: sc.PlotRight() - 100, Y: ty - 3, Text: "TP: " + fmtPrice(p.TakeProfit), Fill: colorUp, Size: 10})
	}
}

func (b *sceneBuilder) drawing(d sim.Drawing) {
	sc := b.scale
	switch d.Kind {
	case sim.DrawLine:
		b.add(Line{
			X1: sc.IndexToX(d.Start.CandleIndex), Y1: sc.PriceToY(d.Start.Price),
			X2: sc.IndexToX(d.End.CandleIndex), Y2: sc.PriceToY(d.End.Price),
			Stroke: colorDrawing, Width: 2,
		})
	case sim.DrawHorizontal:
		y := sc.PriceToY(d.Start.Price)
		b.add(Line{X1: sc.PlotLeft(), Y1: y, X2: sc.PlotRight(), Y2: y, Stroke: colorDrawing, Width: 2})
		b.add(Label{X: sc.PlotRight() + 5, Y: y + 4, Text: fmtPrice(d.Start.Price), Fill: colorDrawing, Size: 11})
	case sim.DrawRectangle:
		high, low := d.PriceRange()
		x1 := sc.IndexToX(min(d.Start.CandleIndex, d.End.CandleIndex))
		x2 := sc.IndexToX(max(d.Start.CandleIndex, d.End.CandleIndex))
		top := sc.PriceToY(high)
		b.add(Rect{
			X: x1, Y: top, W: x2 - x1, H: sc.PriceToY(low) - top,
			Stroke: colorDrawing, StrokeWidth: 2, Fill: colorDrawing, Opacity: 0.12,
		})
	case sim.DrawFibonacci:
		startY := sc.PriceToY(d.Start.Price)
		span := sc.PriceToY(d.End.Price) - startY
		for _, level := range sim.FibLevels {
			y := startY + span*level
			b.add(Line{
				X1: sc.PlotLeft(), Y1: y, X2: sc.PlotRight(), Y2: y,
				Stroke: colorDrawing, Width: 1, Opacity: 1 - level*0.5,
			})
			b.add(Label{X: sc.PlotRight() + 5, Y: y + 4, Text: fmt.Sprintf("%.1f%%", level*100), Fill: colorDrawing, Size: 11})
		}
	}
}

func (b *sceneBuilder) exercise(e ExerciseOverlay) {
	sc := b.scale
	if e.TargetHigh > e.TargetLow && e.TargetHigh != 0 {
		top := sc.PriceToY(e.TargetHigh)
		b.add(Rect{
			X: sc.PlotLeft(), Y: top, W: sc.PlotWidth(), H: sc.PriceToY(e.TargetLow) - top,
			Fill: colorTarget, Opacity: 0.15,
		})
	} else if e.TargetPrice != 0 {
		y := sc.PriceToY(e.TargetPrice)
		b.add(Line{X1: sc.PlotLeft(), Y1: y, X2: sc.PlotRight(), Y2: y, Stroke: colorTarget, Width: 2, Dash: "6 3"})
	}
	if e.SubmittedHigh > e.SubmittedLow && e.SubmittedHigh != 0 {
		top := sc.PriceToY(e.SubmittedHigh)
		b.add(Rect{
			X: sc.PlotLeft(), Y: top, W: sc.PlotWidth(), H: sc.PriceToY(e.SubmittedLow) - top,
			Stroke: colorDrawing, StrokeWidth: 1, Fill: colorDrawing, Opacity: 0.1,
		})
	} else if e.SubmittedPrice != 0 {
		y := sc.PriceToY(e.SubmittedPrice)
		b.add(Line{X1: sc.PlotLeft(), Y1: y, X2: sc.PlotRight(), Y2: y, Stroke: colorDrawing, Width: 2})
	}
}

func (b *sceneBuilder) crosshair(p Point) {
	sc := b.scale
	b.add(Line{X1: p.X, Y1: sc.PlotTop(), X2: p.X, Y2: sc.PlotBottom(), Stroke: colorCrosshair, Width: 1, Dash: "2 2"})
	b.add(Line{X1: sc.PlotLeft(), Y1: p.Y, X2: sc.PlotRight(), Y2: p.Y, Stroke: colorCrosshair, Width: 1, Dash: "2 2"})
	b.add(Label{X: sc.PlotRight() + 5, Y: p.Y + 4, Text: fmtPrice(sc.YToPrice(p.Y)), Fill: "#ffffff", Size: 11})
}

func (b *sceneBuilder) preview(p OrderPreview) {
	sc := b.scale
	col := colorBuy
	if p.Side == sim.SideSell {
		col = colorSell
	}
	y := sc.PriceToY(p.Price)
	b.add(Line{X1: sc.PlotLeft(), Y1: y, X2: sc.PlotRight(), Y2: y, Stroke: col, Width: 2, Dash: "8 4"})
	b.add(Label{
		X: sc.PlotLeft() + 5, Y: y - 8,
		Text: fmt.Sprintf("Preview: %s @ %s", upper(string(p.Side)), fmtPrice(p.Price)),
		Fill: col, Size: 11, Bold: true,
	})
}
