package chart

import "tradelingo/sim"

// Annotator captures pointer-drag gestures into finalized drawings:
// idle --(down)--> dragging --(move)*--(up)--> idle. Switching the tool mode
// away mid-drag abandons the gesture without emitting anything.
type Annotator struct {
	mode     sim.DrawingKind
	dragging bool
	start    sim.Anchor
	current  sim.Anchor
}

func NewAnnotator() *Annotator { return &Annotator{} }

func (a *Annotator) Mode() sim.DrawingKind { return a.mode }

// SetMode selects the drawing tool. An empty kind disables drawing. Any
// in-progress gesture is abandoned.
func (a *Annotator) SetMode(kind sim.DrawingKind) {
	if a.mode != kind {
		a.dragging = false
	}
	a.mode = kind
}

// PointerDown begins a gesture when a tool is active.
func (a *Annotator) PointerDown(x, y float64, sc Scale) bool {
	if a.mode == "" {
		return false
	}
	a.start = anchorAt(x, y, sc)
	a.current = a.start
	a.dragging = true
	return true
}

// PointerMove updates the in-progress endpoint.
func (a *Annotator) PointerMove(x, y float64, sc Scale) {
	if !a.dragging {
		return
	}
	a.current = anchorAt(x, y, sc)
}

// PointerUp finalizes the gesture into a drawing, returning false when no
// gesture was in progress.
func (a *Annotator) PointerUp(x, y float64, sc Scale) (sim.Drawing, bool) {
	if !a.dragging {
		return sim.Drawing{}, false
	}
	a.current = anchorAt(x, y, sc)
	a.dragging = false
	return sim.Drawing{Kind: a.mode, Start: a.start, End: a.current}, true
}

// Sketch exposes the in-progress drawing for the render preview.
func (a *Annotator) Sketch() (sim.Drawing, bool) {
	if !a.dragging {
		return sim.Drawing{}, false
	}
	return sim.Drawing{Kind: a.mode, Start: a.start, End: a.current}, true
}

func anchorAt(x, y float64, sc Scale) sim.Anchor {
	return sim.Anchor{X: x, Y: y, Price: sc.YToPrice(y), CandleIndex: sc.XToIndex(x)}
}
