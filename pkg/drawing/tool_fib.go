package drawing

import (
	"fmt"
	"math"

	"github.com/raykavin/chartline/pkg/core"
)

// fibRatios are the retracement levels drawn between the two anchors.
var fibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// fibTool draws Fibonacci retracement levels between a high and a low
// anchor. Completion normalizes the anchors so the first point holds the
// higher price.
type fibTool struct{}

func (fibTool) ID() ToolID { return ToolFib }
func (fibTool) MinPoints() int { return 2 }
func (fibTool) MaxPoints() int { return 2 }
func (fibTool) MultiUse() bool { return true }

func (fibTool) Start(at core.WorldPoint) *Object {
	obj := newObject(ToolFib, at)
	obj.Meta["ratios"] = append([]float64(nil), fibRatios...)
	return obj
}

func (t fibTool) Update(draft *Object, at core.WorldPoint) {
	updateTrailingPoint(draft, at, t.MaxPoints())
}

// Complete orders the anchors high-first so level math is sign-stable.
func (fibTool) Complete(draft *Object) {
	if draft.Points[0].P < draft.Points[1].P {
		draft.Points[0], draft.Points[1] = draft.Points[1], draft.Points[0]
	}
}

func (f fibTool) Render(cv core.Canvas, obj *Object, space CoordinateSpace) {
	a := space.WorldToScreen(obj.Points[0])
	b := space.WorldToScreen(obj.Points[1])
	left, right := math.Min(a.X, b.X), math.Max(a.X, b.X)

	high := obj.Points[0].P
	low := obj.Points[1].P

	for _, ratio := range f.ratios(obj) {
		price := high - (high-low)*ratio
		y := space.WorldToScreen(core.WorldPoint{T: obj.Points[0].T, P: price}).Y

		strokeLine(cv, obj.Style, core.ScreenPoint{X: left, Y: y}, core.ScreenPoint{X: right, Y: y})
		cv.Text(fmt.Sprintf("%.3f  %.2f", ratio, price), right+4, y+4, obj.Style.FontSize, obj.Style.Color)
	}
}

func (f fibTool) HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64 {
	a := space.WorldToScreen(obj.Points[0])
	b := space.WorldToScreen(obj.Points[1])
	left, right := math.Min(a.X, b.X), math.Max(a.X, b.X)

	high := obj.Points[0].P
	low := obj.Points[1].P

	best := math.MaxFloat64
	for _, ratio := range f.ratios(obj) {
		price := high - (high-low)*ratio
		y := space.WorldToScreen(core.WorldPoint{T: obj.Points[0].T, P: price}).Y

		d := distToSegment(at, core.ScreenPoint{X: left, Y: y}, core.ScreenPoint{X: right, Y: y})
		best = math.Min(best, d)
	}

	return best
}

// ratios reads the level list from the object meta so imported objects
// can carry custom levels; falls back to the standard set.
func (fibTool) ratios(obj *Object) []float64 {
	raw, ok := obj.Meta["ratios"]
	if !ok {
		return fibRatios
	}

	switch v := raw.(type) {
	case []float64:
		return v
	case []any:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			if f, ok := item.(float64); ok {
				out = append(out, f)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	return fibRatios
}
