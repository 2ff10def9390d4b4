package drawing

import (
	"math"

	"github.com/raykavin/chartline/pkg/core"
)

// trendlineTool draws a straight segment between two anchor points.
type trendlineTool struct{}

func (trendlineTool) ID() ToolID { return ToolTrendline }
func (trendlineTool) MinPoints() int { return 2 }
func (trendlineTool) MaxPoints() int { return 2 }
func (trendlineTool) MultiUse() bool { return true }

func (trendlineTool) Start(at core.WorldPoint) *Object {
	return newObject(ToolTrendline, at)
}

func (t trendlineTool) Update(draft *Object, at core.WorldPoint) {
	updateTrailingPoint(draft, at, t.MaxPoints())
}

func (trendlineTool) Complete(*Object) {}

func (trendlineTool) Render(cv core.Canvas, obj *Object, space CoordinateSpace) {
	a := space.WorldToScreen(obj.Points[0])
	b := space.WorldToScreen(obj.Points[1])
	strokeLine(cv, obj.Style, a, b)
}

func (trendlineTool) HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64 {
	a := space.WorldToScreen(obj.Points[0])
	b := space.WorldToScreen(obj.Points[1])
	return distToSegment(at, a, b)
}

// rayTool draws a half-line from the first point through the second,
// extended to the canvas edge.
type rayTool struct{}

func (rayTool) ID() ToolID { return ToolRay }
func (rayTool) MinPoints() int { return 2 }
func (rayTool) MaxPoints() int { return 2 }
func (rayTool) MultiUse() bool { return true }

func (rayTool) Start(at core.WorldPoint) *Object {
	return newObject(ToolRay, at)
}

func (t rayTool) Update(draft *Object, at core.WorldPoint) {
	updateTrailingPoint(draft, at, t.MaxPoints())
}

func (rayTool) Complete(*Object) {}

func (rayTool) Render(cv core.Canvas, obj *Object, space CoordinateSpace) {
	w, h := space.Size()
	a := space.WorldToScreen(obj.Points[0])
	b := space.WorldToScreen(obj.Points[1])
	strokeLine(cv, obj.Style, a, extendThrough(a, b, w, h))
}

func (rayTool) HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64 {
	w, h := space.Size()
	a := space.WorldToScreen(obj.Points[0])
	b := space.WorldToScreen(obj.Points[1])
	return distToSegment(at, a, extendThrough(a, b, w, h))
}

// hlineTool draws a horizontal price level across the full canvas width.
type hlineTool struct{}

func (hlineTool) ID() ToolID { return ToolHLine }
func (hlineTool) MinPoints() int { return 1 }
func (hlineTool) MaxPoints() int { return 1 }
func (hlineTool) MultiUse() bool { return true }

func (hlineTool) Start(at core.WorldPoint) *Object {
	return newObject(ToolHLine, at)
}

func (hlineTool) Update(draft *Object, at core.WorldPoint) {
	draft.Points[0] = at
}

func (hlineTool) Complete(*Object) {}

func (hlineTool) Render(cv core.Canvas, obj *Object, space CoordinateSpace) {
	w, _ := space.Size()
	y := space.WorldToScreen(obj.Points[0]).Y
	strokeLine(cv, obj.Style, core.ScreenPoint{X: 0, Y: y}, core.ScreenPoint{X: w, Y: y})
}

func (hlineTool) HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64 {
	return math.Abs(at.Y - space.WorldToScreen(obj.Points[0]).Y)
}

// vlineTool draws a vertical time marker across the full canvas height.
type vlineTool struct{}

func (vlineTool) ID() ToolID { return ToolVLine }
func (vlineTool) MinPoints() int { return 1 }
func (vlineTool) MaxPoints() int { return 1 }
func (vlineTool) MultiUse() bool { return true }

func (vlineTool) Start(at core.WorldPoint) *Object {
	return newObject(ToolVLine, at)
}

func (vlineTool) Update(draft *Object, at core.WorldPoint) {
	draft.Points[0] = at
}

func (vlineTool) Complete(*Object) {}

func (vlineTool) Render(cv core.Canvas, obj *Object, space CoordinateSpace) {
	_, h := space.Size()
	x := space.WorldToScreen(obj.Points[0]).X
	strokeLine(cv, obj.Style, core.ScreenPoint{X: x, Y: 0}, core.ScreenPoint{X: x, Y: h})
}

func (vlineTool) HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64 {
	return math.Abs(at.X - space.WorldToScreen(obj.Points[0]).X)
}
