package drawing

import (
	"math"

	"github.com/raykavin/chartline/pkg/core"
)

// rectTool draws an axis-aligned rectangle between two corner anchors.
type rectTool struct{}

func (rectTool) ID() ToolID { return ToolRect }
func (rectTool) MinPoints() int { return 2 }
func (rectTool) MaxPoints() int { return 2 }
func (rectTool) MultiUse() bool { return true }

func (rectTool) Start(at core.WorldPoint) *Object {
	obj := newObject(ToolRect, at)
	obj.Style.FillColor = "#2962ff"
	obj.Style.Opacity = 0.15
	return obj
}

func (t rectTool) Update(draft *Object, at core.WorldPoint) {
	updateTrailingPoint(draft, at, t.MaxPoints())
}

func (rectTool) Complete(*Object) {}

func (rectTool) Render(cv core.Canvas, obj *Object, space CoordinateSpace) {
	x, y, w, h := screenBounds(obj, space)

	if obj.Style.FillColor != "" {
		cv.SetFill(withOpacity(obj.Style.FillColor, obj.Style.Opacity))
		cv.FillRect(x, y, w, h)
	}

	cv.SetStroke(obj.Style.Color, obj.Style.LineWidth, obj.Style.LineStyle.Dash())
	cv.Rect(x, y, w, h)
	cv.Stroke()
}

func (rectTool) HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64 {
	x, y, w, h := screenBounds(obj, space)

	inside := at.X >= x && at.X <= x+w && at.Y >= y && at.Y <= y+h
	if inside {
		return 0
	}

	dx := math.Max(math.Max(x-at.X, 0), at.X-(x+w))
	dy := math.Max(math.Max(y-at.Y, 0), at.Y-(y+h))
	return math.Hypot(dx, dy)
}

// ellipseTool draws an ellipse inscribed in the box between two corner
// anchors. The outline is approximated with line segments, which keeps
// the canvas contract down to primitives.
type ellipseTool struct{}

func (ellipseTool) ID() ToolID { return ToolEllipse }
func (ellipseTool) MinPoints() int { return 2 }
func (ellipseTool) MaxPoints() int { return 2 }
func (ellipseTool) MultiUse() bool { return true }

func (ellipseTool) Start(at core.WorldPoint) *Object {
	obj := newObject(ToolEllipse, at)
	obj.Style.FillColor = "#2962ff"
	obj.Style.Opacity = 0.15
	return obj
}

func (t ellipseTool) Update(draft *Object, at core.WorldPoint) {
	updateTrailingPoint(draft, at, t.MaxPoints())
}

func (ellipseTool) Complete(*Object) {}

func (ellipseTool) Render(cv core.Canvas, obj *Object, space CoordinateSpace) {
	x, y, w, h := screenBounds(obj, space)
	cx, cy := x+w/2, y+h/2
	rx, ry := w/2, h/2

	const segments = 64
	trace := func() {
		cv.MoveTo(cx+rx, cy)
		for i := 1; i <= segments; i++ {
			angle := float64(i) / segments * 2 * math.Pi
			cv.LineTo(cx+rx*math.Cos(angle), cy+ry*math.Sin(angle))
		}
	}

	if obj.Style.FillColor != "" {
		cv.SetFill(withOpacity(obj.Style.FillColor, obj.Style.Opacity))
		trace()
		cv.Fill()
	}

	cv.SetStroke(obj.Style.Color, obj.Style.LineWidth, obj.Style.LineStyle.Dash())
	trace()
	cv.Stroke()
}

func (ellipseTool) HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64 {
	x, y, w, h := screenBounds(obj, space)
	cx, cy := x+w/2, y+h/2
	rx, ry := w/2, h/2
	if rx <= 0 || ry <= 0 {
		return at.DistanceTo(core.ScreenPoint{X: cx, Y: cy})
	}

	// Normalized radial distance: <=1 is inside.
	d := math.Hypot((at.X-cx)/rx, (at.Y-cy)/ry)
	if d <= 1 {
		return 0
	}

	return (d - 1) * math.Min(rx, ry)
}

// screenBounds projects the two anchor corners and returns the normalized
// screen rectangle (x, y, width, height).
func screenBounds(obj *Object, space CoordinateSpace) (x, y, w, h float64) {
	a := space.WorldToScreen(obj.Points[0])
	b := space.WorldToScreen(obj.Points[1])

	x = math.Min(a.X, b.X)
	y = math.Min(a.Y, b.Y)
	return x, y, math.Abs(a.X - b.X), math.Abs(a.Y - b.Y)
}
