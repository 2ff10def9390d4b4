package drawing

import (
	"math"

	"github.com/raykavin/chartline/pkg/core"
)

// Tool defines the behavior of one annotation type: how a draft is
// created and grown, how a finished object is drawn, and how close a
// screen point is to it. The set of implementations is closed; toolFor
// selects them by exhaustive switch.
type Tool interface {
	// ID returns the tool identifier.
	ID() ToolID

	// MinPoints and MaxPoints bound the point count of a finished object.
	MinPoints() int
	MaxPoints() int

	// MultiUse reports whether the tool stays active after completing an
	// object. Single-use tools reset the active tool back to select.
	MultiUse() bool

	// Start creates a draft object anchored at the given world point.
	Start(at core.WorldPoint) *Object

	// Update mutates the draft's trailing point while the pointer moves.
	Update(draft *Object, at core.WorldPoint)

	// Complete post-processes the draft before it joins the scene graph.
	Complete(draft *Object)

	// Render draws the object onto the canvas using the transform.
	Render(cv core.Canvas, obj *Object, space CoordinateSpace)

	// HitTest returns the pixel distance from the screen point to the
	// object body.
	HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64
}

// toolFor resolves a tool id to its implementation. Unknown ids resolve
// to nil, which callers treat as the select tool.
func toolFor(id ToolID) Tool {
	switch id {
	case ToolTrendline:
		return trendlineTool{}
	case ToolRay:
		return rayTool{}
	case ToolHLine:
		return hlineTool{}
	case ToolVLine:
		return vlineTool{}
	case ToolRect:
		return rectTool{}
	case ToolEllipse:
		return ellipseTool{}
	case ToolFib:
		return fibTool{}
	case ToolChannel:
		return channelTool{}
	case ToolText:
		return textTool{}
	default:
		return nil
	}
}

// updateTrailingPoint is the shared Update behavior of two-point tools:
// the first move adds the second point, later moves overwrite it.
func updateTrailingPoint(draft *Object, at core.WorldPoint, maxPoints int) {
	if len(draft.Points) < maxPoints {
		draft.Points = append(draft.Points, at)
		return
	}
	draft.Points[len(draft.Points)-1] = at
}

// distToSegment returns the distance from p to the segment a-b in pixels.
func distToSegment(p, a, b core.ScreenPoint) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.DistanceTo(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	return p.DistanceTo(core.ScreenPoint{X: a.X + t*dx, Y: a.Y + t*dy})
}

// strokeLine draws a single segment with the object's style.
func strokeLine(cv core.Canvas, style Style, a, b core.ScreenPoint) {
	cv.SetStroke(style.Color, style.LineWidth, style.LineStyle.Dash())
	cv.MoveTo(a.X, a.Y)
	cv.LineTo(b.X, b.Y)
	cv.Stroke()
}

// extendThrough returns the point on the ray from a through b that lies
// well past the canvas bounds, so strokes reach the edge.
func extendThrough(a, b core.ScreenPoint, width, height float64) core.ScreenPoint {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return b
	}

	reach := (width + height) * 2 / length
	return core.ScreenPoint{X: a.X + dx*reach, Y: a.Y + dy*reach}
}
