package drawing

import (
	"math"

	"github.com/raykavin/chartline/pkg/core"
)

// textTool places a text label at a single anchor. The draft is created
// immediately with empty content; the UI supplies the final string later
// through Engine.UpdateObject, so no tool callback ever blocks waiting
// for input. Single-use: completing a label resets the active tool to
// select.
type textTool struct{}

func (textTool) ID() ToolID { return ToolText }
func (textTool) MinPoints() int { return 1 }
func (textTool) MaxPoints() int { return 1 }
func (textTool) MultiUse() bool { return false }

func (textTool) Start(at core.WorldPoint) *Object {
	obj := newObject(ToolText, at)
	obj.Meta["text"] = ""
	return obj
}

func (textTool) Update(draft *Object, at core.WorldPoint) {
	draft.Points[0] = at
}

func (textTool) Complete(draft *Object) {
	if draft.MetaString("text") == "" {
		draft.Meta["text"] = "Text"
	}
}

func (textTool) Render(cv core.Canvas, obj *Object, space CoordinateSpace) {
	at := space.WorldToScreen(obj.Points[0])
	color := obj.Style.FontColor
	if color == "" {
		color = obj.Style.Color
	}

	cv.Text(obj.MetaString("text"), at.X, at.Y, obj.Style.FontSize, color)
}

func (t textTool) HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64 {
	anchor := space.WorldToScreen(obj.Points[0])
	w, h := t.boundsFor(obj)

	// Bounding box first, center distance as the tie-break metric.
	x, y := anchor.X, anchor.Y-h
	inside := at.X >= x && at.X <= x+w && at.Y >= y && at.Y <= y+h
	if inside {
		return 0
	}

	return at.DistanceTo(core.ScreenPoint{X: x + w/2, Y: y + h/2})
}

// boundsFor estimates the label box from the font size; the primitive
// canvas contract has no text measurement.
func (textTool) boundsFor(obj *Object) (w, h float64) {
	size := obj.Style.FontSize
	if size <= 0 {
		size = 12
	}

	runes := float64(len([]rune(obj.MetaString("text"))))
	return math.Max(runes, 1) * size * 0.6, size * 1.2
}
