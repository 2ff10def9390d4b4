package drawing

import (
	"math"

	"github.com/raykavin/chartline/pkg/core"
)

// channelTool draws two parallel trend lines. The base line comes from
// the two anchors; the companion line is offset by the "offset" meta
// value (a price delta), which the UI can adjust after creation via
// UpdateObject.
type channelTool struct{}

func (channelTool) ID() ToolID { return ToolChannel }
func (channelTool) MinPoints() int { return 2 }
func (channelTool) MaxPoints() int { return 2 }
func (channelTool) MultiUse() bool { return true }

func (channelTool) Start(at core.WorldPoint) *Object {
	return newObject(ToolChannel, at)
}

func (t channelTool) Update(draft *Object, at core.WorldPoint) {
	updateTrailingPoint(draft, at, t.MaxPoints())
}

// Complete seeds the channel width from the drawn slope so a fresh
// channel is visible before the caller tunes it.
func (channelTool) Complete(draft *Object) {
	if _, ok := draft.Meta["offset"]; ok {
		return
	}

	offset := math.Abs(draft.Points[1].P-draft.Points[0].P) / 2
	if offset == 0 {
		offset = math.Abs(draft.Points[0].P) * 0.01
	}
	draft.Meta["offset"] = offset
}

func (t channelTool) Render(cv core.Canvas, obj *Object, space CoordinateSpace) {
	base0, base1, par0, par1 := t.lines(obj, space)

	strokeLine(cv, obj.Style, base0, base1)
	strokeLine(cv, obj.Style, par0, par1)

	if obj.Style.FillColor != "" {
		cv.SetFill(withOpacity(obj.Style.FillColor, obj.Style.Opacity))
		cv.MoveTo(base0.X, base0.Y)
		cv.LineTo(base1.X, base1.Y)
		cv.LineTo(par1.X, par1.Y)
		cv.LineTo(par0.X, par0.Y)
		cv.Fill()
	}
}

func (t channelTool) HitTest(obj *Object, at core.ScreenPoint, space CoordinateSpace) float64 {
	base0, base1, par0, par1 := t.lines(obj, space)

	return math.Min(
		distToSegment(at, base0, base1),
		distToSegment(at, par0, par1),
	)
}

// lines projects the base segment and its parallel companion.
func (channelTool) lines(obj *Object, space CoordinateSpace) (base0, base1, par0, par1 core.ScreenPoint) {
	offset := obj.MetaFloat("offset", 0)

	base0 = space.WorldToScreen(obj.Points[0])
	base1 = space.WorldToScreen(obj.Points[1])
	par0 = space.WorldToScreen(core.WorldPoint{T: obj.Points[0].T, P: obj.Points[0].P + offset})
	par1 = space.WorldToScreen(core.WorldPoint{T: obj.Points[1].T, P: obj.Points[1].P + offset})
	return base0, base1, par0, par1
}
