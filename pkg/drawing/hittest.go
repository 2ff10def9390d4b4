package drawing

import "github.com/raykavin/chartline/pkg/core"

// handleAt returns the index of the selected object's control point whose
// circular hit region contains the screen point, or -1. Handle hits take
// absolute priority over body hits.
func (e *Engine) handleAt(at core.ScreenPoint) int {
	selected := e.Selected()
	if selected == nil || selected.Locked {
		return -1
	}

	for i, p := range selected.Points {
		if at.DistanceTo(e.space.WorldToScreen(p)) <= e.cfg.HandleRadiusPx {
			return i
		}
	}

	return -1
}

// objectAt resolves a screen point to the closest visible, unlocked
// object whose hit distance is under the threshold. Objects are tested
// in descending z-order so the most recently raised object wins ties.
func (e *Engine) objectAt(at core.ScreenPoint) *Object {
	for _, obj := range e.objectsByZDescending() {
		if !obj.Visible || obj.Locked {
			continue
		}

		tool := toolFor(obj.Type)
		if tool == nil || len(obj.Points) < tool.MinPoints() {
			continue
		}

		if tool.HitTest(obj, at, e.space) <= e.cfg.HitThresholdPx {
			return obj
		}
	}

	return nil
}

// HitTest exposes body hit resolution for callers (e.g. hover cursors).
// It returns the hit object id, or an empty string.
func (e *Engine) HitTest(x, y float64) string {
	if obj := e.objectAt(core.ScreenPoint{X: x, Y: y}); obj != nil {
		return obj.ID
	}
	return ""
}
