package drawing

import (
	"math"

	"github.com/raykavin/chartline/pkg/core"
)

// snapPoint runs the magnetic snap passes over a candidate world point:
// time, then price, then object, each independently toggleable and each
// operating on the result of the previous, so a point can snap on both
// axes at once. Snapping applies only while drafting; finished objects
// being edited or resized are never re-snapped.
func (e *Engine) snapPoint(at core.WorldPoint, exclude *Object) core.WorldPoint {
	if e.cfg.SnapTime {
		at = e.snapTime(at)
	}
	if e.cfg.SnapPrice {
		at = e.snapPrice(at)
	}
	if e.cfg.SnapObject {
		at = e.snapObject(at, exclude)
	}
	return at
}

// snapTime snaps to the nearest actual bar timestamp, measured in pixel
// distance rather than raw time delta.
func (e *Engine) snapTime(at core.WorldPoint) core.WorldPoint {
	times := e.space.BarTimes()
	if len(times) == 0 {
		return at
	}

	x := e.space.WorldToScreen(at).X

	best, bestDist := int64(0), math.MaxFloat64
	for _, ts := range times {
		d := math.Abs(e.space.WorldToScreen(core.WorldPoint{T: ts, P: at.P}).X - x)
		if d < bestDist {
			best, bestDist = ts, d
		}
	}

	if bestDist <= e.cfg.SnapThresholdPx {
		at.T = best
	}
	return at
}

// snapPrice rounds the price to the nearest nice step derived from the
// visible price range, when the rounded value is close enough on screen.
func (e *Engine) snapPrice(at core.WorldPoint) core.WorldPoint {
	min, max := e.space.PriceRange()
	step := niceStep(max - min)
	if step <= 0 {
		return at
	}

	rounded := math.Round(at.P/step) * step
	rawY := e.space.WorldToScreen(at).Y
	roundedY := e.space.WorldToScreen(core.WorldPoint{T: at.T, P: rounded}).Y

	if math.Abs(roundedY-rawY) <= e.cfg.SnapThresholdPx {
		at.P = rounded
	}
	return at
}

// snapObject snaps to the nearest anchor point of another drawing object,
// enabling endpoint-to-endpoint alignment.
func (e *Engine) snapObject(at core.WorldPoint, exclude *Object) core.WorldPoint {
	screen := e.space.WorldToScreen(at)

	var best core.WorldPoint
	bestDist := math.MaxFloat64

	for _, obj := range e.objects {
		if exclude != nil && obj.ID == exclude.ID {
			continue
		}
		if !obj.Visible {
			continue
		}

		for _, p := range obj.Points {
			d := screen.DistanceTo(e.space.WorldToScreen(p))
			if d < bestDist {
				best, bestDist = p, d
			}
		}
	}

	if bestDist <= e.cfg.SnapThresholdPx {
		return best
	}
	return at
}

// niceStep picks a 1/2/5 step matching the order of magnitude of the
// visible price range, targeting about twenty gridded levels.
func niceStep(priceRange float64) float64 {
	if priceRange <= 0 {
		return 0
	}

	raw := priceRange / 20
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	norm := raw / mag

	switch {
	case norm < 1.5:
		return mag
	case norm < 3.5:
		return 2 * mag
	case norm < 7.5:
		return 5 * mag
	default:
		return 10 * mag
	}
}
