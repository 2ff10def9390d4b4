package viewport

import (
	"math"
	"sort"
	"time"

	"github.com/raykavin/chartline/pkg/core"
)

// Transform is an immutable snapshot of the world<->screen mapping for one
// viewport state. All methods are pure; the drawing engine and the renderer
// share one snapshot per frame.
type Transform struct {
	state    State
	times    []int64
	interval time.Duration
}

// State returns the viewport state the transform was derived from.
func (t Transform) State() State { return t.state }

// IndexToX converts a fractional bar index to a pixel X.
func (t Transform) IndexToX(idx float64) float64 {
	span := t.state.VisibleEnd - t.state.VisibleStart
	if span <= 0 {
		return 0
	}
	return (idx - t.state.VisibleStart) / span * t.state.WidthPx
}

// XToIndex converts a pixel X to a fractional bar index. Non-finite
// input resolves to the window start so a corrupt pointer coordinate
// can never index out of the bar slice downstream.
func (t Transform) XToIndex(x float64) float64 {
	if t.state.WidthPx <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return t.state.VisibleStart
	}
	span := t.state.VisibleEnd - t.state.VisibleStart
	return t.state.VisibleStart + x/t.state.WidthPx*span
}

// TimeToX converts a timestamp (Unix ms) to a pixel X.
func (t Transform) TimeToX(ts int64) float64 {
	return t.IndexToX(t.indexOfTime(ts))
}

// XToTime converts a pixel X to a timestamp (Unix ms).
func (t Transform) XToTime(x float64) int64 {
	return t.timeAtIndex(t.XToIndex(x))
}

// PriceToY converts a price to a pixel Y.
func (t Transform) PriceToY(p float64) float64 {
	span := t.state.PriceMax - t.state.PriceMin
	if span <= 0 {
		return 0
	}
	return (t.state.PriceMax - p) / span * t.state.HeightPx
}

// YToPrice converts a pixel Y to a price.
func (t Transform) YToPrice(y float64) float64 {
	if t.state.HeightPx <= 0 {
		return t.state.PriceMin
	}
	span := t.state.PriceMax - t.state.PriceMin
	return t.state.PriceMax - y/t.state.HeightPx*span
}

// WorldToScreen converts a world point to screen pixels.
func (t Transform) WorldToScreen(w core.WorldPoint) core.ScreenPoint {
	return core.ScreenPoint{X: t.TimeToX(w.T), Y: t.PriceToY(w.P)}
}

// ScreenToWorld converts screen pixels to a world point.
func (t Transform) ScreenToWorld(s core.ScreenPoint) core.WorldPoint {
	return core.WorldPoint{T: t.XToTime(s.X), P: t.YToPrice(s.Y)}
}

// BarTimes returns the bar timestamps backing the time axis.
func (t Transform) BarTimes() []int64 { return t.times }

// PriceRange returns the visible price range.
func (t Transform) PriceRange() (min, max float64) {
	return t.state.PriceMin, t.state.PriceMax
}

// Size returns the canvas size in pixels.
func (t Transform) Size() (width, height float64) {
	return t.state.WidthPx, t.state.HeightPx
}

// indexOfTime maps a timestamp to a fractional bar index, interpolating
// between bars and extrapolating with the bar interval outside the data.
func (t Transform) indexOfTime(ts int64) float64 {
	n := len(t.times)
	if n == 0 {
		return 0
	}

	step := float64(t.interval.Milliseconds())
	if step <= 0 {
		step = 1
	}

	if ts <= t.times[0] {
		return float64(ts-t.times[0]) / step
	}
	if ts >= t.times[n-1] {
		return float64(n-1) + float64(ts-t.times[n-1])/step
	}

	i := sort.Search(n, func(i int) bool { return t.times[i] >= ts })
	lo, hi := t.times[i-1], t.times[i]
	if hi == lo {
		return float64(i)
	}

	return float64(i-1) + float64(ts-lo)/float64(hi-lo)
}

// timeAtIndex is the inverse of indexOfTime.
func (t Transform) timeAtIndex(idx float64) int64 {
	n := len(t.times)
	if n == 0 {
		return 0
	}

	if math.IsNaN(idx) {
		return t.times[0]
	}

	step := float64(t.interval.Milliseconds())
	if step <= 0 {
		step = 1
	}

	if idx <= 0 {
		return t.times[0] + int64(idx*step)
	}
	if idx >= float64(n-1) {
		return t.times[n-1] + int64((idx-float64(n-1))*step)
	}

	i := int(math.Floor(idx))
	frac := idx - float64(i)
	return t.times[i] + int64(frac*float64(t.times[i+1]-t.times[i]))
}
