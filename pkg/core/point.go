package core

import "math"

// WorldPoint is a chart coordinate expressed as (timestamp, price).
// It is the only coordinate representation a drawing object ever stores,
// which is what keeps annotations anchored under pan and zoom.
type WorldPoint struct {
	T int64   `json:"t"` // Unix milliseconds
	P float64 `json:"p"`
}

// IsFinite reports whether both components hold usable values.
func (w WorldPoint) IsFinite() bool {
	return !math.IsNaN(w.P) && !math.IsInf(w.P, 0)
}

// ScreenPoint is a transient pixel coordinate, valid only for the viewport
// state it was computed from. Never persisted.
type ScreenPoint struct {
	X float64
	Y float64
}

// DistanceTo returns the euclidean pixel distance to another screen point.
func (s ScreenPoint) DistanceTo(other ScreenPoint) float64 {
	return math.Hypot(s.X-other.X, s.Y-other.Y)
}
