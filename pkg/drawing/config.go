package drawing

import "github.com/raykavin/chartline/pkg/logger"

// Config is the explicit engine configuration. There is no ambient global
// state; every toggle lives here and is fixed at construction.
type Config struct {
	// HitThresholdPx is the maximum pixel distance at which a body hit
	// resolves to an object.
	HitThresholdPx float64

	// HandleRadiusPx is the radius of the circular hit region around each
	// control point of the selected object.
	HandleRadiusPx float64

	// SnapThresholdPx is the pixel distance within which a snap pass
	// adjusts a candidate point.
	SnapThresholdPx float64

	// Snap pass toggles, each independent.
	SnapPrice  bool
	SnapTime   bool
	SnapObject bool

	// HistoryDepth bounds the undo stack; the oldest snapshot is evicted
	// once exceeded.
	HistoryDepth int

	// MaxObjects caps the scene graph size.
	MaxObjects int

	// Log is optional; a nil Log falls back to logger.Nop().
	Log logger.Logger
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		HitThresholdPx:  8,
		HandleRadiusPx:  6,
		SnapThresholdPx: 10,
		SnapPrice:       true,
		SnapTime:        true,
		SnapObject:      true,
		HistoryDepth:    50,
		MaxObjects:      500,
	}
}
