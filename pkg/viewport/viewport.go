// Package viewport owns the visible bar window, the price range, and the
// canvas size of a chart, and derives the world<->screen coordinate
// transform from them. All range-changing operations clamp instead of
// failing; there is no error condition exposed to callers.
package viewport

import (
	"math"
	"sort"
	"time"

	"github.com/raykavin/chartline/pkg/core"
	"github.com/raykavin/chartline/pkg/logger"
	"github.com/samber/lo"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Config bounds the viewport behavior.
type Config struct {
	MinBars      int     // smallest visible bar count a zoom may reach
	MaxBars      int     // largest visible bar count a zoom may reach
	DefaultBars  int     // window applied when data first arrives
	PricePadding float64 // fraction of the visible price span added above and below
	ZoomStep     float64 // wheel delta to zoom factor exponent
	AutoFitPrice bool    // recompute the price range after pan/zoom
}

// DefaultConfig returns the viewport defaults.
func DefaultConfig() Config {
	return Config{
		MinBars:      5,
		MaxBars:      500,
		DefaultBars:  120,
		PricePadding: 0.08,
		ZoomStep:     0.0015,
		AutoFitPrice: true,
	}
}

// State is the complete logical description of what the chart shows.
// VisibleStart and VisibleEnd are fractional bar indices.
type State struct {
	VisibleStart float64
	VisibleEnd   float64
	PriceMin     float64
	PriceMax     float64
	WidthPx      float64
	HeightPx     float64
	Timeframe    string
}

// Manager applies pan/zoom/timeframe operations to a State while holding
// the invariants: VisibleEnd > VisibleStart, the visible bar count stays
// within [MinBars, MaxBars], and PriceMax > PriceMin.
type Manager struct {
	cfg     Config
	log     logger.Logger
	candles []core.Candle
	times   []int64
	state   State
}

// New creates a viewport manager with the given configuration.
func New(cfg Config, log logger.Logger) *Manager {
	if cfg.MinBars < 1 {
		cfg.MinBars = 1
	}
	if cfg.MaxBars < cfg.MinBars {
		cfg.MaxBars = cfg.MinBars
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Manager{
		cfg: cfg,
		log: log,
		state: State{
			VisibleEnd: 1,
			PriceMax:   1,
			WidthPx:    800,
			HeightPx:   600,
		},
	}
}

// State returns a copy of the current viewport state.
func (m *Manager) State() State { return m.state }

// Candles returns the full bar sequence, read-only by convention.
func (m *Manager) Candles() []core.Candle { return m.candles }

// SetData replaces the bar sequence. The current visible window is
// re-anchored to the nearest valid range rather than being dropped.
func (m *Manager) SetData(candles []core.Candle) {
	hadData := len(m.candles) > 0
	m.candles = candles
	m.times = lo.Map(candles, func(c core.Candle, _ int) int64 { return c.TimeMillis() })

	n := len(candles)
	if n == 0 {
		m.state.VisibleStart = 0
		m.state.VisibleEnd = 1
		return
	}

	span := m.state.VisibleEnd - m.state.VisibleStart
	if !hadData || span <= 1 {
		span = float64(lo.Clamp(m.cfg.DefaultBars, m.cfg.MinBars, m.cfg.MaxBars))
	}
	span = m.clampSpan(span)

	end := m.state.VisibleEnd
	if !hadData || end > float64(n-1) || end <= 0 {
		end = float64(n - 1)
	}

	m.state.VisibleStart, m.state.VisibleEnd = m.clampWindow(end-span, end)
	m.FitPriceRange()
}

// SetCanvasSize updates pixel dimensions without changing the logical
// visible range.
func (m *Manager) SetCanvasSize(widthPx, heightPx float64) {
	if widthPx > 0 {
		m.state.WidthPx = widthPx
	}
	if heightPx > 0 {
		m.state.HeightPx = heightPx
	}
}

// namedPeriods maps timeframe labels to trading-bar counts.
var namedPeriods = map[string]int{
	"5D": 5, "1W": 5, "1M": 22, "3M": 66, "6M": 132, "1Y": 260, "5Y": 1300,
}

// ApplyTimeframe resets the window to show the most recent bars matching
// the requested period, then refits the price range. "ALL" shows every
// bar; other labels fall back to duration parsing against the bar
// interval (e.g. "45d", "12h").
func (m *Manager) ApplyTimeframe(period string) {
	n := len(m.candles)
	if n == 0 {
		m.state.Timeframe = period
		return
	}

	bars := n
	if period != "ALL" {
		if count, ok := namedPeriods[period]; ok {
			bars = count
		} else if dur, err := str2duration.ParseDuration(period); err == nil {
			bars = int(dur / m.barInterval())
		} else {
			m.log.WithField("period", period).Warn("unknown timeframe, showing all bars")
		}
	}

	span := m.clampSpan(float64(bars))
	end := float64(n - 1)
	m.state.VisibleStart, m.state.VisibleEnd = m.clampWindow(end-span+1, end)
	m.state.Timeframe = period
	m.FitPriceRange()
}

// PanBy shifts the window by a fractional bar count, clamped so the
// window never moves fully outside the data.
func (m *Manager) PanBy(deltaBars float64) {
	if math.IsNaN(deltaBars) || math.IsInf(deltaBars, 0) {
		return
	}

	start := m.state.VisibleStart + deltaBars
	end := m.state.VisibleEnd + deltaBars
	m.state.VisibleStart, m.state.VisibleEnd = m.clampWindow(start, end)

	if m.cfg.AutoFitPrice {
		m.FitPriceRange()
	}
}

// WheelZoom zooms by a wheel delta, anchored so the bar under pixelX
// keeps its screen position. The resulting visible bar count is clamped
// to [MinBars, MaxBars] and to the data span.
func (m *Manager) WheelZoom(pixelX, deltaY float64) {
	if math.IsNaN(deltaY) || math.IsInf(deltaY, 0) {
		return
	}

	span := m.state.VisibleEnd - m.state.VisibleStart
	newSpan := m.clampSpan(span * math.Exp(deltaY*m.cfg.ZoomStep))

	anchor := m.Transform().XToIndex(pixelX)
	ratio := 0.5
	if m.state.WidthPx > 0 && !math.IsNaN(pixelX) && !math.IsInf(pixelX, 0) {
		ratio = lo.Clamp(pixelX/m.state.WidthPx, 0, 1)
	}

	start := anchor - ratio*newSpan
	m.state.VisibleStart, m.state.VisibleEnd = m.clampWindow(start, start+newSpan)

	if m.cfg.AutoFitPrice {
		m.FitPriceRange()
	}
}

// FitPriceRange recomputes PriceMin/PriceMax from the visible candles,
// with the configured padding margin above and below the extremes.
func (m *Manager) FitPriceRange() {
	visible := m.VisibleCandles()
	low, high, ok := core.PriceExtent(visible)
	if !ok {
		return
	}

	pad := (high - low) * m.cfg.PricePadding
	if pad <= 0 {
		// Flat range, e.g. a single bar with no wick spread.
		pad = math.Max(math.Abs(high)*0.01, 1e-9)
	}

	m.state.PriceMin = low - pad
	m.state.PriceMax = high + pad
}

// SetPriceRange overrides the price range directly, ignoring requests
// that would invert it.
func (m *Manager) SetPriceRange(min, max float64) {
	if max <= min {
		return
	}
	m.state.PriceMin, m.state.PriceMax = min, max
}

// VisibleCandles returns the candles whose indices fall inside the
// visible window.
func (m *Manager) VisibleCandles() []core.Candle {
	n := len(m.candles)
	if n == 0 {
		return nil
	}

	first := int(math.Ceil(math.Max(0, m.state.VisibleStart)))
	last := int(math.Floor(math.Min(float64(n-1), m.state.VisibleEnd)))
	if first > last {
		return nil
	}

	return m.candles[first : last+1]
}

// BarWidthPx returns the pixel width of one bar at the current zoom.
func (m *Manager) BarWidthPx() float64 {
	span := m.state.VisibleEnd - m.state.VisibleStart
	if span <= 0 {
		return 0
	}
	return m.state.WidthPx / span
}

// Transform returns an immutable coordinate transform snapshot for the
// current state. The snapshot is cheap to build and safe to recompute
// every frame.
func (m *Manager) Transform() Transform {
	return Transform{
		state:    m.state,
		times:    m.times,
		interval: m.barInterval(),
	}
}

// Convenience delegates so the manager itself can serve as a live
// coordinate space.

// TimeToX converts a timestamp to a pixel X under the current state.
func (m *Manager) TimeToX(ts int64) float64 { return m.Transform().TimeToX(ts) }

// XToTime converts a pixel X to a timestamp under the current state.
func (m *Manager) XToTime(x float64) int64 { return m.Transform().XToTime(x) }

// PriceToY converts a price to a pixel Y under the current state.
func (m *Manager) PriceToY(p float64) float64 { return m.Transform().PriceToY(p) }

// YToPrice converts a pixel Y to a price under the current state.
func (m *Manager) YToPrice(y float64) float64 { return m.Transform().YToPrice(y) }

// WorldToScreen converts a world point to screen pixels.
func (m *Manager) WorldToScreen(w core.WorldPoint) core.ScreenPoint {
	return m.Transform().WorldToScreen(w)
}

// ScreenToWorld converts screen pixels to a world point.
func (m *Manager) ScreenToWorld(s core.ScreenPoint) core.WorldPoint {
	return m.Transform().ScreenToWorld(s)
}

// BarTimes returns the timestamps of every bar, in ascending order.
func (m *Manager) BarTimes() []int64 { return m.times }

// PriceRange returns the current visible price range.
func (m *Manager) PriceRange() (min, max float64) {
	return m.state.PriceMin, m.state.PriceMax
}

// Size returns the canvas size in pixels.
func (m *Manager) Size() (width, height float64) {
	return m.state.WidthPx, m.state.HeightPx
}

// barInterval estimates the spacing between bars. Falls back to one
// minute when fewer than two bars are loaded.
func (m *Manager) barInterval() time.Duration {
	if len(m.times) < 2 {
		return time.Minute
	}

	diffs := make([]int64, 0, len(m.times)-1)
	for i := 1; i < len(m.times); i++ {
		diffs = append(diffs, m.times[i]-m.times[i-1])
	}

	// Median spacing is robust against session gaps (weekends, halts).
	sort.Slice(diffs, func(i, j int) bool { return diffs[i] < diffs[j] })
	return time.Duration(diffs[len(diffs)/2]) * time.Millisecond
}

// clampSpan bounds a visible bar span to the configured and data limits.
func (m *Manager) clampSpan(span float64) float64 {
	max := float64(m.cfg.MaxBars)
	if n := len(m.candles); n > 0 {
		max = math.Min(max, float64(n))
	}
	min := math.Min(float64(m.cfg.MinBars), max)

	return lo.Clamp(span, min, max)
}

// clampWindow shifts a window back over the data while preserving its
// span, so it never sits fully outside [0, len(candles)-1].
func (m *Manager) clampWindow(start, end float64) (float64, float64) {
	if end <= start {
		end = start + 1
	}

	n := len(m.candles)
	if n == 0 {
		return start, end
	}

	last := float64(n - 1)
	if start > last {
		shift := start - last
		start, end = start-shift, end-shift
	}
	if end < 0 {
		start, end = start-end, 0
	}

	return start, end
}
