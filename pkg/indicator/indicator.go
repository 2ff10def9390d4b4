// Package indicator computes overlay series from candles for the chart
// renderer. Values are aligned to bar indices; warm-up positions hold
// zero, the way talib reports them, and are skipped at draw time.
package indicator

import "github.com/raykavin/chartline/pkg/core"

// Line is one named series produced by an indicator, aligned index-for-
// index with the input candles.
type Line struct {
	Name    string
	Color   string
	Style   string // "line" or "histogram"
	Overlay bool   // drawn on the price pane when true, in the oscillator strip otherwise
	Values  []float64
}

// Indicator computes one or more lines from a candle sequence. The input
// is read-only.
type Indicator interface {
	Name() string
	Compute(candles []core.Candle) []Line
}

// closes extracts the close series.
func closes(candles []core.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// enoughData reports whether the candle count covers the warm-up period.
func enoughData(candles []core.Candle, period int) bool {
	return len(candles) > period && period > 0
}
