package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"
	"github.com/raykavin/chartline/pkg/core"
)

// RSI is the relative strength index oscillator, drawn in the oscillator
// strip rather than on the price pane.
type RSI struct {
	Period int
	Color  string
}

// Name implements Indicator.
func (r RSI) Name() string { return fmt.Sprintf("RSI(%d)", r.Period) }

// Compute implements Indicator.
func (r RSI) Compute(candles []core.Candle) []Line {
	if !enoughData(candles, r.Period) {
		return nil
	}

	return []Line{{
		Name:   r.Name(),
		Color:  orDefault(r.Color, "#26a69a"),
		Style:  "line",
		Values: talib.Rsi(closes(candles), r.Period),
	}}
}
