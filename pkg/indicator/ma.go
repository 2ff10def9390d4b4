package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"
	"github.com/raykavin/chartline/pkg/core"
)

// SMA is a simple moving average overlay.
type SMA struct {
	Period int
	Color  string
}

// Name implements Indicator.
func (s SMA) Name() string { return fmt.Sprintf("SMA(%d)", s.Period) }

// Compute implements Indicator.
func (s SMA) Compute(candles []core.Candle) []Line {
	if !enoughData(candles, s.Period) {
		return nil
	}

	return []Line{{
		Name:    s.Name(),
		Color:   orDefault(s.Color, "#ff9800"),
		Style:   "line",
		Overlay: true,
		Values:  talib.Sma(closes(candles), s.Period),
	}}
}

// EMA is an exponential moving average overlay.
type EMA struct {
	Period int
	Color  string
}

// Name implements Indicator.
func (e EMA) Name() string { return fmt.Sprintf("EMA(%d)", e.Period) }

// Compute implements Indicator.
func (e EMA) Compute(candles []core.Candle) []Line {
	if !enoughData(candles, e.Period) {
		return nil
	}

	return []Line{{
		Name:    e.Name(),
		Color:   orDefault(e.Color, "#7b1fa2"),
		Style:   "line",
		Overlay: true,
		Values:  talib.Ema(closes(candles), e.Period),
	}}
}

func orDefault(color, fallback string) string {
	if color == "" {
		return fallback
	}
	return color
}
