package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"
	"github.com/raykavin/chartline/pkg/core"
)

// MACD is the moving average convergence/divergence oscillator.
type MACD struct {
	Fast   int
	Slow   int
	Signal int
}

// Name implements Indicator.
func (m MACD) Name() string { return fmt.Sprintf("MACD(%d,%d,%d)", m.Fast, m.Slow, m.Signal) }

// Compute implements Indicator.
func (m MACD) Compute(candles []core.Candle) []Line {
	if !enoughData(candles, m.Slow+m.Signal) {
		return nil
	}

	macd, signal, hist := talib.Macd(closes(candles), m.Fast, m.Slow, m.Signal)

	return []Line{
		{Name: m.Name(), Color: "#2962ff", Style: "line", Values: macd},
		{Name: "Signal", Color: "#ff6d00", Style: "line", Values: signal},
		{Name: "Histogram", Color: "#b0bec5", Style: "histogram", Values: hist},
	}
}
