package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"
	"github.com/raykavin/chartline/pkg/core"
)

// BollingerBands draws the upper, middle and lower bands on the price
// pane.
type BollingerBands struct {
	Period    int
	Deviation float64
}

// Name implements Indicator.
func (b BollingerBands) Name() string { return fmt.Sprintf("BB(%d,%.1f)", b.Period, b.Deviation) }

// Compute implements Indicator.
func (b BollingerBands) Compute(candles []core.Candle) []Line {
	if !enoughData(candles, b.Period) {
		return nil
	}

	upper, middle, lower := talib.BBands(closes(candles), b.Period, b.Deviation, b.Deviation, talib.SMA)

	return []Line{
		{Name: b.Name() + " Upper", Color: "#78909c", Style: "line", Overlay: true, Values: upper},
		{Name: b.Name() + " Middle", Color: "#b0bec5", Style: "line", Overlay: true, Values: middle},
		{Name: b.Name() + " Lower", Color: "#78909c", Style: "line", Overlay: true, Values: lower},
	}
}
