package render

import (
	"testing"
	"time"

	"github.com/raykavin/chartline/pkg/core"
	"github.com/raykavin/chartline/pkg/drawing"
	"github.com/raykavin/chartline/pkg/indicator"
	"github.com/raykavin/chartline/pkg/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderFixture(t *testing.T, candleCount int) (*viewport.Manager, *drawing.Engine) {
	t.Helper()

	base := time.Unix(1_700_000_000, 0).UTC()
	candles := make([]core.Candle, candleCount)
	for i := range candles {
		price := 100 + float64(i%10)
		candles[i] = core.Candle{
			Pair: "X", Time: base.Add(time.Duration(i) * time.Minute),
			Open: price, High: price + 2, Low: price - 2, Close: price + 1,
			Volume: float64(1000 + i), Complete: true,
		}
	}

	vp := viewport.New(viewport.DefaultConfig(), nil)
	vp.SetCanvasSize(1000, 600)
	vp.SetData(candles)

	return vp, drawing.NewEngine(vp, drawing.DefaultConfig())
}

func TestRenderer_DrawFullFrame(t *testing.T) {
	vp, eng := renderFixture(t, 60)
	cv := NewRecordingCanvas(1000, 600)

	NewRenderer(DefaultTheme(), nil).Draw(cv, vp, eng, nil)

	// Background first.
	require.NotEmpty(t, cv.Ops)
	assert.Equal(t, "clear", cv.Ops[0].Name)
	assert.Equal(t, DefaultTheme().Background, cv.Ops[0].Text)

	// One body fill per visible candle plus one volume bar each.
	assert.GreaterOrEqual(t, cv.CountOps("fillRect"), 60)

	// Axis labels on both axes.
	assert.Greater(t, cv.CountOps("text"), 4)
}

func TestRenderer_DrawsSceneOnTop(t *testing.T) {
	vp, eng := renderFixture(t, 60)

	times := vp.BarTimes()
	require.True(t, eng.AddObject(&drawing.Object{
		Type:    drawing.ToolTrendline,
		Pane:    drawing.PanePrice,
		Points:  []core.WorldPoint{{T: times[0], P: 100}, {T: times[59], P: 108}},
		Style:   drawing.DefaultStyle(),
		Visible: true,
	}))

	bare := NewRecordingCanvas(1000, 600)
	NewRenderer(DefaultTheme(), nil).Draw(bare, vp, nil, nil)

	full := NewRecordingCanvas(1000, 600)
	NewRenderer(DefaultTheme(), nil).Draw(full, vp, eng, nil)

	assert.Greater(t, full.CountOps("stroke"), bare.CountOps("stroke"))
}

func TestRenderer_DrawsIndicatorLines(t *testing.T) {
	vp, eng := renderFixture(t, 60)

	candles := vp.Candles()
	var lines []indicator.Line
	lines = append(lines, indicator.SMA{Period: 5}.Compute(candles)...)
	lines = append(lines, indicator.RSI{Period: 14}.Compute(candles)...)
	require.Len(t, lines, 2)

	bare := NewRecordingCanvas(1000, 600)
	NewRenderer(DefaultTheme(), nil).Draw(bare, vp, eng, nil)

	full := NewRecordingCanvas(1000, 600)
	NewRenderer(DefaultTheme(), nil).Draw(full, vp, eng, lines)

	assert.Greater(t, full.CountOps("lineTo"), bare.CountOps("lineTo"))
}

func TestRenderer_EmptyData(t *testing.T) {
	vp := viewport.New(viewport.DefaultConfig(), nil)
	vp.SetCanvasSize(1000, 600)
	eng := drawing.NewEngine(vp, drawing.DefaultConfig())

	cv := NewRecordingCanvas(1000, 600)
	NewRenderer(DefaultTheme(), nil).Draw(cv, vp, eng, nil)

	// No candles: just the cleared background and whatever grid fits.
	assert.Equal(t, 1, cv.CountOps("clear"))
	assert.Zero(t, cv.CountOps("fillRect"))
}

func TestPriceStep(t *testing.T) {
	assert.InDelta(t, 1, priceStep(10), 1e-9)
	assert.InDelta(t, 5, priceStep(33), 1e-9)
	assert.InDelta(t, 0.2, priceStep(2), 1e-9)
	assert.Zero(t, priceStep(0))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "105", formatPrice(105, 5))
	assert.Equal(t, "105.25", formatPrice(105.25, 0.05))
	assert.Equal(t, "0.5000", formatPrice(0.5, 0.0005))
}
