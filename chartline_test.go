package chartline

import (
	"math"
	"testing"
	"time"

	"github.com/raykavin/chartline/pkg/core"
	"github.com/raykavin/chartline/pkg/drawing"
	"github.com/raykavin/chartline/pkg/indicator"
	"github.com/raykavin/chartline/pkg/logger"
	"github.com/raykavin/chartline/pkg/render"
	"github.com/raykavin/chartline/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChart(t *testing.T, options ...Option) *Chart {
	t.Helper()

	base := time.Unix(1_700_000_000, 0).UTC()
	candles := make([]core.Candle, 120)
	for i := range candles {
		price := 100 + float64(i%10)
		candles[i] = core.Candle{
			Pair: "BTCUSDT", Time: base.Add(time.Duration(i) * time.Minute),
			Open: price, High: price + 2, Low: price - 2, Close: price + 1,
			Volume: 1000, Complete: true,
		}
	}

	chart := New(options...)
	chart.SetCanvasSize(1000, 600)
	chart.SetCandles(candles)
	return chart
}

func TestChart_DrawGesture(t *testing.T) {
	chart := testChart(t)
	chart.SetTool(drawing.ToolTrendline)

	chart.PointerDown(200, 300)
	chart.PointerMove(600, 200)
	chart.PointerUp(600, 200)

	require.Equal(t, 1, chart.Engine().ObjectCount())
	assert.Equal(t, drawing.ToolTrendline, chart.Engine().ActiveTool())
}

func TestChart_UnclaimedDragPansViewport(t *testing.T) {
	chart := testChart(t)

	before := chart.Viewport().State()

	// Select tool over empty space: the drag becomes a pan to the left.
	chart.PointerDown(500, 300)
	chart.PointerMove(560, 300)
	chart.PointerUp(560, 300)

	after := chart.Viewport().State()
	assert.Less(t, after.VisibleStart, before.VisibleStart)
	assert.InDelta(t, before.VisibleEnd-before.VisibleStart,
		after.VisibleEnd-after.VisibleStart, 1e-9)
}

func TestChart_DrawingBlocksPanning(t *testing.T) {
	chart := testChart(t)
	chart.SetTool(drawing.ToolTrendline)

	before := chart.Viewport().State()

	chart.PointerDown(200, 300)
	chart.PointerMove(600, 200)
	chart.PointerUp(600, 200)

	after := chart.Viewport().State()
	assert.InDelta(t, before.VisibleStart, after.VisibleStart, 1e-9)
}

func TestChart_UndoRedo(t *testing.T) {
	chart := testChart(t)
	chart.SetTool(drawing.ToolHLine)

	chart.PointerDown(400, 250)
	chart.PointerUp(400, 250)
	require.Equal(t, 1, chart.Engine().ObjectCount())

	require.True(t, chart.Undo())
	assert.Zero(t, chart.Engine().ObjectCount())

	require.True(t, chart.Redo())
	assert.Equal(t, 1, chart.Engine().ObjectCount())

	assert.False(t, chart.Redo())
}

func TestChart_ExportImport(t *testing.T) {
	chart := testChart(t)
	chart.SetTool(drawing.ToolHLine)
	chart.PointerDown(400, 250)
	chart.PointerUp(400, 250)

	data, err := chart.ExportJSON()
	require.NoError(t, err)

	other := testChart(t)
	require.True(t, other.ImportJSON(data))
	assert.Equal(t, 1, other.Engine().ObjectCount())

	assert.False(t, other.ImportJSON([]byte(`{"objects":{}}`)))
	assert.Equal(t, 1, other.Engine().ObjectCount())
}

func TestChart_LayoutStoreRoundTrip(t *testing.T) {
	store, err := storage.NewFromMemory()
	require.NoError(t, err)
	defer store.Close()

	chart := testChart(t, WithLayoutStore(store))
	chart.SetTool(drawing.ToolHLine)
	chart.PointerDown(400, 250)
	chart.PointerUp(400, 250)

	require.NoError(t, chart.SaveLayout("session"))

	fresh := testChart(t, WithLayoutStore(store))
	require.NoError(t, fresh.LoadLayout("session"))
	assert.Equal(t, 1, fresh.Engine().ObjectCount())

	require.ErrorIs(t, fresh.LoadLayout("missing"), storage.ErrLayoutNotFound)
}

func TestChart_LayoutWithoutStore(t *testing.T) {
	chart := testChart(t)
	require.ErrorIs(t, chart.SaveLayout("x"), ErrNoLayoutStore)
	require.ErrorIs(t, chart.LoadLayout("x"), ErrNoLayoutStore)
}

func TestChart_RenderTo(t *testing.T) {
	chart := testChart(t, WithIndicators(indicator.SMA{Period: 9}))
	chart.SetTool(drawing.ToolTrendline)
	chart.PointerDown(200, 300)
	chart.PointerMove(600, 200)
	chart.PointerUp(600, 200)

	cv := render.NewRecordingCanvas(1000, 600)
	chart.RenderTo(cv)

	assert.Equal(t, 1, cv.CountOps("clear"))
	assert.Greater(t, cv.CountOps("fillRect"), 0)
	// Selection-free frame still draws the committed trendline.
	assert.Greater(t, cv.CountOps("stroke"), 0)
}

func TestChart_SnapDisabledOption(t *testing.T) {
	chart := testChart(t, WithSnapDisabled())
	chart.SetTool(drawing.ToolHLine)

	chart.PointerDown(400, 251)
	chart.PointerUp(400, 251)

	require.Equal(t, 1, chart.Engine().ObjectCount())
	// The anchor price is the raw pointer position, not a grid line.
	raw := chart.Viewport().YToPrice(251)
	assert.InDelta(t, raw, chart.Engine().Objects()[0].Points[0].P, 1e-9)
}

func TestChart_EscapeAndDelete(t *testing.T) {
	chart := testChart(t)
	chart.SetTool(drawing.ToolTrendline)

	chart.PointerDown(200, 300)
	chart.Escape()
	chart.PointerUp(200, 300)
	assert.Zero(t, chart.Engine().ObjectCount())

	chart.SetTool(drawing.ToolHLine)
	chart.PointerDown(400, 250)
	chart.PointerUp(400, 250)
	id := chart.Engine().Objects()[0].ID

	chart.Engine().SelectObject(id)
	require.True(t, chart.DeleteSelected())
	assert.Zero(t, chart.Engine().ObjectCount())
}

func TestChart_NonFinitePointerInput(t *testing.T) {
	chart := testChart(t)
	chart.SetTool(drawing.ToolTrendline)

	require.NotPanics(t, func() {
		chart.PointerDown(math.NaN(), 300)
		chart.PointerMove(math.Inf(1), math.NaN())
		chart.PointerUp(600, 200)
	})

	state := chart.Viewport().State()
	require.False(t, math.IsNaN(state.VisibleStart) || math.IsNaN(state.VisibleEnd))
	require.Less(t, state.VisibleStart, state.VisibleEnd)

	// Anything the gesture committed carries sanitized coordinates.
	for _, obj := range chart.Engine().Objects() {
		for _, p := range obj.Points {
			assert.False(t, math.IsNaN(p.P) || math.IsInf(p.P, 0))
			assert.Greater(t, p.T, int64(0))
		}
	}
}

type countingLogger struct {
	logger.Logger
	warns *int
}

func (l countingLogger) WithField(string, any) logger.Logger { return l }
func (l countingLogger) Warn(...any) { *l.warns++ }

func TestChart_EngineConfigLoggerWins(t *testing.T) {
	warns := 0
	cfg := drawing.DefaultConfig()
	cfg.Log = countingLogger{Logger: logger.Nop(), warns: &warns}

	chart := testChart(t, WithEngineConfig(cfg), WithLogger(logger.Nop()))

	// An unknown tool id is warned about through the engine's own logger.
	chart.SetTool(drawing.ToolID("bogus"))
	assert.Equal(t, 1, warns)
}
