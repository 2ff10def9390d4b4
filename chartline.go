// Package chartline wires the viewport, the drawing engine, the indicator
// service and the renderer into a single chart. All input and mutation
// goes through one mutex, so the scene graph has exactly one writer at a
// time even when the host is multi-threaded.
package chartline

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/raykavin/chartline/pkg/core"
	"github.com/raykavin/chartline/pkg/drawing"
	"github.com/raykavin/chartline/pkg/indicator"
	"github.com/raykavin/chartline/pkg/logger"
	"github.com/raykavin/chartline/pkg/render"
	"github.com/raykavin/chartline/pkg/storage"
	"github.com/raykavin/chartline/pkg/viewport"
)

// ErrNoLayoutStore is returned by layout operations on a chart built
// without WithLayoutStore.
var ErrNoLayoutStore = errors.New("no layout store configured")

// ErrImportRejected is returned when a stored layout fails to import.
var ErrImportRejected = errors.New("layout import rejected")

// Chart is the top-level charting facade.
type Chart struct {
	mu sync.Mutex

	log        logger.Logger
	viewport   *viewport.Manager
	engine     *drawing.Engine
	renderer   *render.Renderer
	indicators []indicator.Indicator
	store      *storage.LayoutStore

	engineCfg   drawing.Config
	viewportCfg viewport.Config
	theme       render.Theme

	panning  bool
	lastPanX float64
}

// New creates a chart with the provided options applied.
func New(options ...Option) *Chart {
	chart := &Chart{
		log:         logger.Nop(),
		engineCfg:   drawing.DefaultConfig(),
		viewportCfg: viewport.DefaultConfig(),
		theme:       render.DefaultTheme(),
	}

	for _, option := range options {
		option(chart)
	}

	// A Log set through WithEngineConfig wins over the chart logger.
	if chart.engineCfg.Log == nil {
		chart.engineCfg.Log = chart.log
	}
	chart.viewport = viewport.New(chart.viewportCfg, chart.log)
	chart.engine = drawing.NewEngine(chart.viewport, chart.engineCfg)
	chart.renderer = render.NewRenderer(chart.theme, chart.log)

	return chart
}

// Engine exposes the drawing engine, e.g. for event registration.
func (c *Chart) Engine() *drawing.Engine { return c.engine }

// Viewport exposes the viewport manager.
func (c *Chart) Viewport() *viewport.Manager { return c.viewport }

// SetCandles replaces the chart data.
func (c *Chart) SetCandles(candles []core.Candle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport.SetData(candles)
}

// SetCanvasSize updates the pixel dimensions of the render target.
func (c *Chart) SetCanvasSize(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport.SetCanvasSize(width, height)
}

// ApplyTimeframe shows the most recent bars for a period such as "1M".
func (c *Chart) ApplyTimeframe(period string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport.ApplyTimeframe(period)
}

// SetTool activates a drawing tool; unknown ids fall back to select.
func (c *Chart) SetTool(id drawing.ToolID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.SetTool(id)
}

// PointerDown feeds a pointer press. When the drawing engine does not
// claim the input, the gesture becomes a drag-to-pan.
func (c *Chart) PointerDown(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine.PointerDown(x, y) {
		return
	}

	if c.engine.BeginPan() {
		c.panning = true
		c.lastPanX = x
	}
}

// PointerMove feeds a pointer move, panning the viewport when the engine
// leaves the input unclaimed.
func (c *Chart) PointerMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine.PointerMove(x, y) {
		return
	}

	if c.panning {
		barWidth := c.viewport.BarWidthPx()
		if barWidth > 0 {
			c.viewport.PanBy((c.lastPanX - x) / barWidth)
		}
		c.lastPanX = x
	}
}

// PointerUp finishes a gesture.
func (c *Chart) PointerUp(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine.PointerUp(x, y) {
		return
	}

	if c.panning {
		c.panning = false
		c.engine.EndPan()
	}
}

// WheelZoom zooms anchored at the pointer position.
func (c *Chart) WheelZoom(pixelX, deltaY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport.WheelZoom(pixelX, deltaY)
}

// Escape cancels drafts, selection or the active tool, in that order.
func (c *Chart) Escape() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.Escape()
}

// DeleteSelected removes the selected annotation.
func (c *Chart) DeleteSelected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.DeleteSelected()
}

// Undo reverts the latest committed mutation.
func (c *Chart) Undo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Undo()
}

// Redo reapplies the latest undone mutation.
func (c *Chart) Redo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Redo()
}

// ExportJSON returns the drawing layout wire format.
func (c *Chart) ExportJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.ExportJSON()
}

// ImportJSON replaces the drawing layout; returns false and leaves the
// scene untouched on a malformed payload.
func (c *Chart) ImportJSON(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.ImportObjects(data)
}

// SaveLayout persists the current drawings under a name. Requires a
// layout store configured via WithLayoutStore.
func (c *Chart) SaveLayout(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return ErrNoLayoutStore
	}
	return c.store.Save(name, c.engine.ExportObjects())
}

// LoadLayout restores a named layout into the chart.
func (c *Chart) LoadLayout(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		return ErrNoLayoutStore
	}

	data, err := c.store.LoadJSON(name)
	if err != nil {
		return err
	}

	if !c.engine.ImportObjects(data) {
		return ErrImportRejected
	}
	return nil
}

// RenderTo paints one frame onto the canvas.
func (c *Chart) RenderTo(cv core.Canvas) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, h := cv.Size()
	c.viewport.SetCanvasSize(w, h)

	lines := c.computeIndicators()
	c.renderer.Draw(cv, c.viewport, c.engine, lines)

	if changed := c.engine.DirtyObjectIDs(); len(changed) > 0 {
		c.log.WithField("objects", changed).Trace("rendered changed annotations")
	}
}

// computeIndicators evaluates the configured indicators over the data.
func (c *Chart) computeIndicators() []indicator.Line {
	candles := c.viewport.Candles()
	if len(candles) == 0 {
		return nil
	}

	var lines []indicator.Line
	for _, ind := range c.indicators {
		lines = append(lines, ind.Compute(candles)...)
	}
	return lines
}
