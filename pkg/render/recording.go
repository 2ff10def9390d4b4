// Package render paints candles, axes, indicator overlays and drawing
// objects onto a core.Canvas. Two canvases ship with it: a raster one
// producing PNG bytes and a recording one for tests.
package render

import "github.com/raykavin/chartline/pkg/core"

// Op is one recorded primitive call.
type Op struct {
	Name string
	Args []float64
	Text string
}

// RecordingCanvas implements core.Canvas by appending every primitive
// call to an op list. Tests assert against the recorded ops.
type RecordingCanvas struct {
	W   float64
	H   float64
	Ops []Op
}

// NewRecordingCanvas creates a recording canvas of the given size.
func NewRecordingCanvas(w, h float64) *RecordingCanvas {
	return &RecordingCanvas{W: w, H: h}
}

func (c *RecordingCanvas) record(name string, args ...float64) {
	c.Ops = append(c.Ops, Op{Name: name, Args: args})
}

// Size implements core.Canvas.
func (c *RecordingCanvas) Size() (float64, float64) { return c.W, c.H }

// Clear implements core.Canvas.
func (c *RecordingCanvas) Clear(color string) {
	c.Ops = append(c.Ops, Op{Name: "clear", Text: color})
}

// SetStroke implements core.Canvas.
func (c *RecordingCanvas) SetStroke(color string, width float64, dash []float64) {
	c.Ops = append(c.Ops, Op{Name: "setStroke", Args: []float64{width}, Text: color})
}

// SetFill implements core.Canvas.
func (c *RecordingCanvas) SetFill(color string) {
	c.Ops = append(c.Ops, Op{Name: "setFill", Text: color})
}

// MoveTo implements core.Canvas.
func (c *RecordingCanvas) MoveTo(x, y float64) { c.record("moveTo", x, y) }

// LineTo implements core.Canvas.
func (c *RecordingCanvas) LineTo(x, y float64) { c.record("lineTo", x, y) }

// Stroke implements core.Canvas.
func (c *RecordingCanvas) Stroke() { c.record("stroke") }

// Fill implements core.Canvas.
func (c *RecordingCanvas) Fill() { c.record("fill") }

// Circle implements core.Canvas.
func (c *RecordingCanvas) Circle(x, y, radius float64) { c.record("circle", x, y, radius) }

// FillCircle implements core.Canvas.
func (c *RecordingCanvas) FillCircle(x, y, radius float64) { c.record("fillCircle", x, y, radius) }

// Rect implements core.Canvas.
func (c *RecordingCanvas) Rect(x, y, w, h float64) { c.record("rect", x, y, w, h) }

// FillRect implements core.Canvas.
func (c *RecordingCanvas) FillRect(x, y, w, h float64) { c.record("fillRect", x, y, w, h) }

// Text implements core.Canvas.
func (c *RecordingCanvas) Text(body string, x, y, size float64, color string) {
	c.Ops = append(c.Ops, Op{Name: "text", Args: []float64{x, y, size}, Text: body})
}

// CountOps returns how many ops with the given name were recorded.
func (c *RecordingCanvas) CountOps(name string) int {
	count := 0
	for _, op := range c.Ops {
		if op.Name == name {
			count++
		}
	}
	return count
}

var _ core.Canvas = (*RecordingCanvas)(nil)
