package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"github.com/raykavin/chartline/pkg/core"
	chart "github.com/wcharczuk/go-chart/v2"
	chartdraw "github.com/wcharczuk/go-chart/v2/drawing"
)

// ImageCanvas implements core.Canvas on top of go-chart's raster
// renderer and saves the result as PNG.
type ImageCanvas struct {
	r      chart.Renderer
	font   *truetype.Font
	width  float64
	height float64
}

// NewImageCanvas allocates a raster surface of the given pixel size.
func NewImageCanvas(width, height int) (*ImageCanvas, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, errors.Wrap(err, "allocating raster surface")
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, errors.Wrap(err, "loading default font")
	}

	return &ImageCanvas{
		r:      r,
		font:   font,
		width:  float64(width),
		height: float64(height),
	}, nil
}

// Size implements core.Canvas.
func (c *ImageCanvas) Size() (float64, float64) { return c.width, c.height }

// Clear implements core.Canvas.
func (c *ImageCanvas) Clear(color string) {
	c.r.SetFillColor(parseColor(color))
	c.r.MoveTo(0, 0)
	c.r.LineTo(int(c.width), 0)
	c.r.LineTo(int(c.width), int(c.height))
	c.r.LineTo(0, int(c.height))
	c.r.Close()
	c.r.Fill()
}

// SetStroke implements core.Canvas.
func (c *ImageCanvas) SetStroke(color string, width float64, dash []float64) {
	c.r.SetStrokeColor(parseColor(color))
	c.r.SetStrokeWidth(width)
	c.r.SetStrokeDashArray(dash)
}

// SetFill implements core.Canvas.
func (c *ImageCanvas) SetFill(color string) {
	c.r.SetFillColor(parseColor(color))
}

// MoveTo implements core.Canvas.
func (c *ImageCanvas) MoveTo(x, y float64) { c.r.MoveTo(int(x), int(y)) }

// LineTo implements core.Canvas.
func (c *ImageCanvas) LineTo(x, y float64) { c.r.LineTo(int(x), int(y)) }

// Stroke implements core.Canvas.
func (c *ImageCanvas) Stroke() { c.r.Stroke() }

// Fill implements core.Canvas.
func (c *ImageCanvas) Fill() {
	c.r.Close()
	c.r.Fill()
}

// Circle implements core.Canvas.
func (c *ImageCanvas) Circle(x, y, radius float64) {
	c.r.Circle(radius, int(x), int(y))
	c.r.Stroke()
}

// FillCircle implements core.Canvas.
func (c *ImageCanvas) FillCircle(x, y, radius float64) {
	c.r.Circle(radius, int(x), int(y))
	c.r.Fill()
}

// Rect implements core.Canvas.
func (c *ImageCanvas) Rect(x, y, w, h float64) {
	c.tracePath(x, y, w, h)
	c.r.Stroke()
}

// FillRect implements core.Canvas.
func (c *ImageCanvas) FillRect(x, y, w, h float64) {
	c.tracePath(x, y, w, h)
	c.r.Fill()
}

func (c *ImageCanvas) tracePath(x, y, w, h float64) {
	c.r.MoveTo(int(x), int(y))
	c.r.LineTo(int(x+w), int(y))
	c.r.LineTo(int(x+w), int(y+h))
	c.r.LineTo(int(x), int(y+h))
	c.r.Close()
}

// Text implements core.Canvas.
func (c *ImageCanvas) Text(body string, x, y, size float64, color string) {
	if body == "" {
		return
	}

	c.r.SetFont(c.font)
	c.r.SetFontSize(size)
	c.r.SetFontColor(parseColor(color))
	c.r.Text(body, int(x), int(y))
}

// SavePNG writes the rendered image.
func (c *ImageCanvas) SavePNG(w io.Writer) error {
	return errors.Wrap(c.r.Save(w), "saving png")
}

var _ core.Canvas = (*ImageCanvas)(nil)

// parseColor converts "#RRGGBB" or "#RRGGBBAA" into a drawing color.
// Unparseable strings come out black, which keeps rendering going.
func parseColor(s string) chartdraw.Color {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return chartdraw.Color{A: 255}
	}

	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return chartdraw.Color{A: 255}
	}

	if len(hex) == 8 {
		return chartdraw.Color{
			R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v),
		}
	}
	return chartdraw.Color{
		R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255,
	}
}
