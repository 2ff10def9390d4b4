package core

// Canvas is the primitive 2D raster sink the engine draws into. The engine
// issues only primitive calls; widget-level drawing belongs to the caller.
// Coordinates are pixels with the origin at the top-left corner.
type Canvas interface {
	// Size returns the drawable area in pixels.
	Size() (width, height float64)

	// Clear fills the whole surface with the given color.
	Clear(color string)

	// SetStroke configures the pen for subsequent path strokes. A nil or
	// empty dash slice means a solid line.
	SetStroke(color string, width float64, dash []float64)

	// SetFill configures the brush for subsequent fills.
	SetFill(color string)

	MoveTo(x, y float64)
	LineTo(x, y float64)

	// Stroke draws the current path with the configured pen and resets it.
	Stroke()

	// Fill closes and fills the current path with the configured brush and
	// resets it.
	Fill()

	// Circle strokes a circle outline.
	Circle(x, y, radius float64)

	// FillCircle fills a circle.
	FillCircle(x, y, radius float64)

	// Rect strokes a rectangle outline.
	Rect(x, y, width, height float64)

	// FillRect fills a rectangle.
	FillRect(x, y, width, height float64)

	// Text draws a string with its baseline starting at (x, y).
	Text(body string, x, y, size float64, color string)
}
