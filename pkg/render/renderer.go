package render

import (
	"fmt"
	"math"
	"time"

	"github.com/raykavin/chartline/pkg/core"
	"github.com/raykavin/chartline/pkg/drawing"
	"github.com/raykavin/chartline/pkg/indicator"
	"github.com/raykavin/chartline/pkg/logger"
	"github.com/raykavin/chartline/pkg/viewport"
)

// Theme holds the renderer colors and pane proportions.
type Theme struct {
	Background   string
	Grid         string
	AxisText     string
	CandleUp     string
	CandleDown   string
	Wick         string
	Volume       string
	VolumeFrac   float64 // bottom fraction of the canvas used by volume bars
	OscFrac      float64 // bottom fraction used by the oscillator strip
	BodyWidthPct float64 // candle body width as a fraction of the bar slot
}

// DefaultTheme returns a dark chart theme.
func DefaultTheme() Theme {
	return Theme{
		Background:   "#131722",
		Grid:         "#1e222d",
		AxisText:     "#787b86",
		CandleUp:     "#26a69a",
		CandleDown:   "#ef5350",
		Wick:         "#787b86",
		Volume:       "#2a2e39",
		VolumeFrac:   0.12,
		OscFrac:      0.2,
		BodyWidthPct: 0.7,
	}
}

// Renderer paints a full frame: grid, candles, volume, indicators, then
// the drawing engine's scene on top.
type Renderer struct {
	theme Theme
	log   logger.Logger
}

// NewRenderer creates a renderer with the given theme.
func NewRenderer(theme Theme, log logger.Logger) *Renderer {
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{theme: theme, log: log}
}

// Draw renders one frame onto the canvas.
func (r *Renderer) Draw(cv core.Canvas, vp *viewport.Manager, eng *drawing.Engine, lines []indicator.Line) {
	cv.Clear(r.theme.Background)

	r.drawGrid(cv, vp)
	r.drawVolume(cv, vp)
	r.drawCandles(cv, vp)
	r.drawIndicators(cv, vp, lines)

	if eng != nil {
		eng.Render(cv)
	}

	r.drawAxes(cv, vp)
}

// drawGrid paints horizontal price lines at nice steps and vertical time
// lines roughly every hundred pixels.
func (r *Renderer) drawGrid(cv core.Canvas, vp *viewport.Manager) {
	w, h := vp.Size()
	state := vp.State()

	cv.SetStroke(r.theme.Grid, 1, nil)

	step := priceStep(state.PriceMax - state.PriceMin)
	if step > 0 {
		for p := math.Ceil(state.PriceMin/step) * step; p <= state.PriceMax; p += step {
			y := vp.PriceToY(p)
			cv.MoveTo(0, y)
			cv.LineTo(w, y)
			cv.Stroke()
		}
	}

	span := state.VisibleEnd - state.VisibleStart
	if span <= 0 {
		return
	}

	barStep := math.Max(1, math.Floor(span/(w/100)))
	for idx := math.Ceil(state.VisibleStart/barStep) * barStep; idx <= state.VisibleEnd; idx += barStep {
		x := vp.Transform().IndexToX(idx)
		cv.MoveTo(x, 0)
		cv.LineTo(x, h)
		cv.Stroke()
	}
}

// drawCandles paints the visible OHLC bars.
func (r *Renderer) drawCandles(cv core.Canvas, vp *viewport.Manager) {
	candles := vp.Candles()
	state := vp.State()
	tr := vp.Transform()

	slot := vp.BarWidthPx()
	body := slot * r.theme.BodyWidthPct

	first := int(math.Max(0, math.Floor(state.VisibleStart)))
	last := int(math.Min(float64(len(candles)-1), math.Ceil(state.VisibleEnd)))

	for i := first; i <= last && i >= 0; i++ {
		c := candles[i]
		x := tr.IndexToX(float64(i))

		color := r.theme.CandleUp
		if c.Close < c.Open {
			color = r.theme.CandleDown
		}

		// Wick
		cv.SetStroke(r.theme.Wick, 1, nil)
		cv.MoveTo(x, vp.PriceToY(c.High))
		cv.LineTo(x, vp.PriceToY(c.Low))
		cv.Stroke()

		// Body
		top := vp.PriceToY(math.Max(c.Open, c.Close))
		bottom := vp.PriceToY(math.Min(c.Open, c.Close))
		cv.SetFill(color)
		cv.FillRect(x-body/2, top, body, math.Max(bottom-top, 1))
	}
}

// drawVolume paints volume bars along the bottom strip.
func (r *Renderer) drawVolume(cv core.Canvas, vp *viewport.Manager) {
	visible := vp.VisibleCandles()
	if len(visible) == 0 || r.theme.VolumeFrac <= 0 {
		return
	}

	maxVolume := 0.0
	for _, c := range visible {
		maxVolume = math.Max(maxVolume, c.Volume)
	}
	if maxVolume <= 0 {
		return
	}

	_, h := vp.Size()
	strip := h * r.theme.VolumeFrac
	slot := vp.BarWidthPx()
	body := slot * r.theme.BodyWidthPct
	tr := vp.Transform()

	cv.SetFill(r.theme.Volume)
	candles := vp.Candles()
	state := vp.State()

	first := int(math.Max(0, math.Floor(state.VisibleStart)))
	last := int(math.Min(float64(len(candles)-1), math.Ceil(state.VisibleEnd)))

	for i := first; i <= last && i >= 0; i++ {
		x := tr.IndexToX(float64(i))
		barHeight := candles[i].Volume / maxVolume * strip
		cv.FillRect(x-body/2, h-barHeight, body, barHeight)
	}
}

// drawIndicators paints overlay lines against the price axis and
// non-overlay lines normalized into the oscillator strip.
func (r *Renderer) drawIndicators(cv core.Canvas, vp *viewport.Manager, lines []indicator.Line) {
	for _, line := range lines {
		if line.Overlay {
			r.drawOverlayLine(cv, vp, line)
		} else {
			r.drawOscillatorLine(cv, vp, line)
		}
	}
}

func (r *Renderer) drawOverlayLine(cv core.Canvas, vp *viewport.Manager, line indicator.Line) {
	tr := vp.Transform()
	cv.SetStroke(line.Color, 1.2, nil)

	started := false
	for i, v := range line.Values {
		if v == 0 && !started {
			continue // warm-up
		}

		x, y := tr.IndexToX(float64(i)), vp.PriceToY(v)
		if !started {
			cv.MoveTo(x, y)
			started = true
			continue
		}
		cv.LineTo(x, y)
	}

	if started {
		cv.Stroke()
	}
}

func (r *Renderer) drawOscillatorLine(cv core.Canvas, vp *viewport.Manager, line indicator.Line) {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, v := range line.Values {
		if v == 0 {
			continue
		}
		min, max = math.Min(min, v), math.Max(max, v)
	}
	if max <= min {
		return
	}

	_, h := vp.Size()
	strip := h * r.theme.OscFrac
	base := h - strip
	tr := vp.Transform()

	cv.SetStroke(line.Color, 1, nil)

	started := false
	for i, v := range line.Values {
		if v == 0 && !started {
			continue
		}

		x := tr.IndexToX(float64(i))
		y := base + (max-v)/(max-min)*strip
		if !started {
			cv.MoveTo(x, y)
			started = true
			continue
		}
		cv.LineTo(x, y)
	}

	if started {
		cv.Stroke()
	}
}

// drawAxes paints price labels along the right edge and time labels along
// the bottom.
func (r *Renderer) drawAxes(cv core.Canvas, vp *viewport.Manager) {
	w, h := vp.Size()
	state := vp.State()

	step := priceStep(state.PriceMax - state.PriceMin)
	if step > 0 {
		for p := math.Ceil(state.PriceMin/step) * step; p <= state.PriceMax; p += step {
			cv.Text(formatPrice(p, step), w-54, vp.PriceToY(p)-3, 10, r.theme.AxisText)
		}
	}

	span := state.VisibleEnd - state.VisibleStart
	if span <= 0 {
		return
	}

	barStep := math.Max(1, math.Floor(span/(w/100)))
	for idx := math.Ceil(state.VisibleStart/barStep) * barStep; idx <= state.VisibleEnd; idx += barStep {
		x := vp.Transform().IndexToX(idx)
		ts := vp.Transform().XToTime(x)
		label := time.UnixMilli(ts).UTC().Format("01-02 15:04")
		cv.Text(label, x-30, h-4, 10, r.theme.AxisText)
	}
}

// priceStep picks a 1/2/5 grid step for the given price span.
func priceStep(span float64) float64 {
	if span <= 0 {
		return 0
	}

	raw := span / 8
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	norm := raw / mag

	switch {
	case norm < 1.5:
		return mag
	case norm < 3.5:
		return 2 * mag
	case norm < 7.5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// formatPrice renders a price with a precision matching the grid step.
func formatPrice(p, step float64) string {
	decimals := 0
	for step < 1 && decimals < 8 {
		step *= 10
		decimals++
	}
	return fmt.Sprintf("%.*f", decimals, p)
}
