// Package drawing implements the annotation engine of a chart: the scene
// graph of drawing objects, the interaction state machine, hit testing,
// magnetic snapping, bounded undo/redo, and the persistence wire format.
package drawing

import (
	"github.com/google/uuid"
	"github.com/raykavin/chartline/pkg/core"
)

// ToolID identifies a drawing tool. The set is closed; unknown ids fall
// back to ToolSelect.
type ToolID string

const (
	ToolSelect    ToolID = "select"
	ToolTrendline ToolID = "trendline"
	ToolRay       ToolID = "ray"
	ToolHLine     ToolID = "hline"
	ToolVLine     ToolID = "vline"
	ToolRect      ToolID = "rect"
	ToolEllipse   ToolID = "ellipse"
	ToolFib       ToolID = "fib"
	ToolChannel   ToolID = "channel"
	ToolText      ToolID = "text"
)

// ToolIDs lists every drawing tool, without ToolSelect.
func ToolIDs() []ToolID {
	return []ToolID{
		ToolTrendline, ToolRay, ToolHLine, ToolVLine, ToolRect,
		ToolEllipse, ToolFib, ToolChannel, ToolText,
	}
}

// PaneID names the chart pane an object belongs to.
type PaneID string

const (
	PanePrice  PaneID = "price"
	PaneVolume PaneID = "volume"
	PaneFull   PaneID = "full"
)

// LineStyle is the stroke pattern of an object outline.
type LineStyle string

const (
	LineSolid LineStyle = "solid"
	LineDash  LineStyle = "dash"
	LineDot   LineStyle = "dot"
)

// Dash returns the dash pattern for the style, nil for solid lines.
func (s LineStyle) Dash() []float64 {
	switch s {
	case LineDash:
		return []float64{8, 5}
	case LineDot:
		return []float64{2, 4}
	default:
		return nil
	}
}

// Mode is the engine interaction state. Exactly one mode is active at a
// time; it is never persisted.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeEditing
	ModeResizing
	ModePanning
)

// String implements fmt.Stringer for log output.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDrawing:
		return "drawing"
	case ModeEditing:
		return "editing"
	case ModeResizing:
		return "resizing"
	case ModePanning:
		return "panning"
	default:
		return "unknown"
	}
}

// Style holds the visual attributes of a drawing object.
type Style struct {
	Color     string    `json:"color"`
	LineWidth float64   `json:"lineWidth"`
	LineStyle LineStyle `json:"lineStyle"`
	FillColor string    `json:"fillColor,omitempty"`
	Opacity   float64   `json:"opacity"`
	FontSize  float64   `json:"fontSize,omitempty"`
	FontColor string    `json:"fontColor,omitempty"`
}

// DefaultStyle returns the style applied to newly drawn objects.
func DefaultStyle() Style {
	return Style{
		Color:     "#2962ff",
		LineWidth: 1.5,
		LineStyle: LineSolid,
		Opacity:   1,
		FontSize:  12,
		FontColor: "#2962ff",
	}
}

// Object is one annotation in the scene graph. It stores only world
// coordinates; pixel positions are derived per frame from the viewport.
type Object struct {
	ID      string            `json:"id"`
	Type    ToolID            `json:"type"`
	Pane    PaneID            `json:"paneId"`
	Points  []core.WorldPoint `json:"points"`
	Style   Style             `json:"style"`
	Locked  bool              `json:"locked"`
	Visible bool              `json:"visible"`
	ZIndex  int               `json:"zIndex"`
	Meta    map[string]any    `json:"meta,omitempty"`
}

// newObject builds a draft object of the given type starting at a point.
func newObject(kind ToolID, at core.WorldPoint) *Object {
	return &Object{
		ID:      uuid.NewString(),
		Type:    kind,
		Pane:    PanePrice,
		Points:  []core.WorldPoint{at},
		Style:   DefaultStyle(),
		Visible: true,
		Meta:    map[string]any{},
	}
}

// Translate shifts every point of the object by (dt, dp).
func (o *Object) Translate(dt int64, dp float64) {
	for i := range o.Points {
		o.Points[i].T += dt
		o.Points[i].P += dp
	}
}

// MetaString returns a string meta value, or empty when absent.
func (o *Object) MetaString(key string) string {
	if o.Meta == nil {
		return ""
	}
	if s, ok := o.Meta[key].(string); ok {
		return s
	}
	return ""
}

// MetaFloat returns a numeric meta value, or the fallback when absent.
func (o *Object) MetaFloat(key string, fallback float64) float64 {
	if o.Meta == nil {
		return fallback
	}
	if f, ok := o.Meta[key].(float64); ok {
		return f
	}
	return fallback
}

// CoordinateSpace is the engine's view of the chart viewport: the
// bidirectional world<->screen mapping plus the axis context needed for
// snapping. The viewport package satisfies it.
type CoordinateSpace interface {
	WorldToScreen(core.WorldPoint) core.ScreenPoint
	ScreenToWorld(core.ScreenPoint) core.WorldPoint
	BarTimes() []int64
	PriceRange() (min, max float64)
	Size() (width, height float64)
}
