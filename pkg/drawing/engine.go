package drawing

import (
	"math"
	"time"

	"github.com/StudioSol/set"
	"github.com/raykavin/chartline/pkg/core"
	"github.com/raykavin/chartline/pkg/logger"
)

// Engine owns the scene graph and the interaction state machine. It is
// single-writer: all mutation happens synchronously inside the input
// handlers, and a multi-threaded host must serialize calls (the chart
// facade does this with a mutex).
type Engine struct {
	cfg    Config
	log    logger.Logger
	space  CoordinateSpace
	events Events

	objects []*Object
	history *history
	dirty   *set.LinkedHashSetString
	nextZ   int

	mode       Mode
	activeTool ToolID
	draft      *Object
	selectedID string

	dragStartWorld core.WorldPoint
	resizeIndex    int
	gestureMoved   bool
}

func newDirtySet() *set.LinkedHashSetString { return set.NewLinkedHashSetString() }

// NewEngine creates a drawing engine bound to a coordinate space.
func NewEngine(space CoordinateSpace, cfg Config) *Engine {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	if cfg.HistoryDepth < 1 {
		cfg.HistoryDepth = DefaultConfig().HistoryDepth
	}
	if cfg.MaxObjects < 1 {
		cfg.MaxObjects = DefaultConfig().MaxObjects
	}

	return &Engine{
		cfg:        cfg,
		log:        cfg.Log,
		space:      space,
		history:    newHistory(cfg.HistoryDepth),
		dirty:      newDirtySet(),
		mode:       ModeIdle,
		activeTool: ToolSelect,
	}
}

// Events exposes the callback registry.
func (e *Engine) Events() *Events { return &e.events }

// Mode returns the current interaction mode.
func (e *Engine) Mode() Mode { return e.mode }

// ActiveTool returns the active tool id.
func (e *Engine) ActiveTool() ToolID { return e.activeTool }

// CanUndo reports whether an undo step is available.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether a redo step is available.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// SetTool activates a tool. Unknown ids fall back to select; this is a
// local recovery, never an error.
func (e *Engine) SetTool(id ToolID) {
	if id != ToolSelect && toolFor(id) == nil {
		e.log.WithField("tool", id).Warn("unknown tool id, falling back to select")
		id = ToolSelect
	}
	if id == e.activeTool {
		return
	}

	e.discardDraft()
	e.activeTool = id
	e.events.emitToolChanged(id)
}

// PointerDown feeds a pointer press. The return value reports whether the
// engine claimed the input; when false the caller is free to start a pan.
func (e *Engine) PointerDown(x, y float64) bool {
	at := core.ScreenPoint{X: x, Y: y}

	if e.activeTool != ToolSelect {
		tool := toolFor(e.activeTool)
		world := e.snapPoint(e.sanitizePoint(e.space.ScreenToWorld(at)), nil)

		e.draft = tool.Start(world)
		e.mode = ModeDrawing
		e.invalidate()
		return true
	}

	if idx := e.handleAt(at); idx >= 0 {
		e.mode = ModeResizing
		e.resizeIndex = idx
		e.gestureMoved = false
		return true
	}

	if obj := e.objectAt(at); obj != nil {
		e.SelectObject(obj.ID)
		e.mode = ModeEditing
		e.dragStartWorld = e.space.ScreenToWorld(at)
		e.gestureMoved = false
		return true
	}

	e.SelectObject("")
	return false
}

// PointerMove feeds a pointer move. Returns whether the engine claimed
// the input; while drawing the viewport must not pan on the same move.
func (e *Engine) PointerMove(x, y float64) bool {
	at := core.ScreenPoint{X: x, Y: y}

	switch e.mode {
	case ModeDrawing:
		tool := toolFor(e.activeTool)
		world := e.snapPoint(e.sanitizePoint(e.space.ScreenToWorld(at)), e.draft)
		tool.Update(e.draft, world)
		e.invalidate()
		return true

	case ModeEditing:
		obj := e.Selected()
		if obj == nil {
			e.mode = ModeIdle
			return false
		}

		if !e.gestureMoved {
			e.history.push(e.objects)
			e.gestureMoved = true
		}

		// Translation does not re-snap: mid-drag jumps are surprising.
		world := e.space.ScreenToWorld(at)
		obj.Translate(world.T-e.dragStartWorld.T, world.P-e.dragStartWorld.P)
		e.dragStartWorld = world

		e.markDirty(obj.ID)
		e.invalidate()
		return true

	case ModeResizing:
		obj := e.Selected()
		if obj == nil || e.resizeIndex >= len(obj.Points) {
			e.mode = ModeIdle
			return false
		}

		if !e.gestureMoved {
			e.history.push(e.objects)
			e.gestureMoved = true
		}

		// Resizing overwrites the single grabbed point, raw (no re-snap).
		obj.Points[e.resizeIndex] = e.sanitizePoint(e.space.ScreenToWorld(at))

		e.markDirty(obj.ID)
		e.invalidate()
		return true

	default:
		return false
	}
}

// PointerUp feeds a pointer release, completing whichever gesture is in
// flight. Returns whether the engine claimed the input.
func (e *Engine) PointerUp(x, y float64) bool {
	switch e.mode {
	case ModeDrawing:
		e.finishDraft()
		return true

	case ModeEditing, ModeResizing:
		obj := e.Selected()
		e.mode = ModeIdle
		if obj != nil && e.gestureMoved {
			e.events.emitObjectUpdated(obj)
			e.invalidate()
		}
		e.gestureMoved = false
		return true

	default:
		return false
	}
}

// finishDraft commits or discards the in-flight draft on pointer-up.
func (e *Engine) finishDraft() {
	draft := e.draft
	e.draft = nil
	e.mode = ModeIdle

	tool := toolFor(e.activeTool)
	if draft == nil || tool == nil {
		return
	}

	if len(draft.Points) < tool.MinPoints() {
		// Incomplete gesture: silently dropped, not an error.
		e.invalidate()
		return
	}

	tool.Complete(draft)
	if !e.AddObject(draft) {
		return
	}

	if !tool.MultiUse() {
		e.SetTool(ToolSelect)
	}
}

// Escape cancels in priority order: an in-progress draft first, then the
// selection, then the active tool back to select.
func (e *Engine) Escape() {
	switch {
	case e.mode == ModeDrawing:
		e.discardDraft()
	case e.selectedID != "":
		e.SelectObject("")
		e.mode = ModeIdle
	default:
		e.SetTool(ToolSelect)
		e.mode = ModeIdle
	}
}

// discardDraft aborts an in-flight draft without touching the scene.
func (e *Engine) discardDraft() {
	if e.draft == nil && e.mode != ModeDrawing {
		return
	}
	e.draft = nil
	if e.mode == ModeDrawing {
		e.mode = ModeIdle
	}
	e.invalidate()
}

// BeginPan marks a drag-to-pan gesture. The engine refuses while a draft
// is in flight: drawing blocks panning by contract.
func (e *Engine) BeginPan() bool {
	if e.mode != ModeIdle {
		return false
	}
	e.mode = ModePanning
	return true
}

// EndPan finishes a pan gesture.
func (e *Engine) EndPan() {
	if e.mode == ModePanning {
		e.mode = ModeIdle
	}
}

// Undo restores the previous committed scene. Returns false when the
// undo stack is empty.
func (e *Engine) Undo() bool {
	previous, ok := e.history.popUndo(e.objects)
	if !ok {
		return false
	}

	e.replaceScene(previous)
	return true
}

// Redo restores the next scene after an undo.
func (e *Engine) Redo() bool {
	next, ok := e.history.popRedo(e.objects)
	if !ok {
		return false
	}

	e.replaceScene(next)
	return true
}

// replaceScene swaps the live scene, fixing up selection and z counters.
func (e *Engine) replaceScene(objects []*Object) {
	e.objects = objects

	if e.selectedID != "" && e.findObject(e.selectedID) == nil {
		e.selectedID = ""
		e.events.emitObjectSelected("")
	}

	e.nextZ = 0
	for _, obj := range e.objects {
		if obj.ZIndex > e.nextZ {
			e.nextZ = obj.ZIndex
		}
		e.markDirty(obj.ID)
	}

	e.invalidate()
}

// Render draws every visible object in ascending z-order, the in-flight
// draft on top, and the selection handles last.
func (e *Engine) Render(cv core.Canvas) {
	for _, obj := range e.objectsByZAscending() {
		if !obj.Visible {
			continue
		}
		if tool := toolFor(obj.Type); tool != nil {
			tool.Render(cv, obj, e.space)
		}
	}

	if e.draft != nil {
		if tool := toolFor(e.draft.Type); tool != nil && len(e.draft.Points) >= tool.MinPoints() {
			tool.Render(cv, e.draft, e.space)
		}
	}

	if selected := e.Selected(); selected != nil {
		e.renderHandles(cv, selected)
	}
}

// renderHandles draws the draggable control points of the selection.
func (e *Engine) renderHandles(cv core.Canvas, obj *Object) {
	for _, p := range obj.Points {
		at := e.space.WorldToScreen(p)
		cv.SetFill("#ffffff")
		cv.FillCircle(at.X, at.Y, e.cfg.HandleRadiusPx-1)
		cv.SetStroke(obj.Style.Color, 1.5, nil)
		cv.Circle(at.X, at.Y, e.cfg.HandleRadiusPx-1)
	}
}

// invalidate emits the render-invalidation event. The engine never
// schedules frames itself.
func (e *Engine) invalidate() {
	e.events.emitNeedsRender()
}

// sanitizePoint substitutes fallback coordinates for non-finite values,
// e.g. from a corrupted persisted file. A single bad annotation must not
// break the chart, so this never fails.
func (e *Engine) sanitizePoint(at core.WorldPoint) core.WorldPoint {
	if at.IsFinite() && at.T > math.MinInt64/2 && at.T < math.MaxInt64/2 {
		return at
	}

	fallback := at
	if !at.IsFinite() {
		min, max := e.space.PriceRange()
		fallback.P = (min + max) / 2
	}
	if at.T <= math.MinInt64/2 || at.T >= math.MaxInt64/2 {
		fallback.T = e.fallbackTime()
	}

	e.log.Debug("sanitized non-finite world point")
	return fallback
}

// sanitizeObject repairs every point of an object in place.
func (e *Engine) sanitizeObject(obj *Object) {
	for i, p := range obj.Points {
		obj.Points[i] = e.sanitizePoint(p)
	}
}

// fallbackTime is the last bar timestamp, or the wall clock when no data
// is loaded.
func (e *Engine) fallbackTime() int64 {
	times := e.space.BarTimes()
	if len(times) > 0 {
		return times[len(times)-1]
	}
	return time.Now().UnixMilli()
}
