package drawing

import (
	"testing"

	"github.com/raykavin/chartline/pkg/core"
	"github.com/stretchr/testify/require"
)

// stubSpace is a fixed linear coordinate space: time 0..4000ms maps to
// x 0..1000, price 0..50 maps to y 500..0, bars at 1000/2000/3000ms.
// One price unit is 10px, one pixel is 4ms.
type stubSpace struct{}

func (stubSpace) WorldToScreen(w core.WorldPoint) core.ScreenPoint {
	return core.ScreenPoint{X: float64(w.T) / 4, Y: (50 - w.P) * 10}
}

func (stubSpace) ScreenToWorld(s core.ScreenPoint) core.WorldPoint {
	return core.WorldPoint{T: int64(s.X * 4), P: 50 - s.Y/10}
}

func (stubSpace) BarTimes() []int64 { return []int64{1000, 2000, 3000} }
func (stubSpace) PriceRange() (float64, float64) { return 0, 50 }
func (stubSpace) Size() (float64, float64) { return 1000, 500 }

func newTestEngine() *Engine {
	return NewEngine(stubSpace{}, DefaultConfig())
}

// screenAt returns the pixel position of a world point under stubSpace.
func screenAt(t int64, p float64) (x, y float64) {
	at := stubSpace{}.WorldToScreen(core.WorldPoint{T: t, P: p})
	return at.X, at.Y
}

func trendline(t1 int64, p1 float64, t2 int64, p2 float64) *Object {
	return &Object{
		Type:    ToolTrendline,
		Pane:    PanePrice,
		Points:  []core.WorldPoint{{T: t1, P: p1}, {T: t2, P: p2}},
		Style:   DefaultStyle(),
		Visible: true,
	}
}

func TestEngine_DrawTrendline(t *testing.T) {
	eng := newTestEngine()
	eng.SetTool(ToolTrendline)

	x1, y1 := screenAt(1000, 10)
	x2, y2 := screenAt(3000, 20)

	require.True(t, eng.PointerDown(x1, y1))
	require.Equal(t, ModeDrawing, eng.Mode())
	require.True(t, eng.PointerMove(x2, y2))
	require.True(t, eng.PointerUp(x2, y2))

	require.Equal(t, 1, eng.ObjectCount())
	obj := eng.Objects()[0]
	require.Equal(t, ToolTrendline, obj.Type)
	require.NotEmpty(t, obj.ID)
	require.Equal(t, []core.WorldPoint{{T: 1000, P: 10}, {T: 3000, P: 20}}, obj.Points)

	// Multi-use tool stays armed, state machine returns to idle.
	require.Equal(t, ToolTrendline, eng.ActiveTool())
	require.Equal(t, ModeIdle, eng.Mode())
}

func TestEngine_HLineSingleClick(t *testing.T) {
	eng := newTestEngine()
	eng.SetTool(ToolHLine)

	x, y := screenAt(2000, 30)
	require.True(t, eng.PointerDown(x, y))
	require.True(t, eng.PointerUp(x, y))

	require.Equal(t, 1, eng.ObjectCount())
	obj := eng.Objects()[0]
	require.Equal(t, ToolHLine, obj.Type)
	require.Len(t, obj.Points, 1)
	require.InDelta(t, 30, obj.Points[0].P, 1e-9)
	require.Equal(t, ToolHLine, eng.ActiveTool())
}

func TestEngine_IncompleteDraftDiscarded(t *testing.T) {
	eng := newTestEngine()
	eng.SetTool(ToolTrendline)

	x, y := screenAt(1000, 10)
	require.True(t, eng.PointerDown(x, y))
	require.True(t, eng.PointerUp(x, y))

	require.Zero(t, eng.ObjectCount())
	require.False(t, eng.CanUndo())
	require.Equal(t, ModeIdle, eng.Mode())
}

func TestEngine_TextToolIsSingleUse(t *testing.T) {
	eng := newTestEngine()
	eng.SetTool(ToolText)

	x, y := screenAt(2000, 25)
	require.True(t, eng.PointerDown(x, y))
	require.True(t, eng.PointerUp(x, y))

	require.Equal(t, 1, eng.ObjectCount())
	require.Equal(t, "Text", eng.Objects()[0].MetaString("text"))
	require.Equal(t, ToolSelect, eng.ActiveTool())
}

func TestEngine_SetToolUnknownFallsBack(t *testing.T) {
	eng := newTestEngine()
	eng.SetTool(ToolID("wedge"))
	require.Equal(t, ToolSelect, eng.ActiveTool())
}

func TestEngine_UndoRedo(t *testing.T) {
	eng := newTestEngine()

	require.True(t, eng.AddObject(trendline(1000, 10, 2000, 15)))
	require.True(t, eng.AddObject(trendline(2000, 20, 3000, 25)))
	first, second := eng.Objects()[0].ID, eng.Objects()[1].ID

	require.True(t, eng.Undo())
	require.Equal(t, 1, eng.ObjectCount())
	require.Equal(t, first, eng.Objects()[0].ID)

	require.True(t, eng.Undo())
	require.Zero(t, eng.ObjectCount())
	require.False(t, eng.Undo())

	require.True(t, eng.Redo())
	require.True(t, eng.Redo())
	require.False(t, eng.Redo())

	require.Equal(t, 2, eng.ObjectCount())
	require.Equal(t, first, eng.Objects()[0].ID)
	require.Equal(t, second, eng.Objects()[1].ID)
}

func TestEngine_DragTranslatesSelection(t *testing.T) {
	eng := newTestEngine()
	require.True(t, eng.AddObject(trendline(1000, 10, 3000, 20)))
	id := eng.Objects()[0].ID

	var updated int
	eng.Events().OnObjectUpdated(func(*Object) { updated++ })

	// Press on the segment midpoint, drag 20px right and 10px up.
	x, y := screenAt(2000, 15)
	require.True(t, eng.PointerDown(x, y))
	require.Equal(t, ModeEditing, eng.Mode())
	require.Equal(t, id, eng.Selected().ID)

	require.True(t, eng.PointerMove(x+20, y-10))
	require.True(t, eng.PointerUp(x+20, y-10))

	obj := eng.Objects()[0]
	require.Equal(t, int64(1080), obj.Points[0].T)
	require.InDelta(t, 11, obj.Points[0].P, 1e-9)
	require.Equal(t, int64(3080), obj.Points[1].T)
	require.InDelta(t, 21, obj.Points[1].P, 1e-9)
	require.Equal(t, 1, updated)

	// One gesture, one history entry: a single undo restores the shape.
	require.True(t, eng.Undo())
	restored := eng.Objects()[0]
	require.Equal(t, int64(1000), restored.Points[0].T)
	require.InDelta(t, 10, restored.Points[0].P, 1e-9)
}

func TestEngine_ResizeMovesSinglePointRaw(t *testing.T) {
	eng := newTestEngine()
	require.True(t, eng.AddObject(trendline(1000, 10, 3000, 20)))
	id := eng.Objects()[0].ID
	eng.SelectObject(id)

	// Press exactly on the first handle, then drag to a price that the
	// snap grid would otherwise round away.
	hx, hy := screenAt(1000, 10)
	require.True(t, eng.PointerDown(hx, hy))
	require.Equal(t, ModeResizing, eng.Mode())

	tx, ty := screenAt(1000, 11.3)
	require.True(t, eng.PointerMove(tx, ty))
	require.True(t, eng.PointerUp(tx, ty))

	obj := eng.Objects()[0]
	require.InDelta(t, 11.3, obj.Points[0].P, 1e-9)
	require.Equal(t, int64(1000), obj.Points[0].T)

	// Second anchor untouched.
	require.Equal(t, int64(3000), obj.Points[1].T)
	require.InDelta(t, 20, obj.Points[1].P, 1e-9)
}

func TestEngine_EscapePriority(t *testing.T) {
	eng := newTestEngine()
	require.True(t, eng.AddObject(trendline(1000, 10, 3000, 20)))
	id := eng.Objects()[0].ID

	// 1: an in-flight draft is discarded, the tool stays armed.
	eng.SetTool(ToolTrendline)
	x, y := screenAt(2000, 30)
	require.True(t, eng.PointerDown(x, y))
	eng.Escape()
	require.Equal(t, 1, eng.ObjectCount())
	require.Equal(t, ToolTrendline, eng.ActiveTool())
	require.Equal(t, ModeIdle, eng.Mode())

	// 2: with no draft, the selection is cleared.
	eng.SetTool(ToolSelect)
	eng.SelectObject(id)
	eng.Escape()
	require.Nil(t, eng.Selected())
	require.Equal(t, ToolSelect, eng.ActiveTool())

	// 3: with nothing else, the active tool resets to select.
	eng.SetTool(ToolRect)
	eng.Escape()
	require.Equal(t, ToolSelect, eng.ActiveTool())
}

func TestEngine_PointerDownOnEmptyReleasesInput(t *testing.T) {
	eng := newTestEngine()
	require.True(t, eng.AddObject(trendline(1000, 10, 3000, 20)))
	eng.SelectObject(eng.Objects()[0].ID)

	// Far from any object: engine declines, selection clears, caller may pan.
	require.False(t, eng.PointerDown(900, 30))
	require.Nil(t, eng.Selected())
}

func TestEngine_LockedObjectNotSelectable(t *testing.T) {
	eng := newTestEngine()
	require.True(t, eng.AddObject(trendline(1000, 10, 3000, 20)))
	id := eng.Objects()[0].ID
	require.True(t, eng.SetLocked(id, true))

	x, y := screenAt(2000, 15)
	require.False(t, eng.PointerDown(x, y))
	require.Nil(t, eng.Selected())
	require.Empty(t, eng.HitTest(x, y))
}

func TestEngine_InvisibleObjectNotHit(t *testing.T) {
	eng := newTestEngine()
	require.True(t, eng.AddObject(trendline(1000, 10, 3000, 20)))
	id := eng.Objects()[0].ID
	require.True(t, eng.SetVisible(id, false))

	x, y := screenAt(2000, 15)
	require.Empty(t, eng.HitTest(x, y))
}

func TestEngine_PanBlockedWhileDrawing(t *testing.T) {
	eng := newTestEngine()
	eng.SetTool(ToolTrendline)

	x, y := screenAt(1000, 10)
	require.True(t, eng.PointerDown(x, y))
	require.False(t, eng.BeginPan())

	require.True(t, eng.PointerUp(x, y))
	require.True(t, eng.BeginPan())
	eng.EndPan()
	require.Equal(t, ModeIdle, eng.Mode())
}

func TestEngine_MaxObjectsCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxObjects = 2
	eng := NewEngine(stubSpace{}, cfg)

	require.True(t, eng.AddObject(trendline(1000, 10, 2000, 15)))
	require.True(t, eng.AddObject(trendline(1000, 20, 2000, 25)))
	require.False(t, eng.AddObject(trendline(1000, 30, 2000, 35)))
	require.Equal(t, 2, eng.ObjectCount())
}

func TestEngine_DeleteSelected(t *testing.T) {
	eng := newTestEngine()
	require.True(t, eng.AddObject(trendline(1000, 10, 3000, 20)))
	id := eng.Objects()[0].ID

	var deleted []string
	eng.Events().OnObjectDeleted(func(removed string) { deleted = append(deleted, removed) })

	require.False(t, eng.DeleteSelected())

	eng.SelectObject(id)
	require.True(t, eng.DeleteSelected())
	require.Zero(t, eng.ObjectCount())
	require.Equal(t, []string{id}, deleted)
	require.Nil(t, eng.Selected())

	require.True(t, eng.Undo())
	require.Equal(t, 1, eng.ObjectCount())
}

func TestEngine_UpdateObjectSetsDeferredText(t *testing.T) {
	eng := newTestEngine()
	eng.SetTool(ToolText)

	x, y := screenAt(2000, 25)
	require.True(t, eng.PointerDown(x, y))
	require.True(t, eng.PointerUp(x, y))
	id := eng.Objects()[0].ID

	require.True(t, eng.UpdateObject(id, func(o *Object) { o.Meta["text"] = "breakout" }))
	require.Equal(t, "breakout", eng.Objects()[0].MetaString("text"))

	require.False(t, eng.UpdateObject("nope", func(o *Object) {}))
}

func TestEngine_EventsFire(t *testing.T) {
	eng := newTestEngine()

	var created, toolChanges int
	var selections []string
	eng.Events().OnObjectCreated(func(*Object) { created++ })
	eng.Events().OnToolChanged(func(ToolID) { toolChanges++ })
	eng.Events().OnObjectSelected(func(id string) { selections = append(selections, id) })

	eng.SetTool(ToolHLine)
	x, y := screenAt(2000, 30)
	require.True(t, eng.PointerDown(x, y))
	require.True(t, eng.PointerUp(x, y))

	id := eng.Objects()[0].ID
	eng.SelectObject(id)
	eng.SelectObject("")

	require.Equal(t, 1, created)
	require.Equal(t, 1, toolChanges)
	require.Equal(t, []string{id, ""}, selections)
}

func TestEngine_BringToFront(t *testing.T) {
	eng := newTestEngine()
	require.True(t, eng.AddObject(trendline(1000, 10, 3000, 10)))
	require.True(t, eng.AddObject(trendline(1000, 10, 3000, 10)))
	bottom := eng.Objects()[0].ID

	require.True(t, eng.BringToFront(bottom))
	require.Equal(t, bottom, eng.HitTest(screenAt(2000, 10)))
}
