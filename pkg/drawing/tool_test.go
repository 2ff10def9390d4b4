package drawing

import (
	"testing"

	"github.com/raykavin/chartline/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolFor_CoversEveryID(t *testing.T) {
	for _, id := range ToolIDs() {
		tool := toolFor(id)
		require.NotNil(t, tool, "tool %s", id)
		require.Equal(t, id, tool.ID())
		require.GreaterOrEqual(t, tool.MaxPoints(), tool.MinPoints())
	}

	require.Nil(t, toolFor(ToolSelect))
	require.Nil(t, toolFor(ToolID("wedge")))
}

func TestFibTool_CompleteNormalizesHighFirst(t *testing.T) {
	tool := fibTool{}

	draft := tool.Start(core.WorldPoint{T: 1000, P: 10})
	tool.Update(draft, core.WorldPoint{T: 3000, P: 40})
	tool.Complete(draft)

	require.InDelta(t, 40, draft.Points[0].P, 1e-9)
	require.InDelta(t, 10, draft.Points[1].P, 1e-9)
	require.Equal(t, int64(3000), draft.Points[0].T)
}

func TestFibTool_RatiosFromMeta(t *testing.T) {
	tool := fibTool{}
	obj := trendline(1000, 10, 3000, 40)
	obj.Type = ToolFib

	// No meta: the standard set.
	assert.Equal(t, fibRatios, tool.ratios(obj))

	// A decoded JSON list arrives as []any.
	obj.Meta = map[string]any{"ratios": []any{0.0, 0.5, 1.0, "junk"}}
	assert.Equal(t, []float64{0, 0.5, 1}, tool.ratios(obj))

	// All-junk meta falls back to the standard set.
	obj.Meta = map[string]any{"ratios": []any{"a", "b"}}
	assert.Equal(t, fibRatios, tool.ratios(obj))
}

func TestChannelTool_CompleteSeedsOffset(t *testing.T) {
	tool := channelTool{}

	draft := tool.Start(core.WorldPoint{T: 1000, P: 10})
	tool.Update(draft, core.WorldPoint{T: 3000, P: 20})
	tool.Complete(draft)
	require.InDelta(t, 5, draft.MetaFloat("offset", 0), 1e-9)

	// A caller-provided width is never overwritten.
	tool.Complete(draft)
	require.InDelta(t, 5, draft.MetaFloat("offset", 0), 1e-9)

	// Flat channel still gets a visible nonzero width.
	flat := tool.Start(core.WorldPoint{T: 1000, P: 30})
	tool.Update(flat, core.WorldPoint{T: 3000, P: 30})
	tool.Complete(flat)
	require.Greater(t, flat.MetaFloat("offset", 0), 0.0)
}

func TestChannelTool_HitTestMatchesBothLines(t *testing.T) {
	tool := channelTool{}
	obj := trendline(1000, 10, 3000, 10)
	obj.Type = ToolChannel
	obj.Meta = map[string]any{"offset": 5.0}

	// Base line at p=10 and companion at p=15 both hit exactly.
	base := stubSpace{}.WorldToScreen(core.WorldPoint{T: 2000, P: 10})
	par := stubSpace{}.WorldToScreen(core.WorldPoint{T: 2000, P: 15})

	assert.InDelta(t, 0, tool.HitTest(obj, base, stubSpace{}), 1e-9)
	assert.InDelta(t, 0, tool.HitTest(obj, par, stubSpace{}), 1e-9)

	// Between the two lines the distance is to the nearer one.
	mid := stubSpace{}.WorldToScreen(core.WorldPoint{T: 2000, P: 12})
	assert.InDelta(t, 20, tool.HitTest(obj, mid, stubSpace{}), 1e-9)
}

func TestRectTool_HitTest(t *testing.T) {
	tool := rectTool{}
	obj := trendline(1000, 10, 3000, 30)
	obj.Type = ToolRect

	inside := stubSpace{}.WorldToScreen(core.WorldPoint{T: 2000, P: 20})
	assert.Zero(t, tool.HitTest(obj, inside, stubSpace{}))

	// 2 price units above the top edge is 20px away.
	above := stubSpace{}.WorldToScreen(core.WorldPoint{T: 2000, P: 32})
	assert.InDelta(t, 20, tool.HitTest(obj, above, stubSpace{}), 1e-9)
}

func TestEllipseTool_HitTest(t *testing.T) {
	tool := ellipseTool{}
	obj := trendline(1000, 10, 3000, 30)
	obj.Type = ToolEllipse

	center := stubSpace{}.WorldToScreen(core.WorldPoint{T: 2000, P: 20})
	assert.Zero(t, tool.HitTest(obj, center, stubSpace{}))

	// A rect corner is outside the inscribed ellipse.
	corner := stubSpace{}.WorldToScreen(core.WorldPoint{T: 1000, P: 10})
	assert.Greater(t, tool.HitTest(obj, corner, stubSpace{}), 0.0)
}

func TestRayTool_HitTestExtendsPastSecondAnchor(t *testing.T) {
	tool := rayTool{}
	obj := trendline(1000, 20, 2000, 20)
	obj.Type = ToolRay

	// Well past the second anchor, still on the ray.
	past := stubSpace{}.WorldToScreen(core.WorldPoint{T: 3500, P: 20})
	assert.InDelta(t, 0, tool.HitTest(obj, past, stubSpace{}), 1e-9)

	// Behind the first anchor the ray does not extend.
	behind := stubSpace{}.WorldToScreen(core.WorldPoint{T: 200, P: 20})
	assert.Greater(t, tool.HitTest(obj, behind, stubSpace{}), 100.0)
}

func TestLineStyle_Dash(t *testing.T) {
	assert.Nil(t, LineSolid.Dash())
	assert.Equal(t, []float64{8, 5}, LineDash.Dash())
	assert.Equal(t, []float64{2, 4}, LineDot.Dash())
}

func TestWithOpacity(t *testing.T) {
	assert.Equal(t, "#2962ff26", withOpacity("#2962ff", 0.15))
	assert.Equal(t, "#2962ff", withOpacity("#2962ff", 1))
	assert.Equal(t, "#2962ff00", withOpacity("#2962ff", -3))
	assert.Equal(t, "red", withOpacity("red", 0.5))
}
