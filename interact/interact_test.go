package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/papergraph/papergraph/graph"
	"github.com/papergraph/papergraph/models"
	"github.com/papergraph/papergraph/physics"
)

type fixture struct {
	view   *graph.View
	sim    *physics.Simulation
	runner *physics.Runner
	ctrl   *Controller
}

func newFixture(t *testing.T, events Events) *fixture {
	t.Helper()
	g := &models.Graph{
		Nodes: []models.GraphNode{
			{ID: "p", Label: "low-resource QA", Type: "research_problem", Size: 3},
			{ID: "m", Label: "BERT", Type: "method", Size: 2.5},
			{ID: "d", Label: "SQuAD", Type: "dataset", Size: 2},
		},
		Edges: []models.GraphEdge{
			{Source: "p", Target: "m", Relation: "uses", Weight: 0.8},
			{Source: "m", Target: "d", Relation: "evaluates_on", Weight: 0.9},
		},
	}
	g.Normalize()

	view := graph.NewView(g)
	sim := physics.NewSimulation(physics.DefaultConfig(), nil, zaptest.NewLogger(t))
	runner := physics.NewRunner(sim, nil)
	ctrl := NewController(Config{}, sim, runner, view, nil, events, zaptest.NewLogger(t))
	runner.Start()
	return &fixture{view: view, sim: sim, runner: runner, ctrl: ctrl}
}

// screenOf returns the screen coordinates of a node's current position.
func (f *fixture) screenOf(id string) (float64, float64) {
	x, y := f.sim.Lookup(id).Position()
	return f.ctrl.Transform().Apply(x, y)
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{TX: 40, TY: -25, K: 2.5}
	sx, sy := tr.Apply(120, 80)
	x, y := tr.Invert(sx, sy)
	assert.InDelta(t, 120, x, 1e-9)
	assert.InDelta(t, 80, y, 1e-9)
}

func TestZoomClampsAtBounds(t *testing.T) {
	f := newFixture(t, Events{})
	for i := 0; i < 20; i++ {
		f.ctrl.Zoom(2, 400, 300)
	}
	assert.Equal(t, 4.0, f.ctrl.Transform().K, "scale clamps at exactly kMax")

	for i := 0; i < 40; i++ {
		f.ctrl.Zoom(0.5, 400, 300)
	}
	assert.Equal(t, 0.1, f.ctrl.Transform().K, "scale clamps at exactly kMin")
}

func TestZoomKeepsPointerFixed(t *testing.T) {
	f := newFixture(t, Events{})
	lx, ly := f.ctrl.Transform().Invert(200, 150)
	f.ctrl.Zoom(1.5, 200, 150)
	lx2, ly2 := f.ctrl.Transform().Invert(200, 150)
	assert.InDelta(t, lx, lx2, 1e-9)
	assert.InDelta(t, ly, ly2, 1e-9)
}

func TestBackgroundPan(t *testing.T) {
	f := newFixture(t, Events{})
	f.ctrl.PointerDown(700, 500) // far from any node
	require.Empty(t, f.ctrl.Dragging())
	f.ctrl.PointerMove(720, 490)
	f.ctrl.PointerUp()

	tr := f.ctrl.Transform()
	assert.Equal(t, 20.0, tr.TX)
	assert.Equal(t, -10.0, tr.TY)
}

func TestDragPinsNodeToPointer(t *testing.T) {
	var dragged []string
	f := newFixture(t, Events{
		OnNodeDragged: func(id string, x, y float64) { dragged = append(dragged, id) },
	})

	sx, sy := f.screenOf("m")
	f.ctrl.PointerDown(sx, sy)
	require.Equal(t, "m", f.ctrl.Dragging())

	f.ctrl.PointerMove(sx+30, sy+40)
	for i := 0; i < 5; i++ {
		f.sim.Tick()
		x, y := f.sim.Lookup("m").Position()
		wx, wy := f.ctrl.Transform().Invert(sx+30, sy+40)
		assert.Equal(t, wx, x, "pinned node tracks the pointer every tick")
		assert.Equal(t, wy, y)
	}

	f.ctrl.PointerUp()
	assert.Empty(t, f.ctrl.Dragging())
	assert.False(t, f.sim.Lookup("m").Pinned())
	assert.Equal(t, []string{"m"}, dragged)
}

func TestDragReheatsSimulation(t *testing.T) {
	f := newFixture(t, Events{})
	f.runner.RunToConvergence(5000)
	require.True(t, f.sim.Converged())

	sx, sy := f.screenOf("m")
	f.ctrl.PointerDown(sx, sy)
	assert.False(t, f.sim.Converged(), "drag must reheat the simulation")
	f.ctrl.PointerUp()
}

func TestHoverNeighborhoodSymmetry(t *testing.T) {
	var hovered string
	f := newFixture(t, Events{
		OnNodeHovered: func(id string, _ []string) { hovered = id },
	})

	sx, sy := f.screenOf("m")
	f.ctrl.Hover(sx, sy)
	hl := f.ctrl.Highlight()
	require.True(t, hl.Active())
	assert.Equal(t, "m", hl.HoveredID)
	// m is an edge target of p and a source toward d; both count.
	assert.Equal(t, map[string]bool{"p": true, "d": true}, hl.Neighbors)
	assert.Equal(t, "m", hovered)

	f.ctrl.Leave()
	assert.False(t, f.ctrl.Highlight().Active())
}

func TestHoverOverBackgroundClears(t *testing.T) {
	f := newFixture(t, Events{})
	sx, sy := f.screenOf("d")
	f.ctrl.Hover(sx, sy)
	require.True(t, f.ctrl.Highlight().Active())

	f.ctrl.Hover(2000, 2000)
	assert.False(t, f.ctrl.Highlight().Active())
}

func TestToggleClearsStaleHover(t *testing.T) {
	var toggled string
	f := newFixture(t, Events{
		OnTypeToggled: func(nodeType string, active bool) {
			toggled = nodeType
			assert.False(t, active)
		},
	})

	sx, sy := f.screenOf("m")
	f.ctrl.Hover(sx, sy)
	require.True(t, f.ctrl.Highlight().Active())

	f.ctrl.ToggleType("method")
	assert.False(t, f.ctrl.Highlight().Active(), "hover of a filtered-out node is cleared")
	assert.Equal(t, "method", toggled)
	assert.Nil(t, f.sim.Lookup("m"), "filtered-out node leaves the simulation")
}

func TestToggleCancelsStaleDrag(t *testing.T) {
	f := newFixture(t, Events{})
	sx, sy := f.screenOf("m")
	f.ctrl.PointerDown(sx, sy)
	require.Equal(t, "m", f.ctrl.Dragging())

	f.ctrl.ToggleType("method")
	assert.Empty(t, f.ctrl.Dragging())
}

func TestToggleRecomputesSurvivingHighlight(t *testing.T) {
	f := newFixture(t, Events{})
	sx, sy := f.screenOf("m")
	f.ctrl.Hover(sx, sy)
	require.Equal(t, map[string]bool{"p": true, "d": true}, f.ctrl.Highlight().Neighbors)

	f.ctrl.ToggleType("dataset")
	hl := f.ctrl.Highlight()
	require.True(t, hl.Active())
	assert.Equal(t, map[string]bool{"p": true}, hl.Neighbors,
		"neighborhood shrinks when a neighbor is filtered out")
}
