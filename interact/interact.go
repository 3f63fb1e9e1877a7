// Package interact translates pointer and wheel input into simulation
// and view-transform state: drag pinning, pan/zoom, hover highlighting
// and type filter toggles. It owns the scene transform and highlight
// state; the simulation is touched only through its pin/reheat surface.
package interact

import (
	"go.uber.org/zap"

	"github.com/papergraph/papergraph/graph"
	"github.com/papergraph/papergraph/models"
	"github.com/papergraph/papergraph/physics"
)

// Transform is the pan/zoom mapping from logical layout space to screen
// space. The simulation always runs in logical space; the transform is
// applied at render time only.
type Transform struct {
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
	K  float64 `json:"k"`
}

// Apply maps a logical point to screen space.
func (t Transform) Apply(x, y float64) (sx, sy float64) {
	return x*t.K + t.TX, y*t.K + t.TY
}

// Invert maps a screen point back to logical space.
func (t Transform) Invert(sx, sy float64) (x, y float64) {
	return (sx - t.TX) / t.K, (sy - t.TY) / t.K
}

// Highlight is the transient hover state: the hovered node and its
// single-hop neighborhood over the visible edge set. Direction-agnostic.
type Highlight struct {
	HoveredID string
	Neighbors map[string]bool
}

// Active reports whether a hover is in effect.
func (h Highlight) Active() bool { return h.HoveredID != "" }

// Contains reports whether a node id is the hovered node or one of its
// neighbors.
func (h Highlight) Contains(id string) bool {
	return id == h.HoveredID || h.Neighbors[id]
}

// Config holds interaction tuning.
type Config struct {
	KMin        float64
	KMax        float64
	ReheatAlpha float64
}

// DefaultInteractConfig returns the zoom bounds and drag reheat used by
// the paper graph view.
func DefaultInteractConfig() Config {
	return Config{KMin: 0.1, KMax: 4, ReheatAlpha: 0.3}
}

func (c *Config) applyDefaults() {
	d := DefaultInteractConfig()
	if c.KMin <= 0 {
		c.KMin = d.KMin
	}
	if c.KMax <= 0 {
		c.KMax = d.KMax
	}
	if c.ReheatAlpha <= 0 {
		c.ReheatAlpha = d.ReheatAlpha
	}
}

// Events are the callbacks surfaced to the host UI for legends and side
// panels. All fields are optional.
type Events struct {
	OnNodeHovered func(id string, neighbors []string)
	OnNodeDragged func(id string, x, y float64)
	OnTypeToggled func(nodeType string, active bool)
}

type pointerMode int

const (
	modeIdle pointerMode = iota
	modePanning
	modeDragging
)

// Controller owns the interaction state machine. It must be driven from
// the single session loop; it performs no internal locking.
type Controller struct {
	cfg      Config
	sim      *physics.Simulation
	runner   *physics.Runner
	view     *graph.View
	registry *models.TypeRegistry
	events   Events
	logger   *zap.Logger

	transform Transform
	highlight Highlight

	mode   pointerMode
	dragID string
	lastSX float64
	lastSY float64
}

// NewController wires a controller to a session's simulation and view.
// It registers itself on the view so filter changes rebuild the
// simulation's node set and clear stale drag/hover state.
func NewController(cfg Config, sim *physics.Simulation, runner *physics.Runner, view *graph.View, registry *models.TypeRegistry, events Events, logger *zap.Logger) *Controller {
	cfg.applyDefaults()
	if registry == nil {
		registry = models.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		cfg:       cfg,
		sim:       sim,
		runner:    runner,
		view:      view,
		registry:  registry,
		events:    events,
		logger:    logger,
		transform: Transform{K: 1},
	}
	view.OnChange(c.onViewChange)
	c.syncSimulation()
	return c
}

// Transform returns the current pan/zoom transform.
func (c *Controller) Transform() Transform { return c.transform }

// Highlight returns the current hover state.
func (c *Controller) Highlight() Highlight { return c.highlight }

// Dragging returns the id of the node currently in the Dragging state,
// or the empty string.
func (c *Controller) Dragging() string {
	if c.mode == modeDragging {
		return c.dragID
	}
	return ""
}

// Pointer returns the last seen screen-space pointer position.
func (c *Controller) Pointer() (sx, sy float64) { return c.lastSX, c.lastSY }

// PointerDown begins a drag when the pointer lands on a node, otherwise
// a background pan. Coordinates are screen space.
func (c *Controller) PointerDown(sx, sy float64) {
	c.lastSX, c.lastSY = sx, sy
	if n := c.HitTest(sx, sy); n != nil {
		c.mode = modeDragging
		c.dragID = n.ID()
		x, y := n.Position()
		c.sim.Pin(c.dragID, x, y)
		c.runner.Reheat(c.cfg.ReheatAlpha)
		return
	}
	c.mode = modePanning
}

// PointerMove continues the active drag or pan.
func (c *Controller) PointerMove(sx, sy float64) {
	switch c.mode {
	case modeDragging:
		x, y := c.transform.Invert(sx, sy)
		c.sim.Pin(c.dragID, x, y)
		if c.events.OnNodeDragged != nil {
			c.events.OnNodeDragged(c.dragID, x, y)
		}
	case modePanning:
		c.transform.TX += sx - c.lastSX
		c.transform.TY += sy - c.lastSY
	}
	c.lastSX, c.lastSY = sx, sy
}

// PointerUp ends the active drag or pan. A released node resumes free
// dynamics and the simulation cools back down.
func (c *Controller) PointerUp() {
	if c.mode == modeDragging {
		c.sim.Unpin(c.dragID)
		c.runner.Settle()
		c.dragID = ""
	}
	c.mode = modeIdle
}

// Zoom scales the view by factor about the given screen point, clamped
// to [KMin, KMax]. The logical point under the pointer stays fixed.
func (c *Controller) Zoom(factor, sx, sy float64) {
	k := c.transform.K * factor
	if k < c.cfg.KMin {
		k = c.cfg.KMin
	}
	if k > c.cfg.KMax {
		k = c.cfg.KMax
	}
	if k == c.transform.K {
		return
	}
	scale := k / c.transform.K
	c.transform.TX = sx - (sx-c.transform.TX)*scale
	c.transform.TY = sy - (sy-c.transform.TY)*scale
	c.transform.K = k
}

// Hover recomputes the highlight for the node under the pointer, or
// clears it when the pointer is over the background. Runs synchronously;
// cost is linear in the visible edge count.
func (c *Controller) Hover(sx, sy float64) {
	c.lastSX, c.lastSY = sx, sy
	n := c.HitTest(sx, sy)
	if n == nil {
		c.Leave()
		return
	}
	id := n.ID()
	if c.highlight.HoveredID == id {
		return
	}
	neighbors := c.view.Neighbors(id)
	c.highlight = Highlight{HoveredID: id, Neighbors: neighbors}
	if c.events.OnNodeHovered != nil {
		ids := make([]string, 0, len(neighbors))
		for nid := range neighbors {
			ids = append(ids, nid)
		}
		c.events.OnNodeHovered(id, ids)
	}
}

// Leave clears the hover highlight.
func (c *Controller) Leave() {
	c.highlight = Highlight{}
}

// ToggleType flips a type filter and notifies the host.
func (c *Controller) ToggleType(nodeType string) {
	active := c.view.Toggle(nodeType)
	if c.events.OnTypeToggled != nil {
		c.events.OnTypeToggled(nodeType, active)
	}
}

// HitTest returns the topmost visible node under a screen point, or nil.
// Later payload order wins ties, matching draw order.
func (c *Controller) HitTest(sx, sy float64) *physics.SimNode {
	x, y := c.transform.Invert(sx, sy)
	var hit *physics.SimNode
	c.sim.Each(func(n *physics.SimNode) {
		nx, ny := n.Position()
		dx, dy := x-nx, y-ny
		r := n.Radius()
		if dx*dx+dy*dy <= r*r {
			hit = n
		}
	})
	return hit
}

// onViewChange rebuilds the simulation node set after a filter toggle
// and drops any drag or hover state referencing a removed node.
func (c *Controller) onViewChange() {
	c.syncSimulation()

	if c.mode == modeDragging && !c.view.Visible(c.dragID) {
		c.logger.Debug("cancelling drag of filtered-out node", zap.String("node", c.dragID))
		c.sim.Unpin(c.dragID)
		c.runner.Settle()
		c.dragID = ""
		c.mode = modeIdle
	}
	if c.highlight.Active() {
		if !c.view.Visible(c.highlight.HoveredID) {
			c.highlight = Highlight{}
		} else {
			// Edges touching removed nodes are gone; recompute.
			c.highlight.Neighbors = c.view.Neighbors(c.highlight.HoveredID)
		}
	}
	c.runner.Reheat(c.cfg.ReheatAlpha)
	c.runner.Settle()
}

func (c *Controller) syncSimulation() {
	c.sim.SetGraph(c.view.Nodes(), c.view.Edges(), c.view.VisibleTypes())
}
