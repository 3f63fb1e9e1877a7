package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/papergraph/papergraph/graph"
	"github.com/papergraph/papergraph/interact"
	"github.com/papergraph/papergraph/models"
	"github.com/papergraph/papergraph/physics"
)

// Dimming applied under an active highlight to scene elements outside
// the hovered neighborhood.
const (
	dimmedEdgeOpacity = 0.1
	dimmedNodeOpacity = 0.2
)

// NodeSprite is the render handle for one node. Handles live in the
// arena across ticks; position and opacity are refreshed every frame,
// styling is computed once when the node enters the visible set.
type NodeSprite struct {
	ID         string   `json:"id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Radius     float64  `json:"radius"`
	Color      string   `json:"color"`
	Opacity    float64  `json:"opacity"`
	LabelLines []string `json:"label_lines"`
}

// EdgeSprite is the per-frame drawing state for one visible edge.
type EdgeSprite struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
	Label   string  `json:"label"`
}

// Tooltip is the floating hover inspector. One tooltip exists per scene,
// acquired on session start and released on teardown.
type Tooltip struct {
	Visible    bool    `json:"visible"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Label      string  `json:"label"`
	TypeLabel  string  `json:"type_label"`
	Confidence string  `json:"confidence,omitempty"`
}

// Frame is one tick's complete drawing state. It is consumed exactly
// once by a renderer before the next tick commits.
type Frame struct {
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Background string             `json:"background"`
	Alpha      float64            `json:"alpha"`
	Empty      bool               `json:"empty"`
	Transform  interact.Transform `json:"transform"`
	Nodes      []*NodeSprite      `json:"nodes"`
	Edges      []EdgeSprite       `json:"edges"`
	Tooltip    *Tooltip           `json:"tooltip,omitempty"`
}

// arena holds render handles indexed by node id, reused across ticks so
// layout state never binds to a specific drawing technology.
type arena struct {
	handles map[string]*NodeSprite
}

func newArena() *arena {
	return &arena{handles: make(map[string]*NodeSprite)}
}

// refresh synchronizes handles with the visible node set: surviving
// handles are repositioned, departed handles destroyed, new handles
// styled from the registry.
func (a *arena) refresh(sim *physics.Simulation, registry *models.TypeRegistry, opts *Options) []*NodeSprite {
	live := make(map[string]bool, sim.Len())
	sprites := make([]*NodeSprite, 0, sim.Len())
	sim.Each(func(n *physics.SimNode) {
		id := n.ID()
		live[id] = true
		h, ok := a.handles[id]
		if !ok {
			node := n.Node()
			h = &NodeSprite{
				ID:         id,
				Radius:     n.Radius(),
				Color:      registry.Color(node.Type),
				LabelLines: wrapLabel(node.Label, opts.LabelWidth, opts.LabelLines),
			}
			a.handles[id] = h
		}
		h.X, h.Y = n.Position()
		h.Opacity = 1
		sprites = append(sprites, h)
	})
	for id := range a.handles {
		if !live[id] {
			delete(a.handles, id)
		}
	}
	return sprites
}

// Scene assembles frames from simulation and interaction state. The
// tooltip is a scoped resource: Acquire before the first frame, Release
// on teardown.
type Scene struct {
	opts     Options
	registry *models.TypeRegistry
	arena    *arena
	tooltip  *Tooltip
}

// NewScene creates a scene for a session.
func NewScene(opts Options, registry *models.TypeRegistry) *Scene {
	opts.applyDefaults()
	if registry == nil {
		registry = models.DefaultRegistry()
	}
	return &Scene{opts: opts, registry: registry, arena: newArena()}
}

// Acquire allocates the scene's floating tooltip. It fails when the
// canvas geometry is unusable; that failure is fatal for the session.
func (s *Scene) Acquire() error {
	if s.opts.Width <= 0 || s.opts.Height <= 0 {
		return fmt.Errorf("initializing scene: invalid canvas %.0fx%.0f", s.opts.Width, s.opts.Height)
	}
	if s.tooltip == nil {
		s.tooltip = &Tooltip{}
	}
	return nil
}

// Release frees the tooltip and all render handles. Safe to call more
// than once.
func (s *Scene) Release() {
	s.tooltip = nil
	s.arena = newArena()
}

// Snapshot builds the frame for the current tick. pointerX/pointerY
// position the tooltip when a highlight is active.
func (s *Scene) Snapshot(sim *physics.Simulation, view *graph.View, tr interact.Transform, hl interact.Highlight, pointerX, pointerY float64) *Frame {
	frame := &Frame{
		Width:      s.opts.Width,
		Height:     s.opts.Height,
		Background: s.opts.Background,
		Alpha:      sim.Alpha(),
		Empty:      view.Empty(),
		Transform:  tr,
	}
	if frame.Empty {
		return frame
	}

	frame.Nodes = s.arena.refresh(sim, s.registry, &s.opts)
	if hl.Active() {
		for _, n := range frame.Nodes {
			if !hl.Contains(n.ID) {
				n.Opacity = dimmedNodeOpacity
			}
		}
	}

	for _, e := range view.Edges() {
		src := sim.Lookup(e.Source)
		tgt := sim.Lookup(e.Target)
		if src == nil || tgt == nil {
			continue
		}
		x1, y1 := src.Position()
		x2, y2 := tgt.Position()
		opacity := 1.0
		if hl.Active() && !(hl.Contains(e.Source) && hl.Contains(e.Target)) {
			opacity = dimmedEdgeOpacity
		}
		frame.Edges = append(frame.Edges, EdgeSprite{
			Source:  e.Source,
			Target:  e.Target,
			X1:      x1,
			Y1:      y1,
			X2:      x2,
			Y2:      y2,
			Width:   edgeWidth(e.Weight, s.opts.EdgeWidth),
			Opacity: opacity,
			Label:   e.DisplayLabel(),
		})
	}

	if s.tooltip != nil {
		s.refreshTooltip(sim, hl, pointerX, pointerY)
		frame.Tooltip = s.tooltip
	}
	return frame
}

func (s *Scene) refreshTooltip(sim *physics.Simulation, hl interact.Highlight, px, py float64) {
	if !hl.Active() {
		s.tooltip.Visible = false
		return
	}
	n := sim.Lookup(hl.HoveredID)
	if n == nil {
		s.tooltip.Visible = false
		return
	}
	node := n.Node()
	s.tooltip.Visible = true
	s.tooltip.X = px + s.opts.TooltipOffset
	s.tooltip.Y = py + s.opts.TooltipOffset
	s.tooltip.Label = node.Label
	s.tooltip.TypeLabel = s.registry.Label(node.Type)
	if conf, ok := node.Confidence(); ok {
		s.tooltip.Confidence = fmt.Sprintf("%.0f%%", conf*100)
	} else {
		s.tooltip.Confidence = ""
	}
}

// edgeWidth derives stroke thickness from edge weight with a floor so
// zero-weight edges stay visible.
func edgeWidth(weight, base float64) float64 {
	w := base * (0.5 + weight)
	if w < 0.75 {
		w = 0.75
	}
	return w
}

// wrapLabel word-wraps a label into at most maxLines lines of roughly
// width characters, truncating the last line with an ellipsis when the
// text does not fit. Widths are measured in runes; labels are routinely
// CJK and must never be split mid-rune.
func wrapLabel(label string, width, maxLines int) []string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(w) <= width {
			current += " " + w
			continue
		}
		lines = append(lines, current)
		current = w
	}
	lines = append(lines, current)

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) > width-1 {
			last = last[:width-1]
		}
		lines[maxLines-1] = string(last) + "…"
	}
	return lines
}
