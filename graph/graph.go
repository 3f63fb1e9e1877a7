// Package graph maintains the filtered view of a session's graph: the
// active type set and the visible node/edge projection every downstream
// component consumes.
package graph

import (
	"github.com/papergraph/papergraph/models"
)

// View projects a graph payload through the active type filter. It is
// owned by the session loop and must not be shared across goroutines.
type View struct {
	source    *models.Graph
	active    map[string]bool
	typeOrder []string

	visibleNodes []models.GraphNode
	visibleEdges []models.GraphEdge
	visibleIDs   map[string]bool

	onChange []func()
}

// NewView creates a view over the payload with every type active.
func NewView(source *models.Graph) *View {
	v := &View{
		source:    source,
		active:    make(map[string]bool),
		typeOrder: source.TypeOrder(),
	}
	for _, t := range v.typeOrder {
		v.active[t] = true
	}
	v.recompute()
	return v
}

// OnChange registers a callback fired after every projection change.
func (v *View) OnChange(fn func()) {
	v.onChange = append(v.onChange, fn)
}

// Toggle flips a type's membership in the active set and recomputes the
// projection. It returns the new state of the type.
func (v *View) Toggle(nodeType string) bool {
	v.active[nodeType] = !v.active[nodeType]
	v.recompute()
	return v.active[nodeType]
}

// SetActive replaces the active set wholesale.
func (v *View) SetActive(types []string) {
	v.active = make(map[string]bool, len(types))
	for _, t := range types {
		v.active[t] = true
	}
	v.recompute()
}

// Active reports whether a type is currently visible.
func (v *View) Active(nodeType string) bool {
	return v.active[nodeType]
}

// ActiveTypes returns the visible types in stable first-seen order.
func (v *View) ActiveTypes() []string {
	var types []string
	for _, t := range v.typeOrder {
		if v.active[t] {
			types = append(types, t)
		}
	}
	return types
}

// VisibleTypes returns the types present in the visible node set, in
// stable first-seen order. This is the ordering type anchors use.
func (v *View) VisibleTypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, n := range v.visibleNodes {
		if !seen[n.Type] {
			seen[n.Type] = true
			types = append(types, n.Type)
		}
	}
	return types
}

// Nodes returns the visible node subset.
func (v *View) Nodes() []models.GraphNode { return v.visibleNodes }

// Edges returns the visible edge subset: edges whose both endpoints are
// visible.
func (v *View) Edges() []models.GraphEdge { return v.visibleEdges }

// Visible reports whether a node id is in the visible subset.
func (v *View) Visible(id string) bool { return v.visibleIDs[id] }

// Empty reports whether filtering left nothing to render. This is an
// explicit state, not an error.
func (v *View) Empty() bool { return len(v.visibleNodes) == 0 }

// Neighbors returns the ids directly connected to the given node by any
// visible edge, ignoring direction. Cost is linear in the visible edge
// count.
func (v *View) Neighbors(id string) map[string]bool {
	result := make(map[string]bool)
	for _, e := range v.visibleEdges {
		if e.Source == id {
			result[e.Target] = true
		}
		if e.Target == id {
			result[e.Source] = true
		}
	}
	return result
}

func (v *View) recompute() {
	v.visibleNodes = v.visibleNodes[:0]
	v.visibleEdges = v.visibleEdges[:0]
	v.visibleIDs = make(map[string]bool)

	for _, n := range v.source.Nodes {
		if v.active[n.Type] {
			v.visibleNodes = append(v.visibleNodes, n)
			v.visibleIDs[n.ID] = true
		}
	}
	for _, e := range v.source.Edges {
		if v.visibleIDs[e.Source] && v.visibleIDs[e.Target] {
			v.visibleEdges = append(v.visibleEdges, e)
		}
	}
	for _, fn := range v.onChange {
		fn()
	}
}
