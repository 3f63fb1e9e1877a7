// Package models provides the data structures for the papergraph engine.
// It defines the immutable graph payload received from the extraction
// pipeline and the type registry that drives styling and clustering.
package models

import (
	"encoding/json"
	"fmt"
)

// GraphNode is a typed entity extracted from a paper. Nodes are immutable
// for the lifetime of a visualization session; mutable layout state lives
// in the physics package.
type GraphNode struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Type     string         `json:"type"`
	Size     float64        `json:"size"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GraphEdge is a typed, weighted relation between two entities. Label is
// an optional display override for the machine-readable Relation key.
type GraphEdge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Relation string  `json:"relation"`
	Label    string  `json:"label,omitempty"`
	Weight   float64 `json:"weight"`
}

// Graph is the payload for one visualization session.
type Graph struct {
	ID    string      `json:"id"`
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// DisplayLabel returns the edge's label, falling back to the relation key.
func (e GraphEdge) DisplayLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Relation
}

// Confidence extracts the optional confidence score from node metadata.
// The second return reports whether a usable value was present.
func (n GraphNode) Confidence() (float64, bool) {
	if n.Metadata == nil {
		return 0, false
	}
	switch v := n.Metadata["confidence"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// DecodeGraph parses a graph payload and normalizes it. Payload-level
// JSON faults propagate to the caller; structural faults (duplicate ids,
// dangling edges) are recovered by dropping the offending element.
func DecodeGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decoding graph payload: %w", err)
	}
	g.Normalize()
	return &g, nil
}

// Normalize enforces the payload invariants in place: node ids are unique
// (first occurrence wins) and every edge references two existing nodes.
// Edges with missing endpoints are dropped rather than surfaced as errors.
func (g *Graph) Normalize() {
	seen := make(map[string]bool, len(g.Nodes))
	nodes := g.Nodes[:0]
	for _, n := range g.Nodes {
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		if n.Size < 0 {
			n.Size = 0
		}
		nodes = append(nodes, n)
	}
	g.Nodes = nodes

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if !seen[e.Source] || !seen[e.Target] {
			continue
		}
		if e.Weight < 0 {
			e.Weight = 0
		}
		edges = append(edges, e)
	}
	g.Edges = edges
}

// TypeOrder returns the distinct node types in first-seen order. The
// ordering is stable for a given payload and anchors the type centroid
// layout.
func (g *Graph) TypeOrder() []string {
	var order []string
	seen := make(map[string]bool)
	for _, n := range g.Nodes {
		if !seen[n.Type] {
			seen[n.Type] = true
			order = append(order, n.Type)
		}
	}
	return order
}
