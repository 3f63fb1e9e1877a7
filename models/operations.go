package models

import (
	"github.com/google/uuid"
)

// NewNode creates a node with a generated unique ID.
func NewNode(nodeType, label string, size float64) GraphNode {
	return GraphNode{
		ID:    uuid.New().String(),
		Label: label,
		Type:  nodeType,
		Size:  size,
	}
}

// NewEdge creates an edge between two existing node ids.
func NewEdge(source, target, relation string, weight float64) GraphEdge {
	return GraphEdge{
		Source:   source,
		Target:   target,
		Relation: relation,
		Weight:   weight,
	}
}

// NewGraph creates an empty graph with a generated session ID.
func NewGraph() *Graph {
	return &Graph{ID: uuid.New().String()}
}

// AddNode appends a node, ignoring duplicates of an existing id.
func (g *Graph) AddNode(n GraphNode) {
	for _, existing := range g.Nodes {
		if existing.ID == n.ID {
			return
		}
	}
	g.Nodes = append(g.Nodes, n)
}

// AddEdge appends an edge. Edges whose endpoints are not present are
// silently dropped, matching the payload normalization rule.
func (g *Graph) AddEdge(e GraphEdge) {
	var src, tgt bool
	for _, n := range g.Nodes {
		if n.ID == e.Source {
			src = true
		}
		if n.ID == e.Target {
			tgt = true
		}
		if src && tgt {
			break
		}
	}
	if src && tgt {
		g.Edges = append(g.Edges, e)
	}
}
