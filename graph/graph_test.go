package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papergraph/papergraph/models"
)

func paperGraph() *models.Graph {
	g := &models.Graph{
		Nodes: []models.GraphNode{
			{ID: "p", Type: "research_problem"},
			{ID: "m1", Type: "method"},
			{ID: "m2", Type: "method"},
			{ID: "d", Type: "dataset"},
		},
		Edges: []models.GraphEdge{
			{Source: "p", Target: "m1", Relation: "uses"},
			{Source: "m1", Target: "m2", Relation: "comparative"},
			{Source: "m1", Target: "d", Relation: "evaluates_on"},
			{Source: "d", Target: "m2", Relation: "co_occurrence"},
		},
	}
	g.Normalize()
	return g
}

func TestViewStartsFullyVisible(t *testing.T) {
	v := NewView(paperGraph())
	assert.Len(t, v.Nodes(), 4)
	assert.Len(t, v.Edges(), 4)
	assert.Equal(t, []string{"research_problem", "method", "dataset"}, v.VisibleTypes())
	assert.False(t, v.Empty())
}

func TestToggleRemovesNodesAndTouchingEdges(t *testing.T) {
	v := NewView(paperGraph())
	active := v.Toggle("method")
	require.False(t, active)

	// Only p and d remain, and no surviving edge touches a method node.
	assert.Len(t, v.Nodes(), 2)
	assert.Empty(t, v.Edges())
	assert.False(t, v.Visible("m1"))
	assert.True(t, v.Visible("p"))

	// Visible edges are exactly those with both endpoints visible.
	require.True(t, v.Toggle("method"))
	assert.Len(t, v.Edges(), 4)
}

func TestVisibleEdgesMatchActiveTypeSubsets(t *testing.T) {
	g := paperGraph()
	byID := make(map[string]models.GraphNode)
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}

	subsets := [][]string{
		{},
		{"method"},
		{"method", "dataset"},
		{"research_problem", "method"},
		{"research_problem", "method", "dataset"},
	}
	for _, subset := range subsets {
		v := NewView(g)
		v.SetActive(subset)

		active := make(map[string]bool)
		for _, typ := range subset {
			active[typ] = true
		}
		var want []models.GraphEdge
		for _, e := range g.Edges {
			if active[byID[e.Source].Type] && active[byID[e.Target].Type] {
				want = append(want, e)
			}
		}
		assert.ElementsMatch(t, want, v.Edges(), "subset %v", subset)
	}
}

func TestEmptyAfterFilteringEverything(t *testing.T) {
	v := NewView(paperGraph())
	v.SetActive(nil)
	assert.True(t, v.Empty())
	assert.Empty(t, v.VisibleTypes())
}

func TestNeighborsIgnoreDirection(t *testing.T) {
	v := NewView(paperGraph())

	// m2 is a target of m1 and a target of d; both count.
	assert.Equal(t, map[string]bool{"m1": true, "d": true}, v.Neighbors("m2"))

	// Filtering the dataset type removes its edges from the neighborhood.
	v.Toggle("dataset")
	assert.Equal(t, map[string]bool{"m1": true}, v.Neighbors("m2"))
}

func TestOnChangeFiresPerRecompute(t *testing.T) {
	v := NewView(paperGraph())
	calls := 0
	v.OnChange(func() { calls++ })
	v.Toggle("method")
	v.Toggle("method")
	v.SetActive([]string{"dataset"})
	assert.Equal(t, 3, calls)
}
