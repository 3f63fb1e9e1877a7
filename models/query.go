package models

// FindNodeByID returns the node with the given id, or nil.
func (g *Graph) FindNodeByID(id string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// NodesByType returns all nodes of the given type, in payload order.
func (g *Graph) NodesByType(nodeType string) []GraphNode {
	var result []GraphNode
	for _, n := range g.Nodes {
		if n.Type == nodeType {
			result = append(result, n)
		}
	}
	return result
}

// ConnectedIDs returns the ids of nodes directly connected to the given
// node by any edge, ignoring edge direction.
func (g *Graph) ConnectedIDs(id string) map[string]bool {
	result := make(map[string]bool)
	for _, e := range g.Edges {
		if e.Source == id {
			result[e.Target] = true
		}
		if e.Target == id {
			result[e.Source] = true
		}
	}
	return result
}
