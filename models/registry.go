package models

import "math"

// TypeRegistry maps entity types to their visual styling. It is injected
// configuration: new entity types need a registry entry, not an engine
// change.
type TypeRegistry struct {
	Colors       map[string]string
	Labels       map[string]string
	Sizes        map[string]float64
	DefaultColor string
	DefaultSize  float64
	BaseRadius   float64
}

// DefaultRegistry returns the styling for the entity types produced by
// the paper analysis pipeline.
func DefaultRegistry() *TypeRegistry {
	return &TypeRegistry{
		Colors: map[string]string{
			"research_problem": "#EA4335",
			"method":           "#4285F4",
			"innovation":       "#673AB7",
			"dataset":          "#34A853",
			"metric":           "#FBBC05",
			"baseline":         "#00BCD4",
			"tool":             "#FF5722",
			"theory":           "#3F51B5",
		},
		Labels: map[string]string{
			"research_problem": "Research Problem",
			"method":           "Method",
			"innovation":       "Innovation",
			"dataset":          "Dataset",
			"metric":           "Metric",
			"baseline":         "Baseline",
			"tool":             "Tool",
			"theory":           "Theory",
		},
		Sizes: map[string]float64{
			"research_problem": 3.0,
			"method":           2.5,
			"innovation":       2.5,
			"dataset":          2.0,
			"theory":           2.0,
			"metric":           1.5,
			"baseline":         1.5,
			"tool":             1.0,
		},
		DefaultColor: "#808080",
		DefaultSize:  1.0,
		BaseRadius:   8.0,
	}
}

// Color returns the render color for a type.
func (r *TypeRegistry) Color(nodeType string) string {
	if c, ok := r.Colors[nodeType]; ok {
		return c
	}
	return r.DefaultColor
}

// Label returns the display name for a type, falling back to the key.
func (r *TypeRegistry) Label(nodeType string) string {
	if l, ok := r.Labels[nodeType]; ok {
		return l
	}
	return nodeType
}

// Size returns the default size scalar for a type.
func (r *TypeRegistry) Size(nodeType string) float64 {
	if s, ok := r.Sizes[nodeType]; ok {
		return s
	}
	return r.DefaultSize
}

// Radius converts a node's size scalar into a rendered radius. Sizes
// below one are floored so every node stays hittable.
func (r *TypeRegistry) Radius(size float64) float64 {
	if size < 1 {
		size = 1
	}
	return r.BaseRadius * math.Sqrt(size)
}

// NodeRadius returns the rendered radius for a node, using the type
// default when the node carries no size.
func (r *TypeRegistry) NodeRadius(n GraphNode) float64 {
	size := n.Size
	if size <= 0 {
		size = r.Size(n.Type)
	}
	return r.Radius(size)
}
