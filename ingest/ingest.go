// Package ingest builds graph payloads from raw extraction output. The
// analysis pipeline emits entities and relationships per paper; this
// package turns them into a deduplicated, size-bounded models.Graph
// ready for layout.
package ingest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/papergraph/papergraph/models"
)

// MaxNodes bounds the graph so the layout stays readable; entities are
// ranked by type weight times confidence before trimming.
const MaxNodes = 40

// MinConfidence drops low-quality extractions before deduplication.
const MinConfidence = 0.3

// RelationLabels maps machine relation keys to display labels.
var RelationLabels = map[string]string{
	"uses":          "uses",
	"evaluates_on":  "evaluates on",
	"improves":      "improves",
	"comparative":   "compared with",
	"part_of":       "part of",
	"causal":        "leads to",
	"co_occurrence": "related to",
}

// Entity is one extracted entity occurrence.
type Entity struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	Type       string  `json:"entity_type"`
	Confidence float64 `json:"confidence"`
	SectionID  string  `json:"section_id,omitempty"`
}

// Relationship is one extracted relation between two entities.
type Relationship struct {
	SourceID   string  `json:"source_entity_id"`
	TargetID   string  `json:"target_entity_id"`
	Relation   string  `json:"relation_type"`
	Confidence float64 `json:"confidence"`
}

// Builder assembles graph payloads from extraction output.
type Builder struct {
	registry *models.TypeRegistry
}

// NewBuilder creates a builder using the given type registry for size
// weighting. A nil registry falls back to the default.
func NewBuilder(registry *models.TypeRegistry) *Builder {
	if registry == nil {
		registry = models.DefaultRegistry()
	}
	return &Builder{registry: registry}
}

// Build produces a normalized graph from entities and relationships.
// Entities below the confidence floor are dropped; remaining entities are
// deduplicated by lowercased text keeping the highest confidence, ranked
// by importance, and capped at MaxNodes. Relationships survive only when
// both endpoints survive.
func (b *Builder) Build(entities []Entity, relationships []Relationship) *models.Graph {
	dedup := make(map[string]Entity)
	var order []string
	for _, ent := range entities {
		if ent.Confidence < MinConfidence || ent.ID == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(ent.Text))
		if key == "" {
			continue
		}
		if prev, ok := dedup[key]; !ok {
			dedup[key] = ent
			order = append(order, key)
		} else if ent.Confidence > prev.Confidence {
			dedup[key] = ent
		}
	}

	unique := make([]Entity, 0, len(dedup))
	for _, key := range order {
		unique = append(unique, dedup[key])
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return b.importance(unique[i]) > b.importance(unique[j])
	})
	if len(unique) > MaxNodes {
		unique = unique[:MaxNodes]
	}

	g := models.NewGraph()
	valid := make(map[string]bool, len(unique))
	for _, ent := range unique {
		valid[ent.ID] = true
		g.Nodes = append(g.Nodes, models.GraphNode{
			ID:    ent.ID,
			Label: ent.Text,
			Type:  ent.Type,
			Size:  b.registry.Size(ent.Type),
			Metadata: map[string]any{
				"confidence": ent.Confidence,
				"section_id": ent.SectionID,
			},
		})
	}
	for _, rel := range relationships {
		if !valid[rel.SourceID] || !valid[rel.TargetID] {
			continue
		}
		g.Edges = append(g.Edges, models.GraphEdge{
			Source:   rel.SourceID,
			Target:   rel.TargetID,
			Relation: rel.Relation,
			Label:    relationLabel(rel.Relation),
			Weight:   rel.Confidence,
		})
	}
	g.Normalize()
	return g
}

func (b *Builder) importance(ent Entity) float64 {
	return b.registry.Size(ent.Type) * ent.Confidence
}

func relationLabel(relation string) string {
	if label, ok := RelationLabels[relation]; ok {
		return label
	}
	return relation
}

// extractionPayload is the raw JSON shape emitted by the pipeline.
type extractionPayload struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// BuildFromJSON decodes raw extraction output and builds a graph.
func (b *Builder) BuildFromJSON(data []byte) (*models.Graph, error) {
	var payload extractionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding extraction payload: %w", err)
	}
	return b.Build(payload.Entities, payload.Relationships), nil
}
