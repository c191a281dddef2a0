package upsert

import (
	"fmt"

	"github.com/yungbote/drugsgraph/internal/domain"
)

// Graph is everything one run writes: taxonomy node names per type, the drug
// and disease attribute tables, and both edge collections. It is built once
// and treated as read-only by the driver.
type Graph struct {
	Kingdoms     []string
	Superclasses []string
	Classes      []string
	Subclasses   []string
	Parents      []string

	Drugs         []NodeSpec
	Relationships []domain.Edge

	Diseases         []NodeSpec
	DiseaseRelations []domain.Edge
}

// Validate checks every node and edge type before anything reaches a sink.
func (g *Graph) Validate() error {
	if g == nil {
		return fmt.Errorf("upsert: nil graph")
	}
	for _, coll := range [][]NodeSpec{g.Drugs, g.Diseases} {
		for i, n := range coll {
			if !n.Type.Valid() {
				return fmt.Errorf("upsert: node %d (%q): %w", i, n.Name, domain.ErrUnknownNodeType)
			}
			if n.Name == "" {
				return fmt.Errorf("upsert: %s node %d has empty name", n.Type, i)
			}
		}
	}
	for _, coll := range [][]domain.Edge{g.Relationships, g.DiseaseRelations} {
		for i, e := range coll {
			if !e.Valid() {
				return fmt.Errorf("upsert: edge %d %s: %w", i, e, domain.ErrUnknownNodeType)
			}
		}
	}
	return nil
}

func namesToSpecs(t domain.NodeType, names []string) []NodeSpec {
	out := make([]NodeSpec, 0, len(names))
	for _, n := range names {
		out = append(out, NodeSpec{Type: t, Name: n})
	}
	return out
}
