package taxonomy

import (
	"slices"

	"github.com/yungbote/drugsgraph/internal/domain"
)

// NameSet is a set of node names.
type NameSet map[string]struct{}

func (s NameSet) Add(name string) { s[name] = struct{}{} }

func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in ascending order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

type Sets struct {
	Kingdoms     NameSet
	Superclasses NameSet
	Classes      NameSet
	Subclasses   NameSet
	Parents      NameSet
}

func newSets() Sets {
	return Sets{
		Kingdoms:     NameSet{},
		Superclasses: NameSet{},
		Classes:      NameSet{},
		Subclasses:   NameSet{},
		Parents:      NameSet{},
	}
}

// ForType returns the set holding names of the given taxonomy type, or nil.
func (s Sets) ForType(t domain.NodeType) NameSet {
	switch t {
	case domain.NodeKingdom:
		return s.Kingdoms
	case domain.NodeSuperclass:
		return s.Superclasses
	case domain.NodeClass:
		return s.Classes
	case domain.NodeSubclass:
		return s.Subclasses
	case domain.NodeParent:
		return s.Parents
	default:
		return nil
	}
}

// BuildSets collects the distinct taxonomy names of every path. A direct
// parent that repeats another level of its own path is left out, exactly as
// Derive attaches such a record without a Parent node. The check is per path:
// a parent equal to a level of some other record still gets its Parent node,
// because Derive emits edges to it.
func BuildSets(paths []domain.ClassificationPath) Sets {
	sets := newSets()
	for _, p := range paths {
		for _, rank := range domain.ChainRanks {
			if v, ok := p.At(rank).Get(); ok {
				sets.ForType(rank.NodeType()).Add(v)
			}
		}
		if v, ok := p.Parent.Get(); ok && !p.ParentIsSynonym() {
			sets.Parents.Add(v)
		}
	}
	return sets
}

// BuildSetsFromRecords is BuildSets over the records' paths.
func BuildSetsFromRecords(records []domain.Record) Sets {
	paths := make([]domain.ClassificationPath, 0, len(records))
	for _, r := range records {
		paths = append(paths, r.Classification)
	}
	return BuildSets(paths)
}
