package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Edge is a directed typed relationship. Read it as "FromName HAS_<ToType>
// ToName", except when FromType is Disease: then ToName (a drug) INDICATES
// FromName. Edges are comparable and can be used as map keys.
type Edge struct {
	FromType NodeType
	FromName string
	ToType   NodeType
	ToName   string
}

func NewEdge(fromType NodeType, fromName string, toType NodeType, toName string) Edge {
	return Edge{FromType: fromType, FromName: fromName, ToType: toType, ToName: toName}
}

const RelIndicates = "INDICATES"

func (e Edge) Valid() bool {
	return e.FromType.Valid() && e.ToType.Valid()
}

// RelationshipLabel is the relationship type written to a graph store.
func (e Edge) RelationshipLabel() string {
	if e.FromType == NodeDisease {
		return RelIndicates
	}
	return "HAS_" + strings.ToUpper(e.ToType.Label())
}

// Endpoint identifies a node by type and name.
type Endpoint struct {
	Type NodeType
	Name string
}

// Oriented returns the source and target in store direction. Disease edges
// flip so the drug points at the disease it is indicated for.
func (e Edge) Oriented() (from, to Endpoint) {
	a := Endpoint{Type: e.FromType, Name: e.FromName}
	b := Endpoint{Type: e.ToType, Name: e.ToName}
	if e.FromType == NodeDisease {
		return b, a
	}
	return a, b
}

func (e Edge) String() string {
	return fmt.Sprintf("(%s, %s, %s, %s)", e.FromType, e.FromName, e.ToType, e.ToName)
}

func CompareEdges(a, b Edge) int {
	return cmp.Or(
		cmp.Compare(a.FromType, b.FromType),
		cmp.Compare(a.FromName, b.FromName),
		cmp.Compare(a.ToType, b.ToType),
		cmp.Compare(a.ToName, b.ToName),
	)
}

// EdgeSet deduplicates edges by structural equality. Not safe for concurrent
// mutation.
type EdgeSet struct {
	m map[Edge]struct{}
}

func NewEdgeSet() *EdgeSet {
	return &EdgeSet{m: make(map[Edge]struct{})}
}

// Add inserts e and reports whether it was new.
func (s *EdgeSet) Add(e Edge) bool {
	if s.m == nil {
		s.m = make(map[Edge]struct{})
	}
	if _, ok := s.m[e]; ok {
		return false
	}
	s.m[e] = struct{}{}
	return true
}

func (s *EdgeSet) Has(e Edge) bool {
	if s == nil {
		return false
	}
	_, ok := s.m[e]
	return ok
}

func (s *EdgeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

func (s *EdgeSet) Merge(other *EdgeSet) {
	if other == nil {
		return
	}
	for e := range other.m {
		s.Add(e)
	}
}

// Sorted returns the edges ordered by (FromType, FromName, ToType, ToName).
func (s *EdgeSet) Sorted() []Edge {
	if s == nil {
		return nil
	}
	out := make([]Edge, 0, len(s.m))
	for e := range s.m {
		out = append(out, e)
	}
	slices.SortFunc(out, CompareEdges)
	return out
}
