// Package graphml keeps a typed drugs graph in memory and serializes it as
// GraphML. The graph doubles as an upsert sink for the batch driver.
package graphml

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

var (
	ErrUnknownNode = errors.New("graphml: edge endpoint does not exist")
	// ErrKindConflict is returned when a node id is already taken by a node
	// of another type.
	ErrKindConflict = errors.New("graphml: node id taken by another kind")
)

const (
	// ListDelimiter joins list attribute values.
	ListDelimiter = "|"

	AttrKind  = "kind"
	AttrName  = "name"
	AttrLabel = "label"
)

type Node struct {
	ID    string
	Attrs map[string]string
}

type Edge struct {
	Source string
	Target string
	Attrs  map[string]string
}

type edgeKey struct {
	source, target, label string
}

// Graph is an insertion-ordered directed graph with string attributes. Not
// safe for concurrent use.
type Graph struct {
	mode    upsert.Mode
	nodes   map[string]*Node
	order   []string
	edges   []*Edge
	edgeIdx map[edgeKey]int
}

func New(mode upsert.Mode) *Graph {
	if mode == "" {
		mode = upsert.ModeCreate
	}
	return &Graph{
		mode:    mode,
		nodes:   make(map[string]*Node),
		edgeIdx: make(map[edgeKey]int),
	}
}

// SetMode changes how AddNode treats existing nodes.
func (g *Graph) SetMode(m upsert.Mode) { g.mode = m }

// AddNode creates the node if absent and reports whether it was created. In
// update mode the attributes of an existing node are overwritten key by key.
func (g *Graph) AddNode(id string, attrs map[string]string) bool {
	if n, ok := g.nodes[id]; ok {
		if g.mode == upsert.ModeUpdate {
			for k, v := range attrs {
				n.Attrs[k] = v
			}
		}
		return false
	}
	n := &Node{ID: id, Attrs: make(map[string]string, len(attrs))}
	for k, v := range attrs {
		n.Attrs[k] = v
	}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return true
}

// AddEdge links two existing nodes. An edge with the same endpoints and label
// is added only once.
func (g *Graph) AddEdge(from, to string, attrs map[string]string) (bool, error) {
	if _, ok := g.nodes[from]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownNode, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownNode, to)
	}
	key := edgeKey{source: from, target: to, label: attrs[AttrLabel]}
	if _, ok := g.edgeIdx[key]; ok {
		return false, nil
	}
	e := &Edge{Source: from, Target: to, Attrs: make(map[string]string, len(attrs))}
	for k, v := range attrs {
		e.Attrs[k] = v
	}
	g.edgeIdx[key] = len(g.edges)
	g.edges = append(g.edges, e)
	return true, nil
}

func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (g *Graph) HasEdge(from, to, label string) bool {
	_, ok := g.edgeIdx[edgeKey{source: from, target: to, label: label}]
	return ok
}

func (g *Graph) NodeCount() int { return len(g.order) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.nodes[id])
	}
	return out
}

func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	return out
}

// NodeID is the file identity of a node. Drugs are keyed by their own name;
// every other type is prefixed with the type so that a drug, a disease or a
// taxonomy level sharing a name stay distinct nodes.
func NodeID(t domain.NodeType, name string) string {
	if t == domain.NodeDrug {
		return name
	}
	return t.String() + ":" + name
}

// Flatten converts attribute values to strings. Lists are joined with
// ListDelimiter and nil becomes the empty string.
func Flatten(attrs map[string]any) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case []string:
			out[k] = strings.Join(t, ListDelimiter)
		case []any:
			parts := make([]string, 0, len(t))
			for _, p := range t {
				parts = append(parts, fmt.Sprint(p))
			}
			out[k] = strings.Join(parts, ListDelimiter)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}

// Batch implements upsert.Sink. There is no I/O; the whole batch applies to
// the in-memory graph.
func (g *Graph) Batch(_ context.Context, fn func(tx upsert.Tx) error) error {
	return fn(graphTx{g: g})
}

type graphTx struct {
	g *Graph
}

func (t graphTx) CreateNodeIfAbsent(_ context.Context, n upsert.NodeSpec) error {
	if !n.Type.Valid() {
		return fmt.Errorf("graphml: %w", domain.ErrUnknownNodeType)
	}
	id := NodeID(n.Type, n.Name)
	kind := n.Type.String()
	// A drug named like "Disease:Malaria" would otherwise merge into the
	// disease node.
	if existing, ok := t.g.nodes[id]; ok && existing.Attrs[AttrKind] != kind {
		return fmt.Errorf("%w: %q is %s, not %s", ErrKindConflict, id, existing.Attrs[AttrKind], kind)
	}
	attrs := Flatten(n.Attributes)
	attrs[AttrKind] = kind
	attrs[AttrName] = n.Name
	t.g.AddNode(id, attrs)
	return nil
}

func (t graphTx) CreateEdgeIfAbsent(_ context.Context, e domain.Edge) error {
	if !e.Valid() {
		return fmt.Errorf("graphml: %w", domain.ErrUnknownNodeType)
	}
	from, to := e.Oriented()
	_, err := t.g.AddEdge(
		NodeID(from.Type, from.Name),
		NodeID(to.Type, to.Name),
		map[string]string{AttrLabel: e.RelationshipLabel()},
	)
	return err
}

func attrNames(maps []map[string]string) []string {
	seen := map[string]struct{}{}
	for _, m := range maps {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
