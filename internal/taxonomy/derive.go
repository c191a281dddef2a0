package taxonomy

import "github.com/yungbote/drugsgraph/internal/domain"

var (
	rootEndpoint         = domain.Endpoint{Type: domain.NodeRoot, Name: domain.RootName}
	unclassifiedEndpoint = domain.Endpoint{Type: domain.NodeUnclassified, Name: domain.UnclassifiedName}
)

// RootToUnclassified is added once per derivation so the bucket hangs off the
// root no matter how many unclassified records there are.
var RootToUnclassified = domain.NewEdge(
	domain.NodeRoot, domain.RootName,
	domain.NodeUnclassified, domain.UnclassifiedName,
)

// Derive returns the edges connecting the root to every record through as
// much of its classification path as is present. Running it twice over the
// same records yields an equal set.
func Derive(records []domain.Record) *domain.EdgeSet {
	edges := domain.NewEdgeSet()
	for _, rec := range records {
		DeriveRecord(edges, rec)
	}
	edges.Add(RootToUnclassified)
	return edges
}

// DeriveRecord adds the edges of a single record to edges. The anchor is
// local to the call.
func DeriveRecord(edges *domain.EdgeSet, rec domain.Record) {
	path := rec.Classification
	terminal := domain.Endpoint{Type: rec.Terminal(), Name: rec.Name}

	var (
		last     domain.Endpoint
		anchored bool
	)
	for _, rank := range domain.ChainRanks {
		v, ok := path.At(rank).Get()
		if !ok {
			continue
		}
		node := domain.Endpoint{Type: rank.NodeType(), Name: v}
		// A level hangs under the closest shallower level present in this
		// record. When none is present (the kingdom itself, or a path that
		// starts lower) it hangs under the root. Missing middle levels are
		// skipped, not inferred.
		from := rootEndpoint
		if anchored {
			from = last
		}
		link(edges, from, node)
		last, anchored = node, true
	}

	if parent, ok := path.Parent.Get(); ok {
		if path.ParentIsSynonym() {
			link(edges, last, terminal)
			return
		}
		node := domain.Endpoint{Type: domain.NodeParent, Name: parent}
		from := rootEndpoint
		if anchored {
			from = last
		}
		link(edges, from, node)
		link(edges, node, terminal)
		return
	}

	if anchored {
		link(edges, last, terminal)
		return
	}
	link(edges, unclassifiedEndpoint, terminal)
}

func link(edges *domain.EdgeSet, from, to domain.Endpoint) {
	edges.Add(domain.NewEdge(from.Type, from.Name, to.Type, to.Name))
}
