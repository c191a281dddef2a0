// Package upsert writes a derived drugs graph into a sink in fixed-size
// batches. Nodes always go before the edges that reference them.
package upsert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/platform/logger"
)

const DefaultBatchSize = 200

// BatchProgress describes one finished batch. Start and End form the
// half-open range [Start, End) of the collection.
type BatchProgress struct {
	Collection string
	Start      int
	End        int
	Total      int
	Skipped    int
	Duration   time.Duration
}

type ProgressFunc func(BatchProgress)

// Stats summarizes one collection.
type Stats struct {
	Collection string
	Items      int
	Batches    int
	Skipped    int
}

func (s Stats) Written() int { return s.Items - s.Skipped }

type Report struct {
	Collections []Stats
}

func (r Report) Batches() int {
	n := 0
	for _, s := range r.Collections {
		n += s.Batches
	}
	return n
}

func (r Report) Skipped() int {
	n := 0
	for _, s := range r.Collections {
		n += s.Skipped
	}
	return n
}

type Driver struct {
	sink      Sink
	log       *logger.Logger
	batchSize int
	progress  ProgressFunc
	tracer    trace.Tracer
}

type Option func(*Driver)

func WithBatchSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

func WithProgress(fn ProgressFunc) Option {
	return func(d *Driver) { d.progress = fn }
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Driver) {
		if t != nil {
			d.tracer = t
		}
	}
}

func NewDriver(sink Sink, log *logger.Logger, opts ...Option) *Driver {
	if log == nil {
		log = logger.Nop()
	}
	d := &Driver{
		sink:      sink,
		log:       log.With("component", "UpsertDriver"),
		batchSize: DefaultBatchSize,
		tracer:    otel.Tracer("github.com/yungbote/drugsgraph/internal/upsert"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) BatchSize() int { return d.batchSize }

// Run writes g: the root and unclassified nodes first, then every node
// collection, then the edges. The first non-constraint error stops the run;
// batches already written stay written.
func (d *Driver) Run(ctx context.Context, g *Graph) (Report, error) {
	var report Report
	if d.sink == nil {
		return report, fmt.Errorf("upsert: sink required")
	}
	if err := g.Validate(); err != nil {
		return report, err
	}

	st, err := d.anchors(ctx)
	report.Collections = append(report.Collections, st)
	if err != nil {
		return report, err
	}

	steps := []struct {
		name    string
		nodes   []NodeSpec
		edges   []domain.Edge
		isEdges bool
	}{
		{name: "kingdoms", nodes: namesToSpecs(domain.NodeKingdom, g.Kingdoms)},
		{name: "superclasses", nodes: namesToSpecs(domain.NodeSuperclass, g.Superclasses)},
		{name: "classes", nodes: namesToSpecs(domain.NodeClass, g.Classes)},
		{name: "subclasses", nodes: namesToSpecs(domain.NodeSubclass, g.Subclasses)},
		{name: "parents", nodes: namesToSpecs(domain.NodeParent, g.Parents)},
		{name: "drugs", nodes: g.Drugs},
		{name: "relationships", edges: g.Relationships, isEdges: true},
		{name: "diseases", nodes: g.Diseases},
		{name: "disease-drug-relations", edges: g.DiseaseRelations, isEdges: true},
	}
	for _, s := range steps {
		if s.isEdges {
			st, err = d.UpsertEdges(ctx, s.name, s.edges)
		} else {
			st, err = d.UpsertNodes(ctx, s.name, s.nodes)
		}
		report.Collections = append(report.Collections, st)
		if err != nil {
			return report, err
		}
	}
	d.log.Info("graph upsert finished", "batches", report.Batches(), "skipped", report.Skipped())
	return report, nil
}

func (d *Driver) anchors(ctx context.Context) (Stats, error) {
	nodes := []NodeSpec{
		{Type: domain.NodeRoot, Name: domain.RootName},
		{Type: domain.NodeUnclassified, Name: domain.UnclassifiedName},
	}
	return d.UpsertNodes(ctx, "anchors", nodes)
}

func (d *Driver) UpsertNodes(ctx context.Context, name string, nodes []NodeSpec) (Stats, error) {
	return processBatches(ctx, d, name, nodes, func(ctx context.Context, tx Tx, n NodeSpec) error {
		return tx.CreateNodeIfAbsent(ctx, n)
	})
}

func (d *Driver) UpsertEdges(ctx context.Context, name string, edges []domain.Edge) (Stats, error) {
	return processBatches(ctx, d, name, edges, func(ctx context.Context, tx Tx, e domain.Edge) error {
		return tx.CreateEdgeIfAbsent(ctx, e)
	})
}

func processBatches[T any](
	ctx context.Context,
	d *Driver,
	name string,
	items []T,
	apply func(context.Context, Tx, T) error,
) (Stats, error) {
	st := Stats{Collection: name, Items: len(items)}
	total := len(items)
	for start := 0; start < total; start += d.batchSize {
		end := min(start+d.batchSize, total)
		batch := items[start:end]

		bctx, span := d.tracer.Start(ctx, "upsert.batch", trace.WithAttributes(
			attribute.String("collection", name),
			attribute.Int("batch.start", start),
			attribute.Int("batch.end", end),
		))
		began := time.Now()
		skipped := 0
		err := d.sink.Batch(bctx, func(tx Tx) error {
			// The sink may retry fn; count from scratch each time.
			skipped = 0
			for _, item := range batch {
				if err := apply(bctx, tx, item); err != nil {
					if errors.Is(err, ErrConstraintViolation) {
						skipped++
						continue
					}
					return err
				}
			}
			return nil
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return st, fmt.Errorf("upsert: %s [%d, %d): %w", name, start, end, err)
		}
		span.SetAttributes(attribute.Int("batch.skipped", skipped))
		span.End()

		st.Batches++
		st.Skipped += skipped
		d.log.Info("Processed batch", "collection", name, "from", start, "to", end, "skipped", skipped)
		if d.progress != nil {
			d.progress(BatchProgress{
				Collection: name,
				Start:      start,
				End:        end,
				Total:      total,
				Skipped:    skipped,
				Duration:   time.Since(began),
			})
		}
	}
	return st, nil
}
