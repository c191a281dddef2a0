package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/ingest"
	"github.com/yungbote/drugsgraph/internal/observability"
	"github.com/yungbote/drugsgraph/internal/platform/logger"
	"github.com/yungbote/drugsgraph/internal/taxonomy"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

// Derived is the graph computed from one dataset, before any sink sees it.
type Derived struct {
	Drugs        []domain.Drug
	Records      []domain.Record
	Sets         taxonomy.Sets
	Edges        *domain.EdgeSet
	Diseases     []domain.Disease
	DiseaseEdges *domain.EdgeSet
}

// Derive turns an ingested dataset into taxonomy sets and edges. Disease
// relations are joined only when the dataset carries associations.
func Derive(ds *ingest.Dataset) (*Derived, error) {
	if ds == nil || ds.DrugBank == nil {
		return nil, fmt.Errorf("app: derive: dataset has no drugs")
	}
	drugs := ds.DrugBank.All()
	records := taxonomy.Records(drugs)
	out := &Derived{
		Drugs:        drugs,
		Records:      records,
		Sets:         taxonomy.BuildSetsFromRecords(records),
		Edges:        taxonomy.Derive(records),
		DiseaseEdges: domain.NewEdgeSet(),
	}
	if len(ds.Associations) > 0 {
		diseases, edges, err := taxonomy.DiseaseRelations(drugs, ds.Diseases, ds.Associations)
		if err != nil {
			return nil, fmt.Errorf("app: derive: %w", err)
		}
		out.Diseases = diseases
		out.DiseaseEdges = edges
	}
	return out, nil
}

func (d *Derived) Paths() []domain.ClassificationPath {
	out := make([]domain.ClassificationPath, 0, len(d.Records))
	for _, r := range d.Records {
		out = append(out, r.Classification)
	}
	return out
}

// Graph lays the derived data out in write order. Taxonomy names and edges
// are sorted; drugs and diseases keep input order.
func (d *Derived) Graph() *upsert.Graph {
	g := &upsert.Graph{
		Kingdoms:         d.Sets.Kingdoms.Sorted(),
		Superclasses:     d.Sets.Superclasses.Sorted(),
		Classes:          d.Sets.Classes.Sorted(),
		Subclasses:       d.Sets.Subclasses.Sorted(),
		Parents:          d.Sets.Parents.Sorted(),
		Relationships:    d.Edges.Sorted(),
		DiseaseRelations: d.DiseaseEdges.Sorted(),
	}
	for _, drug := range d.Drugs {
		g.Drugs = append(g.Drugs, upsert.NodeSpec{Type: domain.NodeDrug, Name: drug.Name, Attributes: drug.Attributes()})
	}
	for _, dis := range d.Diseases {
		g.Diseases = append(g.Diseases, upsert.NodeSpec{Type: domain.NodeDisease, Name: dis.Name, Attributes: dis.Attributes()})
	}
	return g
}

// LoadAndDerive reads the configured inputs and derives the graph.
func LoadAndDerive(ctx context.Context, cfg Config, log *logger.Logger) (*Derived, error) {
	ds, err := ingest.Load(ctx, cfg.Inputs.Sources(), log)
	if err != nil {
		return nil, err
	}
	d, err := Derive(ds)
	if err != nil {
		return nil, err
	}
	log.Info("graph derived",
		"drugs", len(d.Drugs),
		"kingdoms", len(d.Sets.Kingdoms),
		"superclasses", len(d.Sets.Superclasses),
		"classes", len(d.Sets.Classes),
		"subclasses", len(d.Sets.Subclasses),
		"parents", len(d.Sets.Parents),
		"relationships", d.Edges.Len(),
		"diseases", len(d.Diseases),
		"disease_relationships", d.DiseaseEdges.Len(),
	)
	return d, nil
}

// Publish writes g to sink under a fresh run id. When cfg.MetricsFile is set
// the batch metrics are written there even if the run fails.
func Publish(ctx context.Context, cfg Config, sink upsert.Sink, g *upsert.Graph, log *logger.Logger) (upsert.Report, error) {
	runID := uuid.New()
	log = log.With("run_id", runID.String())
	metrics := observability.NewUpsertMetrics()

	driver := upsert.NewDriver(sink, log,
		upsert.WithBatchSize(cfg.BatchSize),
		upsert.WithProgress(func(p upsert.BatchProgress) {
			metrics.ObserveBatch(p.Collection, p.End-p.Start, p.Skipped, p.Duration)
		}),
	)
	report, err := driver.Run(ctx, g)

	if cfg.MetricsFile != "" {
		if werr := metrics.WriteFile(cfg.MetricsFile); werr != nil {
			log.Warn("metrics file not written", "path", cfg.MetricsFile, "error", werr)
		}
	}
	if err != nil {
		log.Error("publish failed", "error", err, "batches", report.Batches())
		return report, err
	}
	log.Info("publish complete", "batches", report.Batches(), "skipped", report.Skipped())
	return report, nil
}
