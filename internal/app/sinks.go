package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/yungbote/drugsgraph/internal/data/db"
	"github.com/yungbote/drugsgraph/internal/data/graph"
	"github.com/yungbote/drugsgraph/internal/data/graphml"
	"github.com/yungbote/drugsgraph/internal/platform/logger"
	"github.com/yungbote/drugsgraph/internal/platform/neo4jdb"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

// Neo4jSink owns the driver client behind a DrugsGraph.
type Neo4jSink struct {
	*graph.DrugsGraph
	client *neo4jdb.Client
}

func (s *Neo4jSink) Close(ctx context.Context) error { return s.client.Close(ctx) }

func OpenNeo4j(ctx context.Context, cfg Config, mode upsert.Mode, log *logger.Logger) (*Neo4jSink, error) {
	if err := cfg.ValidateNeo4j(); err != nil {
		return nil, err
	}
	client, err := neo4jdb.New(ctx, cfg.Neo4jClientConfig(), log)
	if err != nil {
		return nil, err
	}
	return &Neo4jSink{DrugsGraph: graph.NewDrugsGraph(client, log, mode), client: client}, nil
}

// OpenGraphML returns the graph to publish into. Create starts empty; update
// loads the input file (the output file when no input is set) and merges
// into it.
func OpenGraphML(cfg Config, mode upsert.Mode, log *logger.Logger) (*graphml.Graph, error) {
	if err := cfg.ValidateGraphML(); err != nil {
		return nil, err
	}
	if mode != upsert.ModeUpdate {
		return graphml.New(mode), nil
	}
	in := cfg.GraphML.Input
	if in == "" {
		in = cfg.GraphML.Output
	}
	g, err := graphml.ReadFile(in, mode)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("graphml input not found, starting empty", "path", in)
		return graphml.New(mode), nil
	}
	if err != nil {
		return nil, err
	}
	log.Info("graphml loaded", "path", in, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

func SaveGraphML(cfg Config, g *graphml.Graph, log *logger.Logger) error {
	if fileExists(cfg.GraphML.Output) {
		log.Info("replacing graphml file", "path", cfg.GraphML.Output)
	}
	if err := g.WriteFile(cfg.GraphML.Output); err != nil {
		return fmt.Errorf("app: save graphml: %w", err)
	}
	log.Info("graphml written", "path", cfg.GraphML.Output, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

func OpenStore(cfg Config, mode upsert.Mode, log *logger.Logger) (*db.Store, error) {
	if err := cfg.ValidateStore(); err != nil {
		return nil, err
	}
	s, err := db.Open(cfg.Store.Driver, cfg.Store.DSN, log)
	if err != nil {
		return nil, err
	}
	s.SetMode(mode)
	return s, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
