package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/platform/logger"
	"github.com/yungbote/drugsgraph/internal/platform/neo4jdb"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

const constraintViolationCode = "Neo.ClientError.Schema.ConstraintValidationFailed"

// DrugsGraph writes the drugs graph into Neo4j. Every node is keyed by its
// name within its label.
type DrugsGraph struct {
	client *neo4jdb.Client
	log    *logger.Logger
	mode   upsert.Mode
}

func NewDrugsGraph(client *neo4jdb.Client, log *logger.Logger, mode upsert.Mode) *DrugsGraph {
	if log == nil {
		log = logger.Nop()
	}
	if mode == "" {
		mode = upsert.ModeCreate
	}
	return &DrugsGraph{client: client, log: log.With("sink", "Neo4jDrugsGraph"), mode: mode}
}

// Batch opens one write session for the batch. Items run as separate
// auto-commit statements so a constraint failure on one does not roll back
// the others.
func (g *DrugsGraph) Batch(ctx context.Context, fn func(tx upsert.Tx) error) error {
	if g.client == nil || g.client.Driver == nil {
		return fmt.Errorf("neo4j drugs graph: client not initialized")
	}
	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)
	return fn(&neo4jTx{run: session, mode: g.mode})
}

// DeleteNode removes a node and its relationships.
func (g *DrugsGraph) DeleteNode(ctx context.Context, t domain.NodeType, name string) (int, error) {
	if g.client == nil || g.client.Driver == nil {
		return 0, fmt.Errorf("neo4j drugs graph: client not initialized")
	}
	q, err := deleteNodeQuery(t)
	if err != nil {
		return 0, err
	}
	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, q, map[string]any{"name": name})
		if err != nil {
			return 0, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return 0, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return 0, fmt.Errorf("neo4j drugs graph: delete %s %q: %w", t, name, err)
	}
	n, _ := deleted.(int)
	g.log.Info("node deleted", "type", t.String(), "name", name, "deleted", n)
	return n, nil
}

type runner interface {
	Run(ctx context.Context, cypher string, params map[string]any, configurers ...func(*neo4j.TransactionConfig)) (neo4j.ResultWithContext, error)
}

type neo4jTx struct {
	run  runner
	mode upsert.Mode
}

func (t *neo4jTx) CreateNodeIfAbsent(ctx context.Context, n upsert.NodeSpec) error {
	q, err := nodeQuery(n.Type, t.mode)
	if err != nil {
		return err
	}
	props := n.Attributes
	if props == nil {
		props = map[string]any{}
	}
	return t.exec(ctx, q, map[string]any{"name": n.Name, "props": props})
}

func (t *neo4jTx) CreateEdgeIfAbsent(ctx context.Context, e domain.Edge) error {
	q, err := edgeQuery(e)
	if err != nil {
		return err
	}
	from, to := e.Oriented()
	return t.exec(ctx, q, map[string]any{"from": from.Name, "to": to.Name})
}

func (t *neo4jTx) exec(ctx context.Context, q string, params map[string]any) error {
	res, err := t.run.Run(ctx, q, params)
	if err != nil {
		return classify(err)
	}
	if _, err := res.Consume(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps a uniqueness failure onto upsert.ErrConstraintViolation and
// leaves every other error as is.
func classify(err error) error {
	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) && nerr.Code == constraintViolationCode {
		return fmt.Errorf("%w: %v", upsert.ErrConstraintViolation, err)
	}
	return err
}

func label(t domain.NodeType) (string, error) {
	l := t.Label()
	if l == "" {
		return "", fmt.Errorf("neo4j drugs graph: %w: %d", domain.ErrUnknownNodeType, uint8(t))
	}
	return l, nil
}

func nodeQuery(t domain.NodeType, mode upsert.Mode) (string, error) {
	l, err := label(t)
	if err != nil {
		return "", err
	}
	set := "ON CREATE SET n += $props"
	if mode == upsert.ModeUpdate {
		set = "SET n += $props"
	}
	return "MERGE (n:" + l + " {name: $name}) " + set, nil
}

func edgeQuery(e domain.Edge) (string, error) {
	from, to := e.Oriented()
	fl, err := label(from.Type)
	if err != nil {
		return "", err
	}
	tl, err := label(to.Type)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("MATCH (a:")
	b.WriteString(fl)
	b.WriteString(" {name: $from}), (b:")
	b.WriteString(tl)
	b.WriteString(" {name: $to}) MERGE (a)-[:")
	b.WriteString(e.RelationshipLabel())
	b.WriteString("]->(b)")
	return b.String(), nil
}

func deleteNodeQuery(t domain.NodeType) (string, error) {
	l, err := label(t)
	if err != nil {
		return "", err
	}
	return "MATCH (n:" + l + " {name: $name}) DETACH DELETE n", nil
}
