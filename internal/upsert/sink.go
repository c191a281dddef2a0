package upsert

import (
	"context"
	"errors"

	"github.com/yungbote/drugsgraph/internal/domain"
)

// ErrConstraintViolation marks an item the sink refused because of a
// uniqueness constraint. The driver skips such items and keeps going.
var ErrConstraintViolation = errors.New("upsert: uniqueness constraint violated")

// NodeSpec is a node to create, with its properties.
type NodeSpec struct {
	Type       domain.NodeType
	Name       string
	Attributes map[string]any
}

// Tx is the per-batch handle a sink hands to the driver. Both operations must
// be idempotent.
type Tx interface {
	CreateNodeIfAbsent(ctx context.Context, n NodeSpec) error
	CreateEdgeIfAbsent(ctx context.Context, e domain.Edge) error
}

// Sink runs fn once per batch. An error returned from Batch that does not wrap
// ErrConstraintViolation is fatal for the run.
type Sink interface {
	Batch(ctx context.Context, fn func(tx Tx) error) error
}

// Mode selects how existing nodes are treated.
type Mode string

const (
	// ModeCreate writes attributes only when a node is first created.
	ModeCreate Mode = "create"
	// ModeUpdate also overwrites attributes of nodes that already exist.
	ModeUpdate Mode = "update"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCreate, "":
		return ModeCreate, nil
	case ModeUpdate:
		return ModeUpdate, nil
	default:
		return "", errors.New("upsert: mode must be create or update")
	}
}
