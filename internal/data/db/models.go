package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GraphNode is one node of a stored graph snapshot.
type GraphNode struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	NodeType   string         `gorm:"column:node_type;not null;index:idx_graph_node,unique,priority:1" json:"node_type"`
	Name       string         `gorm:"column:name;not null;index:idx_graph_node,unique,priority:2" json:"name"`
	Attributes datatypes.JSON `gorm:"column:attributes" json:"attributes"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GraphNode) TableName() string { return "graph_nodes" }

func (n *GraphNode) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// GraphEdge is stored in its written direction (drug to disease for
// indications).
type GraphEdge struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FromType string    `gorm:"column:from_type;not null;index:idx_graph_edge,unique,priority:1" json:"from_type"`
	FromName string    `gorm:"column:from_name;not null;index:idx_graph_edge,unique,priority:2" json:"from_name"`
	ToType   string    `gorm:"column:to_type;not null;index:idx_graph_edge,unique,priority:3" json:"to_type"`
	ToName   string    `gorm:"column:to_name;not null;index:idx_graph_edge,unique,priority:4" json:"to_name"`
	Label    string    `gorm:"column:label;not null;index" json:"label"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (GraphEdge) TableName() string { return "graph_edges" }

func (e *GraphEdge) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&GraphNode{},
		&GraphEdge{},
	)
}
