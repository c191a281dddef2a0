package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/platform/logger"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

var ErrMissingEndpoint = errors.New("store: edge endpoint not found")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store keeps graph snapshots in a relational database.
type Store struct {
	db   *gorm.DB
	log  *logger.Logger
	mode upsert.Mode
}

// Open connects with the named driver and migrates the snapshot tables.
func Open(driver, dsn string, logg *logger.Logger) (*Store, error) {
	if logg == nil {
		logg = logger.Nop()
	}
	var dial gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		dial = sqlite.Open(dsn)
	case DriverPostgres:
		dial = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dial, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if err := AutoMigrateAll(db); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	logg.Info("snapshot store ready", "driver", driver, "dsn", dsn)
	return NewStore(db, logg, upsert.ModeCreate), nil
}

func NewStore(db *gorm.DB, logg *logger.Logger, mode upsert.Mode) *Store {
	if logg == nil {
		logg = logger.Nop()
	}
	if mode == "" {
		mode = upsert.ModeCreate
	}
	return &Store{db: db, log: logg.With("sink", "SnapshotStore"), mode: mode}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) SetMode(m upsert.Mode) { s.mode = m }

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Batch runs fn inside one database transaction.
func (s *Store) Batch(ctx context.Context, fn func(tx upsert.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&storeTx{db: tx, mode: s.mode})
	})
}

// Counts reports stored nodes and edges.
func (s *Store) Counts(ctx context.Context) (nodes int64, edges int64, err error) {
	if err = s.db.WithContext(ctx).Model(&GraphNode{}).Count(&nodes).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.WithContext(ctx).Model(&GraphEdge{}).Count(&edges).Error; err != nil {
		return 0, 0, err
	}
	return nodes, edges, nil
}

func (s *Store) GetNode(ctx context.Context, t domain.NodeType, name string) (*GraphNode, error) {
	var n GraphNode
	err := s.db.WithContext(ctx).Where("node_type = ? AND name = ?", t.String(), name).Take(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// EdgesFrom lists edges leaving a node, ordered by target.
func (s *Store) EdgesFrom(ctx context.Context, t domain.NodeType, name string) ([]GraphEdge, error) {
	var out []GraphEdge
	err := s.db.WithContext(ctx).
		Where("from_type = ? AND from_name = ?", t.String(), name).
		Order("to_type, to_name").
		Find(&out).Error
	return out, err
}

type storeTx struct {
	db   *gorm.DB
	mode upsert.Mode
}

func (t *storeTx) CreateNodeIfAbsent(ctx context.Context, n upsert.NodeSpec) error {
	if !n.Type.Valid() {
		return fmt.Errorf("store: %w", domain.ErrUnknownNodeType)
	}
	attrs := n.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("store: attributes of %s %q: %w", n.Type, n.Name, err)
	}
	row := GraphNode{NodeType: n.Type.String(), Name: n.Name, Attributes: datatypes.JSON(raw)}

	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "node_type"}, {Name: "name"}},
		DoNothing: true,
	}
	if t.mode == upsert.ModeUpdate {
		conflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "node_type"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"attributes", "updated_at"}),
		}
	}
	return t.db.WithContext(ctx).Clauses(conflict).Create(&row).Error
}

func (t *storeTx) CreateEdgeIfAbsent(ctx context.Context, e domain.Edge) error {
	if !e.Valid() {
		return fmt.Errorf("store: %w", domain.ErrUnknownNodeType)
	}
	from, to := e.Oriented()
	for _, ep := range []domain.Endpoint{from, to} {
		var n int64
		err := t.db.WithContext(ctx).Model(&GraphNode{}).
			Where("node_type = ? AND name = ?", ep.Type.String(), ep.Name).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s %q", ErrMissingEndpoint, ep.Type, ep.Name)
		}
	}
	row := GraphEdge{
		FromType: from.Type.String(),
		FromName: from.Name,
		ToType:   to.Type.String(),
		ToName:   to.Name,
		Label:    e.RelationshipLabel(),
	}
	return t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "from_type"}, {Name: "from_name"}, {Name: "to_type"}, {Name: "to_name"},
		},
		DoNothing: true,
	}).Create(&row).Error
}
