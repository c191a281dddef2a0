package db

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(DriverSQLite, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testGraph(state string) *upsert.Graph {
	return &upsert.Graph{
		Kingdoms: []string{"Organic compounds"},
		Drugs: []upsert.NodeSpec{{
			Type:       domain.NodeDrug,
			Name:       "Aspirin",
			Attributes: map[string]any{"state": state, "groups": []string{"approved"}},
		}},
		Relationships: []domain.Edge{
			domain.NewEdge(domain.NodeRoot, domain.RootName, domain.NodeKingdom, "Organic compounds"),
			domain.NewEdge(domain.NodeKingdom, "Organic compounds", domain.NodeDrug, "Aspirin"),
		},
		Diseases: []upsert.NodeSpec{{Type: domain.NodeDisease, Name: "Pain"}},
		DiseaseRelations: []domain.Edge{
			domain.NewEdge(domain.NodeDisease, "Pain", domain.NodeDrug, "Aspirin"),
		},
	}
}

func TestStoreRunIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := upsert.NewDriver(s, nil).Run(ctx, testGraph("solid"))
		require.NoError(t, err)
	}

	nodes, edges, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), nodes)
	assert.Equal(t, int64(3), edges)

	out, err := s.EdgesFrom(ctx, domain.NodeDrug, "Aspirin")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Disease", out[0].ToType)
	assert.Equal(t, domain.RelIndicates, out[0].Label)
}

func TestStoreModes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := upsert.NewDriver(s, nil).Run(ctx, testGraph("solid"))
	require.NoError(t, err)
	_, err = upsert.NewDriver(s, nil).Run(ctx, testGraph("liquid"))
	require.NoError(t, err)
	assert.Equal(t, "solid", stateOf(t, s))

	s.SetMode(upsert.ModeUpdate)
	_, err = upsert.NewDriver(s, nil).Run(ctx, testGraph("liquid"))
	require.NoError(t, err)
	assert.Equal(t, "liquid", stateOf(t, s))
}

func stateOf(t *testing.T, s *Store) string {
	t.Helper()
	n, err := s.GetNode(context.Background(), domain.NodeDrug, "Aspirin")
	require.NoError(t, err)
	var attrs map[string]any
	require.NoError(t, json.Unmarshal(n.Attributes, &attrs))
	state, _ := attrs["state"].(string)
	return state
}

func TestStoreMissingEndpointIsFatal(t *testing.T) {
	s := openTestStore(t)
	g := &upsert.Graph{
		Relationships: []domain.Edge{
			domain.NewEdge(domain.NodeRoot, domain.RootName, domain.NodeKingdom, "Nowhere"),
		},
	}
	_, err := upsert.NewDriver(s, nil).Run(context.Background(), g)
	require.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "", nil)
	assert.Error(t, err)
}
