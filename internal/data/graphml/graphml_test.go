package graphml

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/upsert"
)

func sampleGraph() *upsert.Graph {
	return &upsert.Graph{
		Kingdoms:     []string{"Organic compounds"},
		Superclasses: []string{"Benzenoids"},
		Classes:      []string{"Benzene and substituted derivatives"},
		Drugs: []upsert.NodeSpec{{
			Type: domain.NodeDrug,
			Name: "Aspirin",
			Attributes: map[string]any{
				"drugbank_id": "DB00945",
				"groups":      []string{"approved", "vet_approved"},
				"salts":       []string{},
			},
		}},
		Relationships: []domain.Edge{
			domain.NewEdge(domain.NodeRoot, domain.RootName, domain.NodeKingdom, "Organic compounds"),
			domain.NewEdge(domain.NodeKingdom, "Organic compounds", domain.NodeSuperclass, "Benzenoids"),
			domain.NewEdge(domain.NodeSuperclass, "Benzenoids", domain.NodeClass, "Benzene and substituted derivatives"),
			domain.NewEdge(domain.NodeClass, "Benzene and substituted derivatives", domain.NodeDrug, "Aspirin"),
			domain.NewEdge(domain.NodeRoot, domain.RootName, domain.NodeUnclassified, domain.UnclassifiedName),
		},
		Diseases: []upsert.NodeSpec{{Type: domain.NodeDisease, Name: "Pain", Attributes: map[string]any{"do_id": "D010146"}}},
		DiseaseRelations: []domain.Edge{
			domain.NewEdge(domain.NodeDisease, "Pain", domain.NodeDrug, "Aspirin"),
		},
	}
}

func TestDriverBuildsGraph(t *testing.T) {
	g := New(upsert.ModeCreate)
	_, err := upsert.NewDriver(g, nil).Run(context.Background(), sampleGraph())
	require.NoError(t, err)

	assert.Equal(t, 7, g.NodeCount())
	assert.Equal(t, 6, g.EdgeCount())

	n, ok := g.Node("Aspirin")
	require.True(t, ok)
	assert.Equal(t, "Drug", n.Attrs[AttrKind])
	assert.Equal(t, "approved|vet_approved", n.Attrs["groups"])
	assert.Equal(t, "", n.Attrs["salts"])

	_, ok = g.Node("Kingdom:Organic compounds")
	assert.True(t, ok)
	_, ok = g.Node("Root:" + domain.RootName)
	assert.True(t, ok)

	assert.True(t, g.HasEdge("Class:Benzene and substituted derivatives", "Aspirin", "HAS_DRUG"))
	assert.True(t, g.HasEdge("Aspirin", "Disease:Pain", domain.RelIndicates))
}

func TestAddEdgeUnknownEndpoint(t *testing.T) {
	g := New("")
	g.AddNode("a", nil)
	_, err := g.AddEdge("a", "b", nil)
	require.ErrorIs(t, err, ErrUnknownNode)

	g.AddNode("b", nil)
	added, err := g.AddEdge("a", "b", map[string]string{AttrLabel: "X"})
	require.NoError(t, err)
	assert.True(t, added)
	added, err = g.AddEdge("a", "b", map[string]string{AttrLabel: "X"})
	require.NoError(t, err)
	assert.False(t, added)
}

func TestAddNodeModes(t *testing.T) {
	g := New(upsert.ModeCreate)
	assert.True(t, g.AddNode("x", map[string]string{"state": "solid"}))
	assert.False(t, g.AddNode("x", map[string]string{"state": "liquid"}))
	n, _ := g.Node("x")
	assert.Equal(t, "solid", n.Attrs["state"])

	g.SetMode(upsert.ModeUpdate)
	g.AddNode("x", map[string]string{"state": "liquid"})
	n, _ = g.Node("x")
	assert.Equal(t, "liquid", n.Attrs["state"])
}

func TestWriteReadRoundTrip(t *testing.T) {
	g := New(upsert.ModeCreate)
	_, err := upsert.NewDriver(g, nil).Run(context.Background(), sampleGraph())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.Write(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `edgedefault="directed"`)
	assert.Contains(t, out, `attr.name="label"`)

	back, err := Read(strings.NewReader(out), upsert.ModeCreate)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), back.Nodes())
	assert.Equal(t, g.Edges(), back.Edges())

	var again bytes.Buffer
	require.NoError(t, back.Write(&again))
	assert.Equal(t, out, again.String())
}

func TestUpdateExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "drugs.graphml")
	g := New(upsert.ModeCreate)
	_, err := upsert.NewDriver(g, nil).Run(context.Background(), sampleGraph())
	require.NoError(t, err)
	require.NoError(t, g.WriteFile(path))

	loaded, err := ReadFile(path, upsert.ModeUpdate)
	require.NoError(t, err)
	next := sampleGraph()
	next.Drugs[0].Attributes["drugbank_id"] = "DB99999"
	_, err = upsert.NewDriver(loaded, nil).Run(context.Background(), next)
	require.NoError(t, err)

	n, ok := loaded.Node("Aspirin")
	require.True(t, ok)
	assert.Equal(t, "DB99999", n.Attrs["drugbank_id"])
	assert.Equal(t, g.NodeCount(), loaded.NodeCount())
	assert.Equal(t, g.EdgeCount(), loaded.EdgeCount())
}

func TestReadRejectsDanglingEdge(t *testing.T) {
	doc := `<?xml version="1.0"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <graph edgedefault="directed">
    <node id="a"/>
    <edge source="a" target="missing"/>
  </graph>
</graphml>`
	_, err := Read(strings.NewReader(doc), "")
	require.ErrorIs(t, err, ErrUnknownNode)
}

func TestNodeID(t *testing.T) {
	assert.Equal(t, "Aspirin", NodeID(domain.NodeDrug, "Aspirin"))
	assert.Equal(t, "Root:Kingdoms", NodeID(domain.NodeRoot, domain.RootName))
	assert.Equal(t, "Disease:Aspirin", NodeID(domain.NodeDisease, "Aspirin"))
	assert.Equal(t, "Parent:Salicylic acids", NodeID(domain.NodeParent, "Salicylic acids"))
}

func TestDrugAndDiseaseSharingNameStayDistinct(t *testing.T) {
	g := New(upsert.ModeCreate)
	_, err := upsert.NewDriver(g, nil).Run(context.Background(), &upsert.Graph{
		Drugs:    []upsert.NodeSpec{{Type: domain.NodeDrug, Name: "Malaria", Attributes: map[string]any{"state": "solid"}}},
		Diseases: []upsert.NodeSpec{{Type: domain.NodeDisease, Name: "Malaria", Attributes: map[string]any{"do_id": "D008288"}}},
		DiseaseRelations: []domain.Edge{
			domain.NewEdge(domain.NodeDisease, "Malaria", domain.NodeDrug, "Malaria"),
		},
	})
	require.NoError(t, err)

	// Root, Unclassified, the drug and the disease.
	assert.Equal(t, 4, g.NodeCount())
	drug, ok := g.Node("Malaria")
	require.True(t, ok)
	assert.Equal(t, "Drug", drug.Attrs[AttrKind])
	disease, ok := g.Node("Disease:Malaria")
	require.True(t, ok)
	assert.Equal(t, "D008288", disease.Attrs["do_id"])
	assert.True(t, g.HasEdge("Malaria", "Disease:Malaria", domain.RelIndicates))
	assert.False(t, g.HasEdge("Malaria", "Malaria", domain.RelIndicates))
}

func TestDrugNamedLikeAnchorStaysDistinct(t *testing.T) {
	g := New(upsert.ModeCreate)
	_, err := upsert.NewDriver(g, nil).Run(context.Background(), &upsert.Graph{
		Drugs: []upsert.NodeSpec{{Type: domain.NodeDrug, Name: domain.RootName}},
	})
	require.NoError(t, err)

	root, ok := g.Node("Root:" + domain.RootName)
	require.True(t, ok)
	assert.Equal(t, "Root", root.Attrs[AttrKind])
	drug, ok := g.Node(domain.RootName)
	require.True(t, ok)
	assert.Equal(t, "Drug", drug.Attrs[AttrKind])
}

func TestCreateNodeRejectsKindConflict(t *testing.T) {
	g := New(upsert.ModeUpdate)
	err := g.Batch(context.Background(), func(tx upsert.Tx) error {
		if err := tx.CreateNodeIfAbsent(context.Background(), upsert.NodeSpec{Type: domain.NodeDisease, Name: "Malaria"}); err != nil {
			return err
		}
		return tx.CreateNodeIfAbsent(context.Background(), upsert.NodeSpec{Type: domain.NodeDrug, Name: "Disease:Malaria"})
	})
	require.ErrorIs(t, err, ErrKindConflict)

	n, ok := g.Node("Disease:Malaria")
	require.True(t, ok)
	assert.Equal(t, "Disease", n.Attrs[AttrKind])
}
