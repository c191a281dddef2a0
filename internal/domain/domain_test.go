package domain

import (
	"errors"
	"testing"
)

func TestParseNodeType(t *testing.T) {
	for _, nt := range NodeTypes() {
		got, err := ParseNodeType(nt.String())
		if err != nil {
			t.Fatalf("ParseNodeType(%q): %v", nt.String(), err)
		}
		if got != nt {
			t.Fatalf("ParseNodeType(%q): want=%v got=%v", nt.String(), nt, got)
		}
	}
	if got, err := ParseNodeType("  subclass "); err != nil || got != NodeSubclass {
		t.Fatalf("ParseNodeType case-insensitive: got=%v err=%v", got, err)
	}
	_, err := ParseNodeType("Drug {name: 'x'}) DETACH DELETE n //")
	if !errors.Is(err, ErrUnknownNodeType) {
		t.Fatalf("expected ErrUnknownNodeType, got=%v", err)
	}
}

func TestInvalidNodeTypeHasNoLabel(t *testing.T) {
	if NodeInvalid.Valid() {
		t.Fatalf("NodeInvalid must not be valid")
	}
	if NodeType(42).Label() != "" {
		t.Fatalf("out-of-range type must have empty label")
	}
	var nt NodeType
	if err := nt.UnmarshalText([]byte("Plant")); err == nil {
		t.Fatalf("UnmarshalText: expected error")
	}
}

func TestRelationshipLabel(t *testing.T) {
	cases := []struct {
		edge Edge
		want string
	}{
		{NewEdge(NodeRoot, RootName, NodeKingdom, "Organic compounds"), "HAS_KINGDOM"},
		{NewEdge(NodeRoot, RootName, NodeUnclassified, UnclassifiedName), "HAS_UNCLASSIFIED"},
		{NewEdge(NodeSubclass, "Fatty acyls", NodeParent, "Fatty acids"), "HAS_PARENT"},
		{NewEdge(NodeParent, "Fatty acids", NodeDrug, "Example"), "HAS_DRUG"},
		{NewEdge(NodeDisease, "Asthma", NodeDrug, "Example"), "INDICATES"},
	}
	for _, tc := range cases {
		if got := tc.edge.RelationshipLabel(); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.edge, tc.want, got)
		}
	}
}

func TestDiseaseEdgeOrientedDrugToDisease(t *testing.T) {
	e := NewEdge(NodeDisease, "Asthma", NodeDrug, "Example")
	from, to := e.Oriented()
	if from != (Endpoint{Type: NodeDrug, Name: "Example"}) {
		t.Fatalf("from: got=%+v", from)
	}
	if to != (Endpoint{Type: NodeDisease, Name: "Asthma"}) {
		t.Fatalf("to: got=%+v", to)
	}

	e = NewEdge(NodeClass, "Lipids", NodeSubclass, "Fatty acyls")
	from, to = e.Oriented()
	if from.Type != NodeClass || to.Type != NodeSubclass {
		t.Fatalf("taxonomy edge must keep direction, got %+v -> %+v", from, to)
	}
}

func TestEdgeSetDeduplicatesAndSorts(t *testing.T) {
	s := NewEdgeSet()
	a := NewEdge(NodeKingdom, "Organic compounds", NodeSuperclass, "Lipids")
	b := NewEdge(NodeRoot, RootName, NodeKingdom, "Organic compounds")
	if !s.Add(a) || !s.Add(b) {
		t.Fatalf("first inserts must report new")
	}
	if s.Add(NewEdge(NodeKingdom, "Organic compounds", NodeSuperclass, "Lipids")) {
		t.Fatalf("structurally equal edge must not be added twice")
	}
	if s.Len() != 2 {
		t.Fatalf("Len: want=2 got=%d", s.Len())
	}
	sorted := s.Sorted()
	if sorted[0] != b || sorted[1] != a {
		t.Fatalf("Sorted: got=%v", sorted)
	}
}

func TestParentIsSynonym(t *testing.T) {
	p := ClassificationPath{
		Kingdom:  Present("Organic compounds"),
		Subclass: Present("Fatty acyls"),
		Parent:   Present("fatty ACYLS"),
	}
	if !p.ParentIsSynonym() {
		t.Fatalf("parent equal to subclass ignoring case must be a synonym")
	}
	p.Parent = Present("Fatty acids")
	if p.ParentIsSynonym() {
		t.Fatalf("distinct parent must not be a synonym")
	}
	p.Parent = Absent
	if p.ParentIsSynonym() {
		t.Fatalf("absent parent is never a synonym")
	}
}

func TestClassificationPathIsEmpty(t *testing.T) {
	if !(ClassificationPath{}).IsEmpty() {
		t.Fatalf("zero path must be empty")
	}
	if (ClassificationPath{Parent: Present("X")}).IsEmpty() {
		t.Fatalf("path with a parent is not empty")
	}
	if Present("").IsPresent() != true {
		t.Fatalf("present empty string stays present")
	}
}

func TestDrugAttributesNeverNilLists(t *testing.T) {
	attrs := Drug{Name: "Example", DrugBankID: "DB00001"}.Attributes()
	groups, ok := attrs["groups"].([]string)
	if !ok || groups == nil {
		t.Fatalf("groups: want empty slice got=%#v", attrs["groups"])
	}
	if names, ok := attrs["drug_interactions"].([]string); !ok || names == nil {
		t.Fatalf("drug_interactions: want empty slice got=%#v", attrs["drug_interactions"])
	}
}

func TestDrugInteractionAttributesAligned(t *testing.T) {
	attrs := Drug{
		Name:             "Aspirin",
		FoodInteractions: []string{"Take with food."},
		DrugInteractions: []DrugInteraction{
			{Name: "Bivalirudin", Description: "Bleeding risk."},
			{Name: "Warfarin", Description: ""},
		},
	}.Attributes()
	names := attrs["drug_interactions"].([]string)
	descs := attrs["drug_interaction_descriptions"].([]string)
	if len(names) != 2 || len(descs) != 2 {
		t.Fatalf("want 2 aligned entries got names=%v descriptions=%v", names, descs)
	}
	if names[1] != "Warfarin" || descs[0] != "Bleeding risk." {
		t.Fatalf("misaligned: names=%v descriptions=%v", names, descs)
	}
	if food := attrs["food_interactions"].([]string); len(food) != 1 {
		t.Fatalf("food_interactions: got=%v", food)
	}
}
