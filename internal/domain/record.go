package domain

// Record is one classified entity. Kind is the terminal node type; the zero
// value means Drug.
type Record struct {
	Kind           NodeType
	Name           string
	Classification ClassificationPath
}

func (r Record) Terminal() NodeType {
	if r.Kind.Valid() {
		return r.Kind
	}
	return NodeDrug
}

type Drug struct {
	DrugBankID        string
	Type              string
	Name              string
	State             string
	Groups            []string
	Salts             []string
	AffectedOrganisms []string
	ExternalLinks     []string
	FoodInteractions  []string
	DrugInteractions  []DrugInteraction
	Classification    *RawClassification
}

// DrugInteraction names another drug and describes the interaction.
type DrugInteraction struct {
	Name        string
	Description string
}

const (
	DrugTypeBiotech       = "biotech"
	DrugTypeSmallMolecule = "small molecule"
)

// Attributes are the node properties written for a drug. Drug interactions
// become two lists aligned by index, since graph properties hold flat lists.
func (d Drug) Attributes() map[string]any {
	names := make([]string, 0, len(d.DrugInteractions))
	descriptions := make([]string, 0, len(d.DrugInteractions))
	for _, in := range d.DrugInteractions {
		names = append(names, in.Name)
		descriptions = append(descriptions, in.Description)
	}
	return map[string]any{
		"drugbank_id":                   d.DrugBankID,
		"type":                          d.Type,
		"state":                         d.State,
		"groups":                        nonNil(d.Groups),
		"salts":                         nonNil(d.Salts),
		"affected_organisms":            nonNil(d.AffectedOrganisms),
		"external_links":                nonNil(d.ExternalLinks),
		"food_interactions":             nonNil(d.FoodInteractions),
		"drug_interactions":             names,
		"drug_interaction_descriptions": descriptions,
	}
}

type Disease struct {
	MeshID     string
	Name       string
	Definition string
	Synonyms   []string
}

func (d Disease) Attributes() map[string]any {
	return map[string]any{
		"do_id":      d.MeshID,
		"definition": d.Definition,
		"synonyms":   nonNil(d.Synonyms),
	}
}

// Association links a disease id to a drug id, as found in the
// disease-drug table.
type Association struct {
	DiseaseID string
	DrugID    string
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
