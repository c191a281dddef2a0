package taxonomy

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yungbote/drugsgraph/internal/domain"
)

var ErrMissingJoinKey = errors.New("taxonomy: association references unknown id")

// JoinError reports an association row whose drug or disease id has no
// matching record.
type JoinError struct {
	Row  int
	Kind domain.NodeType
	Key  string
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("taxonomy: association row %d: unknown %s id %q", e.Row, e.Kind, e.Key)
}

func (e *JoinError) Unwrap() error { return ErrMissingJoinKey }

// DiseaseRelations joins the association table against drugs (by DrugBank
// id) and diseases (by MeSH id). It returns the diseases referenced by at
// least one association, in their input order, and one
// (Disease, diseaseName, Drug, drugName) edge per distinct pair.
// An unknown id on either side fails the whole join.
func DiseaseRelations(
	drugs []domain.Drug,
	diseases []domain.Disease,
	associations []domain.Association,
) ([]domain.Disease, *domain.EdgeSet, error) {
	drugNames := make(map[string]string, len(drugs))
	for _, d := range drugs {
		drugNames[d.DrugBankID] = d.Name
	}
	diseaseNames := make(map[string]string, len(diseases))
	for _, d := range diseases {
		diseaseNames[d.MeshID] = d.Name
	}

	used := make(map[string]struct{})
	edges := domain.NewEdgeSet()
	for i, a := range associations {
		diseaseName, ok := diseaseNames[a.DiseaseID]
		if !ok {
			return nil, nil, &JoinError{Row: i, Kind: domain.NodeDisease, Key: a.DiseaseID}
		}
		drugName, ok := drugNames[a.DrugID]
		if !ok {
			return nil, nil, &JoinError{Row: i, Kind: domain.NodeDrug, Key: a.DrugID}
		}
		used[a.DiseaseID] = struct{}{}
		edges.Add(domain.NewEdge(domain.NodeDisease, diseaseName, domain.NodeDrug, drugName))
	}

	referenced := slices.DeleteFunc(slices.Clone(diseases), func(d domain.Disease) bool {
		_, ok := used[d.MeshID]
		return !ok
	})
	return referenced, edges, nil
}
