package ingest

import (
	"errors"
	"fmt"
	"io"

	"github.com/yungbote/drugsgraph/internal/domain"
)

const (
	colAssocDisease = "Disease"
	colAssocDrug    = "Drug"
)

// ReadAssociations reads the disease-drug table: one MeSH disease id and one
// DrugBank id per row.
func ReadAssociations(r io.Reader) ([]domain.Association, error) {
	tr, err := newTSVReader("disease-drug", r, colAssocDisease, colAssocDrug)
	if err != nil {
		return nil, err
	}
	var out []domain.Association
	for {
		row, err := tr.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		a := domain.Association{DiseaseID: row[colAssocDisease], DrugID: row[colAssocDrug]}
		if a.DiseaseID == "" || a.DrugID == "" {
			return nil, fmt.Errorf("ingest: disease-drug: line %d: empty id", tr.line)
		}
		out = append(out, a)
	}
}
