// Package ingest reads the source datasets: the DrugBank XML export, the CTD
// disease vocabulary and the disease-drug association table.
package ingest

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/platform/logger"
	"github.com/yungbote/drugsgraph/internal/taxonomy"
)

// DrugBank holds the drugs kept from an export, split by type.
type DrugBank struct {
	Biotech       []domain.Drug
	SmallMolecule []domain.Drug
}

// All returns biotech drugs followed by small molecules.
func (d *DrugBank) All() []domain.Drug {
	out := make([]domain.Drug, 0, len(d.Biotech)+len(d.SmallMolecule))
	out = append(out, d.Biotech...)
	return append(out, d.SmallMolecule...)
}

type xmlDrug struct {
	Type           string             `xml:"type,attr"`
	IDs            []xmlDrugBankID    `xml:"drugbank-id"`
	Name           *string            `xml:"name"`
	State          string             `xml:"state"`
	Groups         []string           `xml:"groups>group"`
	Salts          []string           `xml:"salts>salt>name"`
	Organisms      []string           `xml:"affected-organisms>affected-organism"`
	Links          []string           `xml:"external-links>external-link>url"`
	Food           []string           `xml:"food-interactions>food-interaction"`
	Interactions   []xmlInteraction   `xml:"drug-interactions>drug-interaction"`
	Classification *xmlClassification `xml:"classification"`
}

type xmlInteraction struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
}

type xmlDrugBankID struct {
	Primary bool   `xml:"primary,attr"`
	Value   string `xml:",chardata"`
}

type xmlClassification struct {
	Kingdom      *string `xml:"kingdom"`
	Superclass   *string `xml:"superclass"`
	Class        *string `xml:"class"`
	Subclass     *string `xml:"subclass"`
	DirectParent *string `xml:"direct-parent"`
}

// primaryID prefers the id flagged primary, then the first one.
func (x xmlDrug) primaryID() string {
	for _, id := range x.IDs {
		if id.Primary {
			return strings.TrimSpace(id.Value)
		}
	}
	if len(x.IDs) > 0 {
		return strings.TrimSpace(x.IDs[0].Value)
	}
	return ""
}

// ReadDrugBank streams the top-level drug elements of a DrugBank export.
// Drugs nested deeper (pathways, interactions) are not records of their own
// and are skipped along with their parent element's body.
func ReadDrugBank(ctx context.Context, r io.Reader, log *logger.Logger) (*DrugBank, error) {
	if log == nil {
		log = logger.Nop()
	}
	dec := xml.NewDecoder(r)
	out := &DrugBank{}
	depth := 0
	skipped := 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: drugbank: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth != 1 || t.Name.Local != "drug" {
				depth++
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var x xmlDrug
			if err := dec.DecodeElement(&x, &t); err != nil {
				return nil, fmt.Errorf("ingest: drugbank: decode drug: %w", err)
			}
			if x.Type != domain.DrugTypeBiotech && x.Type != domain.DrugTypeSmallMolecule {
				continue
			}
			drug, ok := toDrug(x)
			if !ok {
				skipped++
				log.Warn("drug without name skipped", "drugbank_id", x.primaryID())
				continue
			}
			switch drug.Type {
			case domain.DrugTypeBiotech:
				out.Biotech = append(out.Biotech, drug)
			case domain.DrugTypeSmallMolecule:
				out.SmallMolecule = append(out.SmallMolecule, drug)
			}
		case xml.EndElement:
			depth--
		}
	}

	log.Info("drugbank read",
		"biotech", len(out.Biotech),
		"small_molecule", len(out.SmallMolecule),
		"skipped", skipped,
	)
	return out, nil
}

func toDrug(x xmlDrug) (domain.Drug, bool) {
	if x.Name == nil || strings.TrimSpace(*x.Name) == "" {
		return domain.Drug{}, false
	}
	d := domain.Drug{
		DrugBankID:        x.primaryID(),
		Type:              x.Type,
		Name:              taxonomy.Capitalize(strings.TrimSpace(*x.Name)),
		State:             strings.TrimSpace(x.State),
		Groups:            x.Groups,
		Salts:             x.Salts,
		AffectedOrganisms: x.Organisms,
		ExternalLinks:     x.Links,
		FoodInteractions:  x.Food,
	}
	for _, in := range x.Interactions {
		d.DrugInteractions = append(d.DrugInteractions, domain.DrugInteraction{
			Name:        strings.TrimSpace(in.Name),
			Description: strings.TrimSpace(in.Description),
		})
	}
	if c := x.Classification; c != nil {
		d.Classification = &domain.RawClassification{
			Kingdom:      c.Kingdom,
			Superclass:   c.Superclass,
			Class:        c.Class,
			Subclass:     c.Subclass,
			DirectParent: c.DirectParent,
		}
	}
	return d, true
}
