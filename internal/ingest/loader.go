package ingest

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/platform/logger"
)

// Sources names the input files. Only DrugBank is required; the disease
// files are read only when both are set.
type Sources struct {
	DrugBank     string
	Diseases     string
	Associations string
}

func (s Sources) WithDiseases() bool {
	return s.Diseases != "" && s.Associations != ""
}

// Dataset is everything the pipeline derives from.
type Dataset struct {
	DrugBank     *DrugBank
	Diseases     []domain.Disease
	Associations []domain.Association
}

// Load reads the configured sources concurrently. The first failure cancels
// the others.
func Load(ctx context.Context, src Sources, log *logger.Logger) (*Dataset, error) {
	if log == nil {
		log = logger.Nop()
	}
	if src.DrugBank == "" {
		return nil, fmt.Errorf("ingest: drugbank path is required")
	}
	log = log.With("component", "Ingest")

	ds := &Dataset{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f, err := os.Open(src.DrugBank)
		if err != nil {
			return fmt.Errorf("ingest: open drugbank: %w", err)
		}
		defer f.Close()
		db, err := ReadDrugBank(gctx, f, log)
		if err != nil {
			return err
		}
		ds.DrugBank = db
		return nil
	})

	if src.WithDiseases() {
		g.Go(func() error {
			f, err := os.Open(src.Diseases)
			if err != nil {
				return fmt.Errorf("ingest: open diseases: %w", err)
			}
			defer f.Close()
			out, err := ReadDiseases(f, log)
			if err != nil {
				return err
			}
			ds.Diseases = out
			return nil
		})
		g.Go(func() error {
			f, err := os.Open(src.Associations)
			if err != nil {
				return fmt.Errorf("ingest: open disease-drug: %w", err)
			}
			defer f.Close()
			out, err := ReadAssociations(f)
			if err != nil {
				return err
			}
			ds.Associations = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}
