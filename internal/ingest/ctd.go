package ingest

import (
	"errors"
	"io"
	"strings"

	"github.com/yungbote/drugsgraph/internal/domain"
	"github.com/yungbote/drugsgraph/internal/platform/logger"
)

const (
	colDiseaseName = "Name"
	colMeshID      = "MESH_ID"
	colDefinitions = "Definitions"
	colSynonyms    = "Synonyms"
	meshPrefix     = "MESH:"
	synonymDelim   = "|"
	meshDescriptor = "D"
)

// ReadDiseases reads the CTD disease vocabulary. Ids lose their "MESH:"
// prefix and only descriptor ids (those containing "D") are kept; OMIM and
// other vocabularies are dropped.
func ReadDiseases(r io.Reader, log *logger.Logger) ([]domain.Disease, error) {
	if log == nil {
		log = logger.Nop()
	}
	tr, err := newTSVReader("ctd diseases", r, colDiseaseName, colMeshID)
	if err != nil {
		return nil, err
	}

	var out []domain.Disease
	dropped := 0
	for {
		row, err := tr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		id := strings.TrimPrefix(row[colMeshID], meshPrefix)
		if !strings.Contains(id, meshDescriptor) {
			dropped++
			continue
		}
		out = append(out, domain.Disease{
			MeshID:     id,
			Name:       row[colDiseaseName],
			Definition: row[colDefinitions],
			Synonyms:   splitList(row[colSynonyms]),
		})
	}
	log.Info("ctd diseases read", "kept", len(out), "dropped", dropped)
	return out, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, synonymDelim)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
