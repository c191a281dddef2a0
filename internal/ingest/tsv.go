package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// tsvReader yields rows of a tab separated file as column maps keyed by the
// header row.
type tsvReader struct {
	source string
	r      *csv.Reader
	header []string
	line   int
}

func newTSVReader(source string, r io.Reader, required ...string) (*tsvReader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ingest: %s: empty file", source)
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: %s: header: %w", source, err)
	}
	t := &tsvReader{source: source, r: cr, line: 1}
	for _, h := range header {
		t.header = append(t.header, strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	for _, col := range required {
		if !t.has(col) {
			return nil, fmt.Errorf("ingest: %s: missing column %q", source, col)
		}
	}
	return t, nil
}

func (t *tsvReader) has(col string) bool {
	for _, h := range t.header {
		if h == col {
			return true
		}
	}
	return false
}

// next returns io.EOF after the last row.
func (t *tsvReader) next() (map[string]string, error) {
	rec, err := t.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("ingest: %s: line %d: %w", t.source, t.line+1, err)
	}
	t.line++
	row := make(map[string]string, len(t.header))
	for i, h := range t.header {
		if i < len(rec) {
			row[h] = strings.TrimSpace(rec[i])
		}
	}
	return row, nil
}
