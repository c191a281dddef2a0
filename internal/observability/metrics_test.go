package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestUpsertMetricsWritePrometheus(t *testing.T) {
	m := NewUpsertMetrics()
	m.ObserveBatch("drugs", 200, 1, 30*time.Millisecond)
	m.ObserveBatch("drugs", 50, 0, 2*time.Second)
	m.ObserveBatch("anchors", 2, 0, time.Millisecond)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`drugsgraph_upsert_batches_total{collection="drugs"} 2`,
		`drugsgraph_upsert_items_written_total{collection="drugs"} 249`,
		`drugsgraph_upsert_items_skipped_total{collection="drugs"} 1`,
		`drugsgraph_upsert_batch_seconds_bucket{collection="drugs",le="0.05"} 1`,
		`drugsgraph_upsert_batch_seconds_bucket{collection="drugs",le="+Inf"} 2`,
		`drugsgraph_upsert_batch_seconds_count{collection="drugs"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing line %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, `{collection="anchors"}`) > strings.Index(out, `{collection="drugs"}`) {
		t.Fatalf("series must be sorted by label")
	}
}

func TestUpsertMetricsWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drugsgraph.prom")
	m := NewUpsertMetrics()
	m.ObserveBatch("kingdoms", 3, 0, time.Millisecond)
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `drugsgraph_upsert_batches_total{collection="kingdoms"} 1`) {
		t.Fatalf("unexpected file contents:\n%s", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
