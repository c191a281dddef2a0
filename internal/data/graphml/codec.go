package graphml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yungbote/drugsgraph/internal/upsert"
)

const graphmlNS = "http://graphml.graphdrawing.org/xmlns"

type xmlGraphML struct {
	XMLName xml.Name `xml:"graphml"`
	XMLNS   string   `xml:"xmlns,attr,omitempty"`
	Keys    []xmlKey `xml:"key"`
	Graph   xmlGraph `xml:"graph"`
}

type xmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type xmlGraph struct {
	ID          string    `xml:"id,attr,omitempty"`
	EdgeDefault string    `xml:"edgedefault,attr"`
	Nodes       []xmlNode `xml:"node"`
	Edges       []xmlEdge `xml:"edge"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// Write serializes g as GraphML. Keys are numbered in name order, nodes and
// edges keep insertion order, so equal graphs produce equal bytes.
func (g *Graph) Write(w io.Writer) error {
	nodes := g.Nodes()
	edges := g.Edges()

	nodeAttrs := make([]map[string]string, 0, len(nodes))
	for _, n := range nodes {
		nodeAttrs = append(nodeAttrs, n.Attrs)
	}
	edgeAttrs := make([]map[string]string, 0, len(edges))
	for _, e := range edges {
		edgeAttrs = append(edgeAttrs, e.Attrs)
	}

	doc := xmlGraphML{XMLNS: graphmlNS, Graph: xmlGraph{ID: "G", EdgeDefault: "directed"}}
	nodeKeys := map[string]string{}
	for _, name := range attrNames(nodeAttrs) {
		id := fmt.Sprintf("d%d", len(doc.Keys))
		nodeKeys[name] = id
		doc.Keys = append(doc.Keys, xmlKey{ID: id, For: "node", Name: name, Type: "string"})
	}
	edgeKeys := map[string]string{}
	for _, name := range attrNames(edgeAttrs) {
		id := fmt.Sprintf("d%d", len(doc.Keys))
		edgeKeys[name] = id
		doc.Keys = append(doc.Keys, xmlKey{ID: id, For: "edge", Name: name, Type: "string"})
	}

	for _, n := range nodes {
		doc.Graph.Nodes = append(doc.Graph.Nodes, xmlNode{ID: n.ID, Data: dataFor(n.Attrs, nodeKeys)})
	}
	for _, e := range edges {
		doc.Graph.Edges = append(doc.Graph.Edges, xmlEdge{Source: e.Source, Target: e.Target, Data: dataFor(e.Attrs, edgeKeys)})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("graphml: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func dataFor(attrs map[string]string, keys map[string]string) []xmlData {
	names := attrNames([]map[string]string{attrs})
	out := make([]xmlData, 0, len(names))
	for _, name := range names {
		out = append(out, xmlData{Key: keys[name], Value: attrs[name]})
	}
	return out
}

// Read loads a GraphML document into a new graph in the given mode. Unknown
// data keys are kept under their key id.
func Read(r io.Reader, mode upsert.Mode) (*Graph, error) {
	var doc xmlGraphML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("graphml: decode: %w", err)
	}
	names := make(map[string]string, len(doc.Keys))
	for _, k := range doc.Keys {
		names[k.ID] = k.Name
	}
	attrs := func(data []xmlData) map[string]string {
		out := make(map[string]string, len(data))
		for _, d := range data {
			name := names[d.Key]
			if name == "" {
				name = d.Key
			}
			out[name] = d.Value
		}
		return out
	}

	// Loading replays the file as-is; the caller's mode applies afterwards.
	g := New(upsert.ModeCreate)
	for _, n := range doc.Graph.Nodes {
		g.AddNode(n.ID, attrs(n.Data))
	}
	for _, e := range doc.Graph.Edges {
		if _, err := g.AddEdge(e.Source, e.Target, attrs(e.Data)); err != nil {
			return nil, err
		}
	}
	if mode != "" {
		g.SetMode(mode)
	}
	return g, nil
}

func ReadFile(path string, mode upsert.Mode) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graphml: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, mode)
}

// WriteFile writes the graph to path, creating parent directories.
func (g *Graph) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("graphml: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graphml: create %s: %w", path, err)
	}
	if err := g.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
