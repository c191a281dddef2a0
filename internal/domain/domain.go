// Package domain holds the value types shared by the derivation engine and
// the sinks: node types, classification paths, typed edges and the drug and
// disease records they are derived from.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// NodeType is the closed set of node kinds in the drugs graph. Each type is a
// separate name namespace.
type NodeType uint8

const (
	NodeInvalid NodeType = iota
	NodeRoot
	NodeUnclassified
	NodeKingdom
	NodeSuperclass
	NodeClass
	NodeSubclass
	NodeParent
	NodeDrug
	NodeDisease
)

const (
	RootName         = "Kingdoms"
	UnclassifiedName = "Unclassified"
)

var ErrUnknownNodeType = errors.New("domain: unknown node type")

var nodeTypeNames = [...]string{
	NodeInvalid:      "",
	NodeRoot:         "Root",
	NodeUnclassified: "Unclassified",
	NodeKingdom:      "Kingdom",
	NodeSuperclass:   "Superclass",
	NodeClass:        "Class",
	NodeSubclass:     "Subclass",
	NodeParent:       "Parent",
	NodeDrug:         "Drug",
	NodeDisease:      "Disease",
}

// NodeTypes lists every valid node type in creation order.
func NodeTypes() []NodeType {
	return []NodeType{
		NodeRoot, NodeUnclassified, NodeKingdom, NodeSuperclass, NodeClass,
		NodeSubclass, NodeParent, NodeDrug, NodeDisease,
	}
}

func (t NodeType) Valid() bool {
	return t > NodeInvalid && int(t) < len(nodeTypeNames)
}

func (t NodeType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("NodeType(%d)", uint8(t))
	}
	return nodeTypeNames[t]
}

// Label is the label used for the node in a graph store. It is only ever
// taken from this table, never from caller input.
func (t NodeType) Label() string {
	if !t.Valid() {
		return ""
	}
	return nodeTypeNames[t]
}

func ParseNodeType(s string) (NodeType, error) {
	s = strings.TrimSpace(s)
	for _, t := range NodeTypes() {
		if strings.EqualFold(nodeTypeNames[t], s) {
			return t, nil
		}
	}
	return NodeInvalid, fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
}

func (t NodeType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNodeType, uint8(t))
	}
	return []byte(nodeTypeNames[t]), nil
}

func (t *NodeType) UnmarshalText(b []byte) error {
	parsed, err := ParseNodeType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
