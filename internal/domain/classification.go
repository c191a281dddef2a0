package domain

import "strings"

// Name is an optional classification value. The zero value is absent, which
// is never the same thing as a present empty string.
type Name struct {
	value   string
	present bool
}

func Present(v string) Name { return Name{value: v, present: true} }

var Absent = Name{}

func (n Name) Get() (string, bool) { return n.value, n.present }
func (n Name) IsPresent() bool     { return n.present }

func (n Name) String() string {
	if !n.present {
		return "<absent>"
	}
	return n.value
}

// Rank is a classification level, ordered from the most general down.
type Rank uint8

const (
	RankKingdom Rank = iota
	RankSuperclass
	RankClass
	RankSubclass
	RankParent
)

// ChainRanks are the levels walked before the direct parent.
var ChainRanks = [...]Rank{RankKingdom, RankSuperclass, RankClass, RankSubclass}

func (r Rank) NodeType() NodeType {
	switch r {
	case RankKingdom:
		return NodeKingdom
	case RankSuperclass:
		return NodeSuperclass
	case RankClass:
		return NodeClass
	case RankSubclass:
		return NodeSubclass
	case RankParent:
		return NodeParent
	default:
		return NodeInvalid
	}
}

// RawClassification is a classification block as it arrives from the source
// export. A nil field means the element was missing.
type RawClassification struct {
	Kingdom      *string
	Superclass   *string
	Class        *string
	Subclass     *string
	DirectParent *string
}

type ClassificationPath struct {
	Kingdom    Name
	Superclass Name
	Class      Name
	Subclass   Name
	Parent     Name
}

func (p ClassificationPath) At(r Rank) Name {
	switch r {
	case RankKingdom:
		return p.Kingdom
	case RankSuperclass:
		return p.Superclass
	case RankClass:
		return p.Class
	case RankSubclass:
		return p.Subclass
	case RankParent:
		return p.Parent
	default:
		return Absent
	}
}

// IsEmpty reports whether no level at all is present.
func (p ClassificationPath) IsEmpty() bool {
	for _, r := range ChainRanks {
		if p.At(r).IsPresent() {
			return false
		}
	}
	return !p.Parent.IsPresent()
}

// ParentIsSynonym reports whether the direct parent repeats, case-insensitively,
// another present level of the same path. Such a parent is not a node of its own.
func (p ClassificationPath) ParentIsSynonym() bool {
	parent, ok := p.Parent.Get()
	if !ok {
		return false
	}
	for _, r := range ChainRanks {
		if v, ok := p.At(r).Get(); ok && strings.EqualFold(v, parent) {
			return true
		}
	}
	return false
}
