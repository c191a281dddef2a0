package taxonomy

import "github.com/yungbote/drugsgraph/internal/domain"

// LevelCounts maps a name to the number of records carrying it, per level.
type LevelCounts struct {
	Kingdoms     map[string]int
	Superclasses map[string]int
	Classes      map[string]int
	Subclasses   map[string]int
}

func CountLevels(paths []domain.ClassificationPath) LevelCounts {
	c := LevelCounts{
		Kingdoms:     map[string]int{},
		Superclasses: map[string]int{},
		Classes:      map[string]int{},
		Subclasses:   map[string]int{},
	}
	for _, p := range paths {
		bump(c.Kingdoms, p.Kingdom)
		bump(c.Superclasses, p.Superclass)
		bump(c.Classes, p.Class)
		bump(c.Subclasses, p.Subclass)
	}
	return c
}

func bump(m map[string]int, n domain.Name) {
	if v, ok := n.Get(); ok {
		m[v]++
	}
}
