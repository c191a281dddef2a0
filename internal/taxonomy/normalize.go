// Package taxonomy derives the classification graph: it normalizes raw
// classification blocks, builds the deduplicated taxonomy node sets and
// derives the typed edges connecting the root to every drug.
package taxonomy

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yungbote/drugsgraph/internal/domain"
)

// noneLiteral is what upstream serializers write for a missing value.
const noneLiteral = "None"

// Normalize turns a raw classification block into a ClassificationPath.
// A nil block yields the empty path.
func Normalize(raw *domain.RawClassification) domain.ClassificationPath {
	if raw == nil {
		return domain.ClassificationPath{}
	}
	return domain.ClassificationPath{
		Kingdom:    level(raw.Kingdom, TitleCase),
		Superclass: level(raw.Superclass, Capitalize),
		Class:      level(raw.Class, Capitalize),
		Subclass:   level(raw.Subclass, Capitalize),
		Parent:     level(raw.DirectParent, Capitalize),
	}
}

func level(v *string, format func(string) string) domain.Name {
	if v == nil {
		return domain.Absent
	}
	s := strings.TrimSpace(*v)
	if s == "" || s == noneLiteral {
		return domain.Absent
	}
	return domain.Present(format(s))
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// Capitalize lower-cases s and upper-cases its first letter.
func Capitalize(s string) string {
	s = cases.Lower(language.Und).String(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Records builds one drug record per drug, normalizing its classification.
func Records(drugs []domain.Drug) []domain.Record {
	out := make([]domain.Record, 0, len(drugs))
	for _, d := range drugs {
		out = append(out, domain.Record{
			Kind:           domain.NodeDrug,
			Name:           d.Name,
			Classification: Normalize(d.Classification),
		})
	}
	return out
}
