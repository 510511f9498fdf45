package aggregate

import (
	"iter"
	"slices"
	"strings"

	"constraint-meta/metadata"
)

// TypeMetadata is the merged metadata of one declaring type.
type TypeMetadata struct {
	// Type is the qualified type name.
	Type string
	// Elements are the merged records, sorted by identity and kind.
	Elements []metadata.ConstrainedElement
}

// Element returns the record with the given key.
func (t TypeMetadata) Element(key metadata.Key) (metadata.ConstrainedElement, bool) {
	for _, e := range t.Elements {
		if e.Key() == key {
			return e, true
		}
	}

	return nil, false
}

// OfKind yields the records of the given kind.
func (t TypeMetadata) OfKind(kind metadata.ElementKind) iter.Seq[metadata.ConstrainedElement] {
	return func(yield func(metadata.ConstrainedElement) bool) {
		for _, e := range t.Elements {
			if e.Kind() == kind && !yield(e) {
				return
			}
		}
	}
}

// Constraints returns the number of constraints across all records.
func (t TypeMetadata) Constraints() int {
	n := 0
	for _, e := range t.Elements {
		n += e.Constraints().Len() + e.TypeArgumentConstraints().Len()
	}

	return n
}

// groupByType splits sorted records by declaring type, keeping their order.
func groupByType(elements []metadata.ConstrainedElement) []TypeMetadata {
	index := map[string]int{}

	var out []TypeMetadata

	for _, e := range elements {
		name := e.Identity().Type

		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, TypeMetadata{Type: name})
		}

		out[i].Elements = append(out[i].Elements, e)
	}

	slices.SortFunc(out, func(a, b TypeMetadata) int {
		return strings.Compare(a.Type, b.Type)
	})

	return out
}
