package metadata

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Group names a validation group.
type Group string

// DefaultGroup is the group constraints belong to when none is named.
const DefaultGroup Group = "Default"

// GroupConversions is an immutable mapping from the group being validated
// to the group used when cascading into an element. The zero value is empty.
type GroupConversions struct {
	m map[Group]Group
}

// NewGroupConversions validates and copies m. A nil map yields an empty
// value. A conversion with an empty group or from a group to itself is
// rejected with a *GroupConversionError matching ErrMalformedGroupConversion.
func NewGroupConversions(m map[Group]Group) (GroupConversions, error) {
	if len(m) == 0 {
		return GroupConversions{}, nil
	}

	out := make(map[Group]Group, len(m))

	for _, from := range slices.Sorted(maps.Keys(m)) {
		to := m[from]
		if from == "" || to == "" || from == to {
			return GroupConversions{}, &GroupConversionError{From: from, To: to, Err: ErrMalformedGroupConversion}
		}

		out[from] = to
	}

	return GroupConversions{m: out}, nil
}

// Len returns the number of conversions.
func (g GroupConversions) Len() int {
	return len(g.m)
}

// IsEmpty returns true if there is no conversion.
func (g GroupConversions) IsEmpty() bool {
	return len(g.m) == 0
}

// Get returns the target group for from.
func (g GroupConversions) Get(from Group) (Group, bool) {
	to, ok := g.m[from]
	return to, ok
}

// Convert returns the group to validate when cascading while validating
// group; it returns group unchanged if no conversion applies.
func (g GroupConversions) Convert(group Group) Group {
	if to, ok := g.m[group]; ok {
		return to
	}

	return group
}

// All iterates over the conversions ordered by source group.
func (g GroupConversions) All() iter.Seq2[Group, Group] {
	return func(yield func(Group, Group) bool) {
		for _, from := range slices.Sorted(maps.Keys(g.m)) {
			if !yield(from, g.m[from]) {
				return
			}
		}
	}
}

// Map returns a mutable copy of the conversions.
func (g GroupConversions) Map() map[Group]Group {
	out := make(map[Group]Group, len(g.m))
	maps.Copy(out, g.m)

	return out
}

// Equal returns true if both values hold the same conversions.
func (g GroupConversions) Equal(other GroupConversions) bool {
	return maps.Equal(g.m, other.m)
}

// String renders the conversions as "{A->B, C->D}".
func (g GroupConversions) String() string {
	var parts []string
	for from, to := range g.All() {
		parts = append(parts, string(from)+"->"+string(to))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
