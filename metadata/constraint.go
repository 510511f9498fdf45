package metadata

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// MetaConstraint is an opaque constraint declaration. The merger only
// relies on its identity: two constraints with the same ConstraintKey are
// the same constraint.
type MetaConstraint interface {
	ConstraintKey() string
}

// Param is a single named constraint attribute.
type Param struct {
	Name  string
	Value string
}

// Constraint is the MetaConstraint produced by the tag, descriptor and
// programmatic sources: a constraint name with attributes and groups.
type Constraint struct {
	name   string
	params []Param // sorted by name
	groups []Group // sorted, never just [DefaultGroup]
}

// NewConstraint creates a constraint. Params and groups are copied and
// sorted; a group list consisting only of DefaultGroup is normalized away
// so that "NotNull" and "NotNull in Default" are the same constraint.
func NewConstraint(name string, params map[string]string, groups ...Group) Constraint {
	c := Constraint{name: strings.TrimSpace(name)}

	for k, v := range params {
		c.params = append(c.params, Param{Name: k, Value: v})
	}

	slices.SortFunc(c.params, func(a, b Param) int { return strings.Compare(a.Name, b.Name) })

	for _, g := range groups {
		if g != "" && !slices.Contains(c.groups, g) {
			c.groups = append(c.groups, g)
		}
	}

	slices.Sort(c.groups)

	if len(c.groups) == 1 && c.groups[0] == DefaultGroup {
		c.groups = nil
	}

	return c
}

// Name returns the constraint name, e.g. "NotNull".
func (c Constraint) Name() string {
	return c.name
}

// Param returns the value of the named attribute.
func (c Constraint) Param(name string) (string, bool) {
	i, found := slices.BinarySearchFunc(c.params, name, func(p Param, n string) int {
		return strings.Compare(p.Name, n)
	})
	if !found {
		return "", false
	}

	return c.params[i].Value, true
}

// Params returns a copy of the attributes, sorted by name.
func (c Constraint) Params() []Param {
	return slices.Clone(c.params)
}

// Groups returns a copy of the groups; empty means the default group.
func (c Constraint) Groups() []Group {
	return slices.Clone(c.groups)
}

// ConstraintKey returns the identity of the constraint.
func (c Constraint) ConstraintKey() string {
	return c.render(true)
}

// String returns the constraint in the tag syntax, e.g. "Size(max=64,min=1)".
func (c Constraint) String() string {
	return c.render(false)
}

func (c Constraint) render(quote bool) string {
	var b strings.Builder

	b.WriteString(c.name)

	if len(c.params) == 0 && len(c.groups) == 0 {
		return b.String()
	}

	b.WriteByte('(')

	for i, p := range c.params {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(p.Name)
		b.WriteByte('=')

		if quote {
			b.WriteString(strconv.Quote(p.Value))
		} else {
			b.WriteString(quoteIfNeeded(p.Value))
		}
	}

	if len(c.groups) > 0 {
		if len(c.params) > 0 {
			b.WriteByte(',')
		}

		b.WriteString(groupsParam)
		b.WriteByte('=')

		parts := make([]string, len(c.groups))
		for i, g := range c.groups {
			parts[i] = string(g)
		}

		b.WriteString(strings.Join(parts, "|"))
	}

	b.WriteByte(')')

	return b.String()
}

// ConstraintSet is an immutable set of constraints, deduplicated by
// ConstraintKey and iterated in key order. The zero value is empty.
type ConstraintSet struct {
	items []MetaConstraint
	keys  []string
}

// NewConstraintSet builds a set. Nil entries are dropped; when two entries
// share a key the later one is kept.
func NewConstraintSet(constraints ...MetaConstraint) ConstraintSet {
	var s ConstraintSet
	for _, c := range constraints {
		s = s.with(c)
	}

	return s
}

// with returns a copy of s containing c, replacing any entry with c's key.
func (s ConstraintSet) with(c MetaConstraint) ConstraintSet {
	if c == nil {
		return s
	}

	key := c.ConstraintKey()
	i, found := slices.BinarySearch(s.keys, key)

	items := slices.Clone(s.items)
	keys := slices.Clone(s.keys)

	if found {
		items[i] = c
		return ConstraintSet{items: items, keys: keys}
	}

	return ConstraintSet{
		items: slices.Insert(items, i, c),
		keys:  slices.Insert(keys, i, key),
	}
}

// Len returns the number of constraints.
func (s ConstraintSet) Len() int {
	return len(s.items)
}

// IsEmpty returns true if the set holds no constraint.
func (s ConstraintSet) IsEmpty() bool {
	return len(s.items) == 0
}

// Contains returns true if a constraint with c's key is in the set.
func (s ConstraintSet) Contains(c MetaConstraint) bool {
	if c == nil {
		return false
	}

	return s.ContainsKey(c.ConstraintKey())
}

// ContainsKey returns true if a constraint with the given key is in the set.
func (s ConstraintSet) ContainsKey(key string) bool {
	_, found := slices.BinarySearch(s.keys, key)
	return found
}

// All iterates over the constraints in key order.
func (s ConstraintSet) All() iter.Seq[MetaConstraint] {
	return slices.Values(s.items)
}

// Slice returns a copy of the constraints in key order.
func (s ConstraintSet) Slice() []MetaConstraint {
	return slices.Clone(s.items)
}

// Keys returns a copy of the constraint keys in order.
func (s ConstraintSet) Keys() []string {
	return slices.Clone(s.keys)
}

// Union returns a set with the constraints of both sets. On a key
// collision the constraint from other is kept.
func (s ConstraintSet) Union(other ConstraintSet) ConstraintSet {
	if other.IsEmpty() {
		return s
	}

	if s.IsEmpty() {
		return other
	}

	out := s
	for _, c := range other.items {
		out = out.with(c)
	}

	return out
}

// Equal returns true if both sets hold the same keys.
func (s ConstraintSet) Equal(other ConstraintSet) bool {
	return slices.Equal(s.keys, other.keys)
}

// String renders the set as "{A, B}".
func (s ConstraintSet) String() string {
	parts := make([]string, len(s.items))
	for i, c := range s.items {
		if st, ok := c.(interface{ String() string }); ok {
			parts[i] = st.String()
		} else {
			parts[i] = s.keys[i]
		}
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
