package metadata

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"constraint-meta/internal/logger"
)

// Merger combines records describing the same program element into one
// record per identity. It is stateless apart from its configuration and
// safe for concurrent use.
type Merger struct {
	precedence Precedence
	log        *zap.Logger
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithLogger makes the merger log each collapsed group at debug level.
func WithLogger(log *zap.Logger) MergerOption {
	return func(m *Merger) {
		if log != nil {
			m.log = log
		}
	}
}

// NewMerger creates a merger ordering sources by p.
func NewMerger(p Precedence, opts ...MergerOption) *Merger {
	m := &Merger{
		precedence: p,
		log:        logger.Nop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Precedence returns the order the merger applies.
func (m *Merger) Precedence() Precedence {
	return m.precedence
}

// Merge returns one record per distinct identity in elements, sorted by
// identity and kind. Nil entries are skipped. The result does not depend
// on the order of elements. On error no records are returned.
func (m *Merger) Merge(elements []ConstrainedElement) ([]ConstrainedElement, error) {
	groups := make(map[Identity][]ConstrainedElement)

	var order []Identity

	for _, e := range elements {
		if e == nil {
			continue
		}

		if _, ok := m.precedence.Rank(e.Source()); !ok {
			return nil, fmt.Errorf("%w: %s from %s (order is %s)", ErrUnrankedSource, e.Identity(), e.Source(), m.precedence)
		}

		id := e.Identity()
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}

		groups[id] = append(groups[id], e)
	}

	out := make([]ConstrainedElement, 0, len(order))

	for _, id := range order {
		merged, err := m.mergeGroup(groups[id])
		if err != nil {
			return nil, err
		}

		out = append(out, merged)
	}

	slices.SortFunc(out, func(a, b ConstrainedElement) int {
		return cmp.Or(
			cmp.Compare(a.Identity().String(), b.Identity().String()),
			cmp.Compare(a.Kind(), b.Kind()),
		)
	})

	return out, nil
}

// mergeGroup merges records sharing one identity.
func (m *Merger) mergeGroup(group []ConstrainedElement) (ConstrainedElement, error) {
	if err := checkKinds(group); err != nil {
		return nil, err
	}

	if len(group) == 1 {
		return group[0], nil
	}

	ranked := slices.Clone(group)
	slices.SortStableFunc(ranked, func(a, b ConstrainedElement) int {
		return cmp.Or(cmp.Compare(m.rank(a), m.rank(b)), strings.Compare(digest(a), digest(b)))
	})

	top := ranked[len(ranked)-1]
	p := payload{source: top.Source()}

	conversions := make(map[Group]Group)
	convRank := make(map[Group]int)

	for _, e := range ranked {
		rank := m.rank(e)

		p.constraints = p.constraints.Union(e.Constraints())
		p.typeArgs = p.typeArgs.Union(e.TypeArgumentConstraints())
		p.cascading = p.cascading || e.IsCascading()

		for from, to := range e.GroupConversions().All() {
			if prev, ok := conversions[from]; ok && convRank[from] == rank && prev != to {
				return nil, &GroupConversionError{
					Element: e.Identity().String(),
					From:    from,
					To:      to,
					Other:   prev,
					Err:     ErrConflictingGroupConversion,
				}
			}

			conversions[from] = to
			convRank[from] = rank
		}
	}

	unwrap, err := m.unwrapPolicy(ranked)
	if err != nil {
		return nil, err
	}

	p.unwrap = unwrap
	p.conversions = GroupConversions{m: conversions}

	m.log.Debug("merged element",
		zap.Stringer("key", top.Key()),
		zap.Int("records", len(group)),
		zap.Stringer("source", p.source),
		zap.Int("constraints", p.constraints.Len()),
	)

	return top.rebuild(p, ranked), nil
}

// unwrapPolicy picks the policy of the highest ranked record that sets a
// non-default one. Ranked must be sorted lowest first.
func (m *Merger) unwrapPolicy(ranked []ConstrainedElement) (UnwrapPolicy, error) {
	for i := len(ranked) - 1; i >= 0; i-- {
		u := ranked[i].UnwrapPolicy()
		if u == UnwrapDefault {
			continue
		}

		rank := m.rank(ranked[i])
		for j := i - 1; j >= 0 && m.rank(ranked[j]) == rank; j-- {
			if other := ranked[j].UnwrapPolicy(); other != UnwrapDefault && other != u {
				return UnwrapDefault, fmt.Errorf("%w: %s is both %s and %s in %s",
					ErrConflictingUnwrapPolicy, ranked[i].Identity(), other, u, ranked[i].Source())
			}
		}

		return u, nil
	}

	return UnwrapDefault, nil
}

// digest renders everything a record carries besides its key, ordering
// equally ranked records by content rather than by input position.
func digest(e ConstrainedElement) string {
	var name string
	if n, ok := e.(interface{ Name() string }); ok {
		name = n.Name()
	}

	return fmt.Sprintf("%s|%s|%s|%s|%t|%s",
		name, e.Constraints(), e.TypeArgumentConstraints(), e.GroupConversions(), e.IsCascading(), e.UnwrapPolicy())
}

func (m *Merger) rank(e ConstrainedElement) int {
	r, _ := m.precedence.Rank(e.Source())
	return r
}

// checkKinds fails if the group mixes element kinds.
func checkKinds(group []ConstrainedElement) error {
	first := group[0]

	for _, e := range group[1:] {
		if e.Kind() != first.Kind() {
			return &KindConflictError{
				Identity: first.Identity(),
				Kinds:    []ElementKind{first.Kind(), e.Kind()},
				Sources:  []ConfigurationSource{first.Source(), e.Source()},
			}
		}
	}

	return nil
}

// MergeElements merges elements with a merger using precedence p.
func MergeElements(p Precedence, elements []ConstrainedElement) ([]ConstrainedElement, error) {
	return NewMerger(p).Merge(elements)
}
