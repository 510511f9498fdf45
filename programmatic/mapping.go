package programmatic

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"constraint-meta/metadata"
)

var (
	// ErrDuplicateElement is returned when an element is configured twice.
	ErrDuplicateElement = errors.New("element configured more than once")
	// ErrInvalidConstraint wraps constraint text that does not parse.
	ErrInvalidConstraint = errors.New("invalid constraint")
	// ErrConversionWithoutCascade is returned for group conversions on a
	// non-cascading element.
	ErrConversionWithoutCascade = errors.New("group conversion requires cascading")
	// ErrNotInMethod is returned when a parameter, cross-parameter or
	// return value is configured outside of a method.
	ErrNotInMethod = errors.New("not within a method")
	// ErrInvalidMethod is returned when a method reference cannot be used.
	ErrInvalidMethod = errors.New("invalid method reference")
)

// Mapping collects constraint configuration built in code. All records it
// produces are tagged metadata.SourceAPI.
type Mapping struct {
	types []*TypeContext
	index map[string]*TypeContext
	errs  []error
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: map[string]*TypeContext{}}
}

// Type starts or continues the configuration of the named type. Use
// TypeOf to get the name of a Go type.
func (m *Mapping) Type(name string) *TypeContext {
	if t, ok := m.index[name]; ok {
		return t
	}

	t := &TypeContext{mapping: m, name: name}
	m.types = append(m.types, t)
	m.index[name] = t

	return t
}

// Name identifies the source in logs and errors.
func (m *Mapping) Name() string {
	return "api"
}

// Provide returns the records of the mapping.
func (m *Mapping) Provide(ctx context.Context) ([]metadata.ConstrainedElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return m.Elements()
}

// IgnoredTypes returns the sorted names of types configured with
// IgnoreAnnotations.
func (m *Mapping) IgnoredTypes() []string {
	var out []string

	for _, t := range m.types {
		if t.ignore {
			out = append(out, t.name)
		}
	}

	slices.Sort(out)

	return out
}

// Elements builds the records in configuration order. All configuration
// errors are reported together.
func (m *Mapping) Elements() ([]metadata.ConstrainedElement, error) {
	errs := slices.Clone(m.errs)

	var out []metadata.ConstrainedElement

	add := func(e metadata.ConstrainedElement, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}

		out = append(out, e)
	}

	for _, t := range m.types {
		if len(t.constraints) > 0 {
			add(metadata.NewType(metadata.SourceAPI, t.name, metadata.Attributes{Constraints: t.constraints}))
		}

		for _, ec := range t.elements {
			if ec.hasConversions() && !ec.attrs.Cascading {
				errs = append(errs, fmt.Errorf("%s: %w", ec.describe(), ErrConversionWithoutCascade))
				continue
			}

			add(ec.build())
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return out, nil
}

func (m *Mapping) fail(err error) {
	m.errs = append(m.errs, err)
}
