package metadata

import (
	"fmt"
	"strings"

	"constraint-meta/internal/common"
)

// ConfigurationSource tags where a piece of metadata originated.
type ConfigurationSource int

const (
	// SourceDefault marks metadata implied by the engine itself.
	SourceDefault ConfigurationSource = iota
	// SourceDeclaration marks metadata declared inline (struct tags).
	SourceDeclaration
	// SourceDescriptor marks metadata read from an external descriptor file.
	SourceDescriptor
	// SourceAPI marks metadata registered through the programmatic API.
	SourceAPI
)

// String returns a human-readable source name.
func (s ConfigurationSource) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceDeclaration:
		return "declaration"
	case SourceDescriptor:
		return "descriptor"
	case SourceAPI:
		return "api"
	default:
		return common.UnknownStr
	}
}

// IsValid returns true if the source is one of the known values.
func (s ConfigurationSource) IsValid() bool {
	return s >= SourceDefault && s <= SourceAPI
}

// ParseSource parses a source name. Besides the canonical names it accepts
// "annotation" and "tag" for declarations, "xml" and "file" for descriptors,
// and "programmatic" for the API.
func ParseSource(name string) (ConfigurationSource, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "default":
		return SourceDefault, nil
	case "declaration", "annotation", "tag":
		return SourceDeclaration, nil
	case "descriptor", "xml", "file":
		return SourceDescriptor, nil
	case "api", "programmatic":
		return SourceAPI, nil
	default:
		return 0, fmt.Errorf("unknown configuration source %q", name)
	}
}

// Precedence is a total order over configuration sources, lowest first.
// A record from a higher-ranked source overrides one from a lower-ranked
// source wherever the merge rules call for an override.
type Precedence struct {
	order []ConfigurationSource
	rank  map[ConfigurationSource]int
}

// NewPrecedence builds a precedence from sources listed lowest first.
// Every source may appear at most once.
func NewPrecedence(lowestFirst ...ConfigurationSource) (Precedence, error) {
	if len(lowestFirst) == 0 {
		return Precedence{}, fmt.Errorf("%w: no sources given", ErrInvalidPrecedence)
	}

	p := Precedence{
		order: make([]ConfigurationSource, 0, len(lowestFirst)),
		rank:  make(map[ConfigurationSource]int, len(lowestFirst)),
	}

	for _, s := range lowestFirst {
		if !s.IsValid() {
			return Precedence{}, fmt.Errorf("%w: unknown source %d", ErrInvalidPrecedence, int(s))
		}

		if _, dup := p.rank[s]; dup {
			return Precedence{}, fmt.Errorf("%w: source %s listed twice", ErrInvalidPrecedence, s)
		}

		p.rank[s] = len(p.order)
		p.order = append(p.order, s)
	}

	return p, nil
}

// ParsePrecedence builds a precedence from source names listed lowest first.
func ParsePrecedence(names []string) (Precedence, error) {
	sources := make([]ConfigurationSource, 0, len(names))

	for _, n := range names {
		s, err := ParseSource(n)
		if err != nil {
			return Precedence{}, fmt.Errorf("%w: %w", ErrInvalidPrecedence, err)
		}

		sources = append(sources, s)
	}

	return NewPrecedence(sources...)
}

// DefaultPrecedence returns default < declaration < descriptor < api.
// It is a fallback for callers that have no configured order.
func DefaultPrecedence() Precedence {
	p, _ := NewPrecedence(SourceDefault, SourceDeclaration, SourceDescriptor, SourceAPI)
	return p
}

// Rank returns the position of s in the order and whether s is ranked.
func (p Precedence) Rank(s ConfigurationSource) (int, bool) {
	r, ok := p.rank[s]
	return r, ok
}

// Sources returns the ranked sources, lowest first.
func (p Precedence) Sources() []ConfigurationSource {
	return append([]ConfigurationSource(nil), p.order...)
}

// IsZero returns true if the precedence ranks no source.
func (p Precedence) IsZero() bool {
	return len(p.order) == 0
}

// String returns the order as "a < b < c".
func (p Precedence) String() string {
	parts := make([]string, len(p.order))
	for i, s := range p.order {
		parts[i] = s.String()
	}

	return strings.Join(parts, " < ")
}
