package metadata

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=ElementKind -trimprefix=Kind -output=kind_string.go

// ElementKind identifies the variant of a ConstrainedElement.
type ElementKind int

const (
	_ ElementKind = iota // zero value is not a valid kind

	KindType           // constraints declared on a type as a whole
	KindField          // a struct field
	KindProperty       // a value exposed through a getter method
	KindParameter      // a single method parameter
	KindCrossParameter // constraints over all parameters of a method
	KindReturnValue    // a method's return value
)

// IsExecutable returns true for kinds that belong to a method.
func (k ElementKind) IsExecutable() bool {
	switch k {
	case KindParameter, KindCrossParameter, KindReturnValue:
		return true
	default:
		return false
	}
}

// HasContainerValue returns true if elements of this kind hold a value
// whose container elements may carry their own constraints.
func (k ElementKind) HasContainerValue() bool {
	switch k {
	case KindField, KindProperty, KindParameter, KindReturnValue:
		return true
	default:
		return false
	}
}

// UnwrapPolicy describes how a wrapped value is unwrapped before its
// constraints are applied.
type UnwrapPolicy int

const (
	// UnwrapDefault leaves the decision to the per-type default.
	UnwrapDefault UnwrapPolicy = iota
	// UnwrapAlways unwraps the value before validation.
	UnwrapAlways
	// UnwrapSkip validates the wrapper itself.
	UnwrapSkip
)

// String returns a human-readable policy name.
func (u UnwrapPolicy) String() string {
	switch u {
	case UnwrapDefault:
		return "default"
	case UnwrapAlways:
		return "unwrap"
	case UnwrapSkip:
		return "skip"
	default:
		return fmt.Sprintf("UnwrapPolicy(%d)", int(u))
	}
}

// ParseUnwrapPolicy parses a policy name; the empty string is UnwrapDefault.
func ParseUnwrapPolicy(s string) (UnwrapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "automatic":
		return UnwrapDefault, nil
	case "unwrap", "always":
		return UnwrapAlways, nil
	case "skip", "skip_unwrap", "skip-unwrap":
		return UnwrapSkip, nil
	default:
		return UnwrapDefault, fmt.Errorf("invalid unwrap policy %q (expected 'default', 'unwrap' or 'skip')", s)
	}
}
