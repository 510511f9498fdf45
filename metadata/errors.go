package metadata

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIdentityKindConflict reports records sharing an identity but not a kind.
	ErrIdentityKindConflict = errors.New("identity kind conflict")
	// ErrMalformedGroupConversion reports an empty or self group conversion.
	ErrMalformedGroupConversion = errors.New("malformed group conversion")
	// ErrConflictingGroupConversion reports equally ranked records converting
	// one group to different targets.
	ErrConflictingGroupConversion = errors.New("conflicting group conversion")
	// ErrConflictingUnwrapPolicy reports equally ranked records setting
	// different non-default unwrap policies.
	ErrConflictingUnwrapPolicy = errors.New("conflicting unwrap policy")
	// ErrUnrankedSource reports a record whose source has no precedence rank.
	ErrUnrankedSource = errors.New("configuration source has no precedence rank")
	// ErrInvalidPrecedence reports an unusable precedence order.
	ErrInvalidPrecedence = errors.New("invalid precedence")
	// ErrInvalidIdentity reports a record that cannot be given an identity.
	ErrInvalidIdentity = errors.New("invalid element identity")
)

// KindConflictError is returned by the merger when records with the same
// identity are of different kinds. It matches ErrIdentityKindConflict.
type KindConflictError struct {
	Identity Identity
	Kinds    []ElementKind
	Sources  []ConfigurationSource
}

// Error implements the error interface.
func (e *KindConflictError) Error() string {
	kinds := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		kinds[i] = fmt.Sprintf("%s (%s)", k, e.Sources[i])
	}

	return fmt.Sprintf("%s: %s is declared as %s", ErrIdentityKindConflict, e.Identity, strings.Join(kinds, " and "))
}

// Unwrap returns ErrIdentityKindConflict.
func (e *KindConflictError) Unwrap() error {
	return ErrIdentityKindConflict
}

// GroupConversionError reports a bad group conversion. Err is
// ErrMalformedGroupConversion or ErrConflictingGroupConversion.
type GroupConversionError struct {
	Element string // identity of the element, when known
	From    Group
	To      Group
	Other   Group // competing target for a conflict
	Err     error
}

// Error implements the error interface.
func (e *GroupConversionError) Error() string {
	var prefix string
	if e.Element != "" {
		prefix = e.Element + ": "
	}

	if errors.Is(e.Err, ErrConflictingGroupConversion) {
		return fmt.Sprintf("%s%s: %q converts to both %q and %q", prefix, e.Err, e.From, e.Other, e.To)
	}

	return fmt.Sprintf("%s%s: %q -> %q", prefix, e.Err, e.From, e.To)
}

// Unwrap returns the underlying sentinel.
func (e *GroupConversionError) Unwrap() error {
	return e.Err
}

// ErrorCode maps an error of this package to a stable snake_case code for
// diagnostics. Errors from elsewhere map to "invalid_element".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrMalformedGroupConversion):
		return "malformed_group_conversion"
	case errors.Is(err, ErrConflictingGroupConversion):
		return "conflicting_group_conversion"
	case errors.Is(err, ErrConflictingUnwrapPolicy):
		return "conflicting_unwrap_policy"
	case errors.Is(err, ErrIdentityKindConflict):
		return "identity_kind_conflict"
	case errors.Is(err, ErrUnrankedSource):
		return "unranked_source"
	case errors.Is(err, ErrInvalidPrecedence):
		return "invalid_precedence"
	case errors.Is(err, ErrInvalidIdentity):
		return "invalid_identity"
	default:
		return "invalid_element"
	}
}
