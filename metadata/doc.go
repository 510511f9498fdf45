// Package metadata provides the constraint-metadata model for members of
// Go types and the merger that reconciles metadata declared by several
// configuration sources.
//
// A ConstrainedElement describes one program element (a type, a field, a
// property getter, a method parameter, a method's cross-parameter
// constraints, or a method's return value) together with its constraints,
// container-element constraints, group conversions, cascading flag and
// unwrap policy. Elements are immutable once constructed.
//
// Key types:
//   - ConfigurationSource: where a record came from (tags, descriptor, API)
//   - Precedence: the caller-supplied override order of sources
//   - Identity / Key: the stable, source-independent element identity
//   - ConstraintSet / GroupConversions: immutable payload containers
//   - Merger: combines records sharing an identity into one record
//
// # Equality
//
// Two records are equal when their kinds and identities match. Payload
// (constraints, conversions, flags) never takes part in equality; that is
// what allows records from different sources to be detected as duplicates
// and merged. Key is comparable and can be used directly as a map key.
//
// # Merge rules
//
// Within one identity:
//  1. constraints and type-argument constraints are unioned
//  2. group conversions are additive; colliding keys take the target from
//     the highest-ranked source
//  3. cascading is enabled if any source enables it
//  4. the unwrap policy of the highest-ranked source that sets a
//     non-default policy wins
//  5. mixing kinds under one identity fails with ErrIdentityKindConflict
package metadata
