// Package programmatic configures constraints in code. It is the
// highest-precedence source by default: records it produces are tagged
// metadata.SourceAPI.
//
//	m := programmatic.NewMapping()
//	m.Type(programmatic.TypeOf(store.Order{})).
//		Constraints("ConsistentTotal").
//		Field("Items").Valid().ElementConstraints("NotNull").
//		MethodOf((*store.Order).Ship).
//		Parameter(0, "carrier").Constraints("NotBlank").
//		ReturnValue().Unwrap(metadata.UnwrapSkip)
//
//	elements, err := m.Elements()
//
// Configuration errors do not break the chain; they are collected and
// returned by Elements.
package programmatic
