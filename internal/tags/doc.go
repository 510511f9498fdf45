// Package tags discovers constraint declarations written inline in Go
// source: struct tags on fields and "//constraint:" directives in the doc
// comments of types and methods. Every record it produces is tagged
// metadata.SourceDeclaration.
//
// # Struct tags
//
//	Email   string   `validate:"NotNull;Email"`
//	Address *Address `validate:"valid" convert:"Default:Complete"`
//	Tags    []string `validate_elem:"NotBlank"`
//	Alias   *string  `validate:"Size(min=2);unwrap=skip"`
//
// The validate tag lists constraints separated by ';'. Two tokens are
// flags rather than constraints: "valid[=bool]" enables cascading and
// "unwrap[=policy]" sets the unwrap policy. validate_elem lists
// constraints for container elements. convert lists "From:To" group
// conversions separated by ','. Tag keys are configurable.
//
// # Directives
//
//	//constraint:type ConsistentTotal
//	//constraint:property PositiveOrZero
//	//constraint:param name NotBlank;Size(max=128)
//	//constraint:param 0 valid
//	//constraint:return NotNull
//	//constraint:cross ShippableStatus
//
// Parameters are addressed by name or position.
package tags
