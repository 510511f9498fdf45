// Package descriptor provides the YAML descriptor schema, parsing and
// conversion into metadata.SourceDescriptor records.
//
// Descriptors constrain types without touching their source code. Every
// bean is resolved against a TypeGraph, so members that do not exist are
// reported as diagnostics instead of silently producing records.
//
// # Schema Overview
//
//	version: "1"
//	default_package: example.com/app/store
//	beans:
//	  - class: Customer
//	    ignore_annotations: false
//	    constraints: UniqueEmail
//	    fields:
//	      - name: Email
//	        constraints: ["Size(max=255)"]
//	      - name: Address
//	        valid: true
//	        convert_group:
//	          - from: Default
//	            to: Complete
//	      - name: Tags
//	        element_constraints: NotBlank
//	    getters:
//	      - name: Total           # property or method name
//	        constraints: PositiveOrZero
//	    methods:
//	      - name: Ship
//	        parameters:
//	          - index: 0
//	            constraints: NotBlank
//	          - name: at
//	            constraints: Future
//	        cross_parameter:
//	          constraints: ShippableStatus
//	        return_value:
//	          unwrap: skip
//
// Constraints use the same text form as struct tags, e.g.
// "Size(min=1,max=64,groups=Strict)". A bean with ignore_annotations set
// asks the aggregation layer to drop the Go source declarations of its type.
package descriptor
