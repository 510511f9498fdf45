// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of structs, their fields and
// their methods. It is the discovery layer that supplies element
// identities to the constraint sources.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/map/external)
//   - FieldInfo: describes field name, type, tags, and embedding
//   - MethodInfo: describes method parameters, results and directives
//
// Directives are comment lines of the form "//constraint:<verb> ..." in
// the doc comment of a type or method declaration.
package analyze
