package analyze

import (
	"go/types"
	"reflect"
	"slices"
	"strings"

	"constraint-meta/internal/common"
)

// DirectivePrefix starts a constraint directive comment, e.g.
// "//constraint:param name NotBlank".
const DirectivePrefix = "//constraint:"

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "constraint-meta/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindArray             // array of another type
	TypeKindMap               // map; ElemType is the value type
	TypeKindAlias             // type alias (named type wrapping another)
	TypeKindExternal          // external/opaque type (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID       // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind     // Kind of type
	Underlying *TypeInfo    // For named types, the underlying type
	ElemType   *TypeInfo    // For pointers, slices, arrays and maps, the element type
	Fields     []FieldInfo  // For structs, the list of fields
	Methods    []MethodInfo // Exported methods declared on the named type
	Directives []string     // Constraint directives from the type's doc comment
	GoType     types.Type   // The original go/types.Type
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// IsContainer returns true if values of this type hold other values whose
// constraints can be declared separately (slices, arrays and maps,
// possibly behind a pointer).
func (t *TypeInfo) IsContainer() bool {
	if t == nil {
		return false
	}

	switch t.Kind {
	case TypeKindSlice, TypeKindArray, TypeKindMap:
		return true
	case TypeKindPointer:
		return t.ElemType.IsContainer()
	default:
		return false
	}
}

// Field returns the field with the given name, or nil.
func (t *TypeInfo) Field(name string) *FieldInfo {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}

	return nil
}

// FieldNames returns the names of the exported fields.
func (t *TypeInfo) FieldNames() []string {
	var out []string

	for _, f := range t.Fields {
		if f.Exported {
			out = append(out, f.Name)
		}
	}

	return out
}

// MethodNames returns the names of the methods, filtered by keep when it
// is not nil.
func (t *TypeInfo) MethodNames(keep func(*MethodInfo) bool) []string {
	var out []string

	for i := range t.Methods {
		if keep == nil || keep(&t.Methods[i]) {
			out = append(out, t.Methods[i].Name)
		}
	}

	return out
}

// Method returns the method with the given name, or nil.
func (t *TypeInfo) Method(name string) *MethodInfo {
	for i := range t.Methods {
		if t.Methods[i].Name == name {
			return &t.Methods[i]
		}
	}

	return nil
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// LookupTag returns the value of the struct tag key and whether the key
// is present at all.
func (f *FieldInfo) LookupTag(key string) (string, bool) {
	return f.Tag.Lookup(key)
}

// MethodInfo describes a method declared on a named type.
type MethodInfo struct {
	Name            string      // Method name
	Params          []ParamInfo // Parameters in declaration order
	Results         []*TypeInfo // Result types
	PointerReceiver bool        // Whether the receiver is a pointer
	Directives      []string    // Constraint directives from the doc comment
}

// ParamTypes returns the parameter type names in declaration order.
func (m *MethodInfo) ParamTypes() []string {
	out := make([]string, len(m.Params))
	for i, p := range m.Params {
		out[i] = p.TypeName
	}

	return out
}

// ParamIndex returns the position of the named parameter, or -1.
func (m *MethodInfo) ParamIndex(name string) int {
	for i, p := range m.Params {
		if p.Name == name {
			return i
		}
	}

	return -1
}

// ParamNames returns the named parameters in declaration order.
func (m *MethodInfo) ParamNames() []string {
	var out []string

	for _, p := range m.Params {
		if p.Name != "" && p.Name != "_" {
			out = append(out, p.Name)
		}
	}

	return out
}

// IsGetter returns true for methods without parameters returning one value.
func (m *MethodInfo) IsGetter() bool {
	return len(m.Params) == 0 && len(m.Results) == 1
}

// ParamInfo describes a method parameter.
type ParamInfo struct {
	Name     string    // Parameter name; may be empty or "_"
	TypeName string    // Package-qualified type name, e.g. "time.Time"
	Type     *TypeInfo // Parameter type
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Add registers a named type and records it on its package.
func (g *TypeGraph) Add(info *TypeInfo) {
	g.Types[info.ID] = info

	pkg, ok := g.Packages[info.ID.PkgPath]
	if !ok {
		pkg = &PackageInfo{Path: info.ID.PkgPath, Name: common.PkgAlias(info.ID.PkgPath)}
		g.Packages[info.ID.PkgPath] = pkg
	}

	for _, id := range pkg.Types {
		if id == info.ID {
			return
		}
	}

	pkg.Types = append(pkg.Types, info.ID)
}

// Resolve resolves a type name like:
// - "store.Order" (short)
// - "constraint-meta/store.Order" (full)
// - "Order" (name only, when unambiguous).
func (g *TypeGraph) Resolve(name string) *TypeInfo {
	if g == nil || name == "" {
		return nil
	}

	lastDot := strings.LastIndex(name, ".")
	if lastDot < 0 {
		var found *TypeInfo

		for id, t := range g.Types {
			if id.Name == name {
				if found != nil {
					return nil
				}

				found = t
			}
		}

		return found
	}

	pkgStr, typeName := name[:lastDot], name[lastDot+1:]
	if pkgStr == "" || typeName == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := g.GetType(TypeID{PkgPath: pkgStr, Name: typeName}); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "store.Order")
	for id, t := range g.Types {
		if id.Name == typeName && strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			return t
		}
	}

	return nil
}

// ShortNames returns every type as "pkg.Name", the short form Resolve
// accepts, in sorted order.
func (g *TypeGraph) ShortNames() []string {
	if g == nil {
		return nil
	}

	out := make([]string, 0, len(g.Types))
	for id := range g.Types {
		out = append(out, common.PkgAlias(id.PkgPath)+"."+id.Name)
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
