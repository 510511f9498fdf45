package analyze

import (
	"constraint-meta/internal/common"
)

// TypeStringer renders TypeInfo values the way they appear in source,
// qualifying named types with their package name.
type TypeStringer struct {
	// LocalPkg is the package whose types are rendered unqualified.
	LocalPkg string
}

// NewTypeStringer creates a new TypeStringer relative to localPkg.
func NewTypeStringer(localPkg string) *TypeStringer {
	return &TypeStringer{LocalPkg: localPkg}
}

// TypeString returns a human-readable representation of a TypeInfo.
func (s *TypeStringer) TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	if t.IsNamed() {
		return s.name(t.ID)
	}

	switch t.Kind {
	case TypeKindBasic:
		if t.GoType != nil {
			return t.GoType.String()
		}
		return common.UnknownStr

	case TypeKindStruct:
		return "struct{...}"

	case TypeKindPointer:
		return "*" + s.TypeString(t.ElemType)

	case TypeKindSlice:
		return "[]" + s.TypeString(t.ElemType)

	case TypeKindArray:
		return "[...]" + s.TypeString(t.ElemType)

	case TypeKindMap:
		return "map[...]" + s.TypeString(t.ElemType)

	default:
		if t.GoType != nil {
			return t.GoType.String()
		}
		return common.UnknownStr
	}
}

func (s *TypeStringer) name(id TypeID) string {
	if id.PkgPath == "" || id.PkgPath == s.LocalPkg {
		return id.Name
	}

	return common.PkgAlias(id.PkgPath) + "." + id.Name
}
