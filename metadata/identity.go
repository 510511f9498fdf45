package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// ReturnValueIndex is the Identity.Index of a return value.
	ReturnValueIndex = -1
	// CrossParameterIndex is the Identity.Index of cross-parameter constraints.
	CrossParameterIndex = -2
)

// namespaceElementKey is the UUID namespace for element key hashes.
var namespaceElementKey = uuid.NewSHA1(uuid.NameSpaceURL, []byte("constraint-meta/element-key/v1"))

// Identity names a program element independently of the source that
// described it. It is built from stable names only, never from handles.
type Identity struct {
	Type      string // qualified declaring type, e.g. "example.com/app/model.User"
	Member    string // field, property or method name; empty for type-level elements
	Signature string // "(string,int)" for methods, empty otherwise
	Index     int    // parameter position, ReturnValueIndex or CrossParameterIndex
}

// IsExecutable returns true if the identity names part of a method.
func (id Identity) IsExecutable() bool {
	return id.Signature != ""
}

// String renders the identity, e.g. "model.User.Email",
// "model.User.Register(string,int)#1" or "model.User.Register(string,int)#return".
func (id Identity) String() string {
	var b strings.Builder

	b.WriteString(id.Type)

	if id.Member != "" {
		b.WriteByte('.')
		b.WriteString(id.Member)
	}

	if !id.IsExecutable() {
		return b.String()
	}

	b.WriteString(id.Signature)
	b.WriteByte('#')

	switch id.Index {
	case ReturnValueIndex:
		b.WriteString("return")
	case CrossParameterIndex:
		b.WriteString("cross")
	default:
		b.WriteString(strconv.Itoa(id.Index))
	}

	return b.String()
}

// Key is the equality key of a ConstrainedElement: two records are equal
// iff their keys are equal. Key is comparable and serves as the hash.
type Key struct {
	Kind     ElementKind
	Identity Identity
}

// String renders the key as "Kind:identity".
func (k Key) String() string {
	return k.Kind.String() + ":" + k.Identity.String()
}

// Hash returns a deterministic UUIDv5 of the key. Equal keys always hash
// to the same value, across processes.
func (k Key) Hash() uuid.UUID {
	return uuid.NewSHA1(namespaceElementKey, []byte(k.String()))
}

// Executable names a method by its declaring type, name and parameter types.
type Executable struct {
	Owner      string   // qualified declaring type
	Name       string   // method name
	ParamTypes []string // parameter type names in declaration order
}

// Signature returns "(T1,T2)" for the parameter types, each in its
// CanonicalTypeName form.
func (e Executable) Signature() string {
	names := make([]string, len(e.ParamTypes))
	for i, t := range e.ParamTypes {
		names[i] = CanonicalTypeName(t)
	}

	return "(" + strings.Join(names, ",") + ")"
}

// String returns "Owner.Name(T1,T2)".
func (e Executable) String() string {
	return e.Owner + "." + e.Name + e.Signature()
}

// identity returns the identity of the element at index within e.
func (e Executable) identity(index int) Identity {
	return Identity{
		Type:      e.Owner,
		Member:    e.Name,
		Signature: e.Signature(),
		Index:     index,
	}
}

// clone returns a copy that shares no memory with e, with canonical
// parameter type names.
func (e Executable) clone() Executable {
	types := make([]string, len(e.ParamTypes))
	for i, t := range e.ParamTypes {
		types[i] = CanonicalTypeName(t)
	}

	e.ParamTypes = types

	return e
}

func (e Executable) validate() error {
	if e.Owner == "" || e.Name == "" {
		return fmt.Errorf("%w: executable needs an owner and a name, got %q", ErrInvalidIdentity, e.String())
	}

	return nil
}
