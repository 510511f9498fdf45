package metadata

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ConstrainedElement is a program element together with all metadata a
// single configuration source declared for it. Implementations are the
// variants in this package; records are immutable.
type ConstrainedElement interface {
	// Kind returns the variant of the element.
	Kind() ElementKind
	// Identity returns the source-independent name of the element.
	Identity() Identity
	// Key returns the equality key (kind + identity).
	Key() Key
	// Source returns where the record came from.
	Source() ConfigurationSource
	// Constraints returns the constraints on the element's value.
	Constraints() ConstraintSet
	// TypeArgumentConstraints returns the constraints on contained values.
	TypeArgumentConstraints() ConstraintSet
	// GroupConversions returns the conversions applied when cascading.
	GroupConversions() GroupConversions
	// IsCascading returns true if the element's value is validated itself.
	IsCascading() bool
	// UnwrapPolicy returns how a wrapped value is unwrapped.
	UnwrapPolicy() UnwrapPolicy

	// rebuild returns a record of the same variant carrying p, taking
	// variant details from the group being merged.
	rebuild(p payload, group []ConstrainedElement) ConstrainedElement
}

// Attributes are the metadata a source declares for one element. Nil
// slices and maps are fine; they become empty containers.
type Attributes struct {
	Constraints             []MetaConstraint
	TypeArgumentConstraints []MetaConstraint
	GroupConversions        map[Group]Group
	Cascading               bool
	Unwrap                  UnwrapPolicy
}

// Equal returns true if a and b describe the same program element. The
// payload is not compared.
func Equal(a, b ConstrainedElement) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Key() == b.Key()
}

// payload is the normalized state shared by every variant.
type payload struct {
	source      ConfigurationSource
	constraints ConstraintSet
	typeArgs    ConstraintSet
	conversions GroupConversions
	cascading   bool
	unwrap      UnwrapPolicy
}

func newPayload(source ConfigurationSource, id Identity, kind ElementKind, attrs Attributes) (payload, error) {
	conversions, err := NewGroupConversions(attrs.GroupConversions)
	if err != nil {
		var gce *GroupConversionError
		if errors.As(err, &gce) {
			gce.Element = id.String()
		}

		return payload{}, err
	}

	p := payload{
		source:      source,
		constraints: NewConstraintSet(attrs.Constraints...),
		conversions: conversions,
		cascading:   attrs.Cascading,
		unwrap:      attrs.Unwrap,
	}

	if kind.HasContainerValue() {
		p.typeArgs = NewConstraintSet(attrs.TypeArgumentConstraints...)
	}

	return p, nil
}

// element holds what every variant has in common.
type element struct {
	kind     ElementKind
	identity Identity
	payload
}

// Kind returns the variant of the element.
func (e *element) Kind() ElementKind { return e.kind }

// Identity returns the source-independent name of the element.
func (e *element) Identity() Identity { return e.identity }

// Key returns the equality key.
func (e *element) Key() Key { return Key{Kind: e.kind, Identity: e.identity} }

// Source returns where the record came from.
func (e *element) Source() ConfigurationSource { return e.source }

// Constraints returns the constraints on the element's value.
func (e *element) Constraints() ConstraintSet { return e.constraints }

// TypeArgumentConstraints returns the constraints on contained values.
func (e *element) TypeArgumentConstraints() ConstraintSet { return e.typeArgs }

// GroupConversions returns the conversions applied when cascading.
func (e *element) GroupConversions() GroupConversions { return e.conversions }

// IsCascading returns true if the element's value is validated itself.
func (e *element) IsCascading() bool { return e.cascading }

// UnwrapPolicy returns how a wrapped value is unwrapped.
func (e *element) UnwrapPolicy() UnwrapPolicy { return e.unwrap }

// String returns e.g. "Field model.User.Email (descriptor)".
func (e *element) String() string {
	return fmt.Sprintf("%s %s (%s)", e.kind, e.identity, e.source)
}

func newElement(source ConfigurationSource, kind ElementKind, id Identity, attrs Attributes) (element, error) {
	p, err := newPayload(source, id, kind, attrs)
	if err != nil {
		return element{}, err
	}

	return element{kind: kind, identity: id, payload: p}, nil
}

// --- Type ---

// Type carries constraints declared on a type as a whole.
type Type struct {
	element
}

// NewType describes the type named name.
func NewType(source ConfigurationSource, name string, attrs Attributes) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: type name is empty", ErrInvalidIdentity)
	}

	e, err := newElement(source, KindType, Identity{Type: name}, attrs)
	if err != nil {
		return nil, err
	}

	return &Type{element: e}, nil
}

// Name returns the qualified type name.
func (t *Type) Name() string { return t.identity.Type }

func (t *Type) rebuild(p payload, _ []ConstrainedElement) ConstrainedElement {
	out := *t
	out.payload = p

	return &out
}

// --- Field ---

// Field describes a struct field.
type Field struct {
	element
}

// NewField describes the field name of the type owner.
func NewField(source ConfigurationSource, owner, name string, attrs Attributes) (*Field, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("%w: field needs an owner and a name, got %q.%q", ErrInvalidIdentity, owner, name)
	}

	e, err := newElement(source, KindField, Identity{Type: owner, Member: name}, attrs)
	if err != nil {
		return nil, err
	}

	return &Field{element: e}, nil
}

// Owner returns the qualified declaring type.
func (f *Field) Owner() string { return f.identity.Type }

// Name returns the field name.
func (f *Field) Name() string { return f.identity.Member }

func (f *Field) rebuild(p payload, _ []ConstrainedElement) ConstrainedElement {
	out := *f
	out.payload = p

	return &out
}

// --- Property ---

// Property describes a value exposed through a getter method. Its identity
// is the getter's method name, so a field "Email" and its getter
// "GetEmail" are distinct elements. The property name is informational.
type Property struct {
	element
	name string
}

// NewProperty describes the property of owner read through getter. An
// empty getter defaults to name; an empty name is derived from the getter
// with PropertyName.
func NewProperty(source ConfigurationSource, owner, name, getter string, attrs Attributes) (*Property, error) {
	if getter == "" {
		getter = name
	}

	if name == "" {
		name = PropertyName(getter)
	}

	if owner == "" || getter == "" {
		return nil, fmt.Errorf("%w: property needs an owner and a getter, got %q.%q", ErrInvalidIdentity, owner, getter)
	}

	e, err := newElement(source, KindProperty, Identity{Type: owner, Member: getter}, attrs)
	if err != nil {
		return nil, err
	}

	return &Property{element: e, name: name}, nil
}

// PropertyName derives a property name from a getter: "GetEmail" and
// "Email" both name property "Email".
func PropertyName(getter string) string {
	rest, ok := strings.CutPrefix(getter, "Get")
	if ok && rest != "" && unicode.IsUpper([]rune(rest)[0]) {
		return rest
	}

	return getter
}

// Owner returns the qualified declaring type.
func (p *Property) Owner() string { return p.identity.Type }

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// Getter returns the name of the getter method.
func (p *Property) Getter() string { return p.identity.Member }

func (p *Property) rebuild(pl payload, _ []ConstrainedElement) ConstrainedElement {
	out := *p
	out.payload = pl

	return &out
}

// --- Parameter ---

// Parameter describes one parameter of a method.
type Parameter struct {
	element
	executable Executable
	name       string
}

// NewParameter describes the parameter at index of exec. The name is
// informational; descriptor files may not know it.
func NewParameter(source ConfigurationSource, exec Executable, index int, name string, attrs Attributes) (*Parameter, error) {
	if err := exec.validate(); err != nil {
		return nil, err
	}

	if index < 0 || index >= len(exec.ParamTypes) {
		return nil, fmt.Errorf("%w: parameter index %d out of range for %s", ErrInvalidIdentity, index, exec)
	}

	e, err := newElement(source, KindParameter, exec.identity(index), attrs)
	if err != nil {
		return nil, err
	}

	return &Parameter{element: e, executable: exec.clone(), name: name}, nil
}

// Executable returns the method the parameter belongs to.
func (p *Parameter) Executable() Executable { return p.executable.clone() }

// Index returns the parameter position.
func (p *Parameter) Index() int { return p.identity.Index }

// Name returns the parameter name, if known.
func (p *Parameter) Name() string { return p.name }

// rebuild keeps the first known name, looking at the highest ranked record first.
func (p *Parameter) rebuild(pl payload, group []ConstrainedElement) ConstrainedElement {
	out := *p
	out.payload = pl

	for i := len(group) - 1; i >= 0 && out.name == ""; i-- {
		if other, ok := group[i].(*Parameter); ok {
			out.name = other.name
		}
	}

	return &out
}

// --- CrossParameter ---

// CrossParameter carries constraints over all parameters of a method.
type CrossParameter struct {
	element
	executable Executable
}

// NewCrossParameter describes the cross-parameter constraints of exec.
func NewCrossParameter(source ConfigurationSource, exec Executable, attrs Attributes) (*CrossParameter, error) {
	if err := exec.validate(); err != nil {
		return nil, err
	}

	e, err := newElement(source, KindCrossParameter, exec.identity(CrossParameterIndex), attrs)
	if err != nil {
		return nil, err
	}

	return &CrossParameter{element: e, executable: exec.clone()}, nil
}

// Executable returns the method the constraints belong to.
func (c *CrossParameter) Executable() Executable { return c.executable.clone() }

func (c *CrossParameter) rebuild(p payload, _ []ConstrainedElement) ConstrainedElement {
	out := *c
	out.payload = p

	return &out
}

// --- ReturnValue ---

// ReturnValue describes the return value of a method.
type ReturnValue struct {
	element
	executable Executable
}

// NewReturnValue describes the return value of exec.
func NewReturnValue(source ConfigurationSource, exec Executable, attrs Attributes) (*ReturnValue, error) {
	if err := exec.validate(); err != nil {
		return nil, err
	}

	e, err := newElement(source, KindReturnValue, exec.identity(ReturnValueIndex), attrs)
	if err != nil {
		return nil, err
	}

	return &ReturnValue{element: e, executable: exec.clone()}, nil
}

// Executable returns the method the return value belongs to.
func (r *ReturnValue) Executable() Executable { return r.executable.clone() }

func (r *ReturnValue) rebuild(p payload, _ []ConstrainedElement) ConstrainedElement {
	out := *r
	out.payload = p

	return &out
}
