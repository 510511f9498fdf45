package programmatic

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"constraint-meta/metadata"
)

// TypeContext configures one type.
type TypeContext struct {
	mapping     *Mapping
	name        string
	constraints []metadata.MetaConstraint
	ignore      bool
	elements    []*ElementContext
	seen        map[metadata.Key]struct{}
}

// Type switches to another type of the same mapping.
func (t *TypeContext) Type(name string) *TypeContext {
	return t.mapping.Type(name)
}

// Constraint adds type-level constraints.
func (t *TypeContext) Constraint(cs ...metadata.MetaConstraint) *TypeContext {
	t.constraints = append(t.constraints, cs...)
	return t
}

// Constraints adds type-level constraints given in text form.
func (t *TypeContext) Constraints(texts ...string) *TypeContext {
	t.constraints = append(t.constraints, t.mapping.parse(t.name, texts)...)
	return t
}

// IgnoreAnnotations drops the declarations made in Go source for this type.
func (t *TypeContext) IgnoreAnnotations() *TypeContext {
	t.ignore = true
	return t
}

// Field configures a field of the type.
func (t *TypeContext) Field(name string) *ElementContext {
	return t.element(metadata.KindField, name, "", nil, 0, "")
}

// Property configures a property read through getter, the method name
// that identifies it. An empty getter means the getter has the property's
// name; an empty name is derived from the getter.
func (t *TypeContext) Property(name, getter string) *ElementContext {
	return t.element(metadata.KindProperty, name, getter, nil, 0, "")
}

// Method selects a method by name and parameter type names, e.g.
// Method("Ship", "string", "time.Time").
func (t *TypeContext) Method(name string, paramTypes ...string) *MethodContext {
	return &MethodContext{
		typ:  t,
		exec: metadata.Executable{Owner: t.name, Name: name, ParamTypes: paramTypes},
	}
}

// MethodOf selects a method from a method expression such as
// (*store.Order).Ship or a method value such as order.Ship. Parameter
// types are taken from its signature.
func (t *TypeContext) MethodOf(fn any) *MethodContext {
	name, params, ok := methodSignature(fn)
	if !ok {
		t.mapping.fail(fmt.Errorf("%s: %w: %T is not a method expression or value", t.name, ErrInvalidMethod, fn))
		return t.Method("")
	}

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.String()
	}

	return t.Method(name, names...)
}

// PropertyOf configures the property read through a getter given as a
// method expression or method value, e.g. (*store.Order).Total.
func (t *TypeContext) PropertyOf(fn any) *ElementContext {
	name, params, ok := methodSignature(fn)
	if !ok || len(params) != 0 || reflect.TypeOf(fn).NumOut() != 1 {
		t.mapping.fail(fmt.Errorf("%s: %w: %T is not a getter", t.name, ErrInvalidMethod, fn))
		// detached, so the chain keeps working without producing records
		return &ElementContext{typ: &TypeContext{mapping: t.mapping, name: t.name}, kind: metadata.KindProperty}
	}

	return t.Property("", name)
}

// methodSignature returns the method name and parameter types of a method
// expression, whose first input is the receiver, or of a method value,
// whose runtime name ends in "-fm" and which has no receiver input.
func methodSignature(fn any) (string, []reflect.Type, bool) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "", nil, false
	}

	full := runtime.FuncForPC(v.Pointer()).Name()
	name, bound := strings.CutSuffix(full[strings.LastIndex(full, ".")+1:], "-fm")

	ft := v.Type()
	first := 1

	if bound {
		first = 0
	} else if ft.NumIn() == 0 {
		return "", nil, false
	}

	params := make([]reflect.Type, 0, ft.NumIn()-first)
	for i := first; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}

	return name, params, true
}

func (t *TypeContext) element(
	kind metadata.ElementKind,
	member, getter string,
	exec *metadata.Executable,
	index int,
	paramName string,
) *ElementContext {
	ec := &ElementContext{
		typ:       t,
		kind:      kind,
		member:    member,
		getter:    getter,
		index:     index,
		paramName: paramName,
	}

	if exec != nil {
		ec.exec = *exec
	}

	key := ec.key()
	if t.seen == nil {
		t.seen = map[metadata.Key]struct{}{}
	}

	if _, dup := t.seen[key]; dup {
		t.mapping.fail(fmt.Errorf("%s: %w", key, ErrDuplicateElement))
		return ec
	}

	t.seen[key] = struct{}{}
	t.elements = append(t.elements, ec)

	return ec
}

// MethodContext selects the parts of a method to configure.
type MethodContext struct {
	typ  *TypeContext
	exec metadata.Executable
}

// Parameter configures the parameter at index. name may be empty.
func (m *MethodContext) Parameter(index int, name string) *ElementContext {
	return m.typ.element(metadata.KindParameter, "", "", &m.exec, index, name)
}

// CrossParameter configures constraints on all parameters together.
func (m *MethodContext) CrossParameter() *ElementContext {
	return m.typ.element(metadata.KindCrossParameter, "", "", &m.exec, metadata.CrossParameterIndex, "")
}

// ReturnValue configures the method's result.
func (m *MethodContext) ReturnValue() *ElementContext {
	return m.typ.element(metadata.KindReturnValue, "", "", &m.exec, metadata.ReturnValueIndex, "")
}

// ElementContext configures a field, property, parameter, cross-parameter
// or return value. Navigation methods continue on the enclosing type or
// method.
type ElementContext struct {
	typ       *TypeContext
	kind      metadata.ElementKind
	member    string
	getter    string
	exec      metadata.Executable
	index     int
	paramName string
	attrs     metadata.Attributes
}

// Constraint adds constraints on the element's value.
func (e *ElementContext) Constraint(cs ...metadata.MetaConstraint) *ElementContext {
	e.attrs.Constraints = append(e.attrs.Constraints, cs...)
	return e
}

// Constraints adds constraints given in text form.
func (e *ElementContext) Constraints(texts ...string) *ElementContext {
	e.attrs.Constraints = append(e.attrs.Constraints, e.typ.mapping.parse(e.describe(), texts)...)
	return e
}

// ElementConstraint adds constraints on the values held by a container.
func (e *ElementContext) ElementConstraint(cs ...metadata.MetaConstraint) *ElementContext {
	e.attrs.TypeArgumentConstraints = append(e.attrs.TypeArgumentConstraints, cs...)
	return e
}

// ElementConstraints adds container element constraints in text form.
func (e *ElementContext) ElementConstraints(texts ...string) *ElementContext {
	e.attrs.TypeArgumentConstraints = append(e.attrs.TypeArgumentConstraints, e.typ.mapping.parse(e.describe(), texts)...)
	return e
}

// Valid marks the element as cascading.
func (e *ElementContext) Valid() *ElementContext {
	e.attrs.Cascading = true
	return e
}

// ConvertGroup converts group from into group to when cascading.
func (e *ElementContext) ConvertGroup(from, to metadata.Group) *ElementContext {
	if e.attrs.GroupConversions == nil {
		e.attrs.GroupConversions = map[metadata.Group]metadata.Group{}
	}

	if prev, dup := e.attrs.GroupConversions[from]; dup && prev != to {
		e.typ.mapping.fail(fmt.Errorf("%s: group %s: %w", e.describe(), from, ErrDuplicateElement))
		return e
	}

	e.attrs.GroupConversions[from] = to

	return e
}

// Unwrap sets the unwrap policy.
func (e *ElementContext) Unwrap(policy metadata.UnwrapPolicy) *ElementContext {
	e.attrs.Unwrap = policy
	return e
}

// Type continues with another type.
func (e *ElementContext) Type(name string) *TypeContext {
	return e.typ.Type(name)
}

// Field continues with another field of the same type.
func (e *ElementContext) Field(name string) *ElementContext {
	return e.typ.Field(name)
}

// Property continues with a property of the same type.
func (e *ElementContext) Property(name, getter string) *ElementContext {
	return e.typ.Property(name, getter)
}

// Method continues with another method of the same type.
func (e *ElementContext) Method(name string, paramTypes ...string) *MethodContext {
	return e.typ.Method(name, paramTypes...)
}

// MethodOf continues with a method of the same type given as a method
// expression or value.
func (e *ElementContext) MethodOf(fn any) *MethodContext {
	return e.typ.MethodOf(fn)
}

// PropertyOf continues with a property of the same type given by its getter.
func (e *ElementContext) PropertyOf(fn any) *ElementContext {
	return e.typ.PropertyOf(fn)
}

// Parameter continues with another parameter of the same method.
func (e *ElementContext) Parameter(index int, name string) *ElementContext {
	return e.method().Parameter(index, name)
}

// CrossParameter continues with the cross-parameter of the same method.
func (e *ElementContext) CrossParameter() *ElementContext {
	return e.method().CrossParameter()
}

// ReturnValue continues with the return value of the same method.
func (e *ElementContext) ReturnValue() *ElementContext {
	return e.method().ReturnValue()
}

func (e *ElementContext) method() *MethodContext {
	if !e.kind.IsExecutable() {
		e.typ.mapping.fail(fmt.Errorf("%s: %w", e.describe(), ErrNotInMethod))
		// detached, so the chain keeps working without producing records
		return &MethodContext{typ: &TypeContext{mapping: e.typ.mapping, name: e.typ.name}, exec: e.exec}
	}

	return &MethodContext{typ: e.typ, exec: e.exec}
}

func (e *ElementContext) key() metadata.Key {
	id := metadata.Identity{Type: e.typ.name, Member: e.member}
	if e.kind == metadata.KindProperty && e.getter != "" {
		id.Member = e.getter
	}

	if e.kind.IsExecutable() {
		id = metadata.Identity{
			Type:      e.typ.name,
			Member:    e.exec.Name,
			Signature: e.exec.Signature(),
			Index:     e.index,
		}
	}

	return metadata.Key{Kind: e.kind, Identity: id}
}

func (e *ElementContext) describe() string {
	return e.key().String()
}

func (e *ElementContext) hasConversions() bool {
	return len(e.attrs.GroupConversions) > 0
}

func (e *ElementContext) build() (metadata.ConstrainedElement, error) {
	src := metadata.SourceAPI

	switch e.kind {
	case metadata.KindField:
		return metadata.NewField(src, e.typ.name, e.member, e.attrs)
	case metadata.KindProperty:
		return metadata.NewProperty(src, e.typ.name, e.member, e.getter, e.attrs)
	case metadata.KindParameter:
		return metadata.NewParameter(src, e.exec, e.index, e.paramName, e.attrs)
	case metadata.KindCrossParameter:
		return metadata.NewCrossParameter(src, e.exec, e.attrs)
	case metadata.KindReturnValue:
		return metadata.NewReturnValue(src, e.exec, e.attrs)
	default:
		return nil, fmt.Errorf("%s: unsupported element kind %s", e.describe(), e.kind)
	}
}

func (m *Mapping) parse(element string, texts []string) []metadata.MetaConstraint {
	out := make([]metadata.MetaConstraint, 0, len(texts))

	for _, text := range texts {
		c, err := metadata.ParseConstraint(text)
		if err != nil {
			m.fail(fmt.Errorf("%s: %w: %w", element, ErrInvalidConstraint, err))
			continue
		}

		out = append(out, c)
	}

	return out
}
