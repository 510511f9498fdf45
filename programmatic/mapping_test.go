package programmatic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constraint-meta/metadata"
	"constraint-meta/store"
)

const storePkg = "constraint-meta/store"

func byKey(elements []metadata.ConstrainedElement) map[string]metadata.ConstrainedElement {
	out := make(map[string]metadata.ConstrainedElement, len(elements))
	for _, e := range elements {
		out[e.Key().String()] = e
	}

	return out
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"value", store.Order{}, storePkg + ".Order"},
		{"nil pointer", (*store.Customer)(nil), storePkg + ".Customer"},
		{"named string", store.StatusPaid, storePkg + ".OrderStatus"},
		{"builtin", "text", "string"},
		{"unnamed", []int{1}, ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.v))
		})
	}
}

func TestMapping_Elements(t *testing.T) {
	m := NewMapping()
	m.Type(TypeOf(store.Order{})).
		Constraints("ConsistentTotal").
		Field("Items").Valid().ElementConstraints("NotNull").ConvertGroup(metadata.DefaultGroup, "Strict").
		Property("Total", "").Constraints("Max(value=100)").
		MethodOf((*store.Order).Ship).
		Parameter(0, "carrier").Constraints("NotBlank").
		Parameter(1, "at").Constraints("Future").
		CrossParameter().Constraints("ShippableStatus").
		ReturnValue().Unwrap(metadata.UnwrapSkip).
		Type(TypeOf(store.Customer{})).
		Field("Email").Constraint(metadata.NewConstraint("Email", nil))

	assert.Equal(t, "api", m.Name())

	elements, err := m.Elements()
	require.NoError(t, err)
	require.Len(t, elements, 8)

	for _, e := range elements {
		assert.Equal(t, metadata.SourceAPI, e.Source())
	}

	got := byKey(elements)
	ship := storePkg + ".Order.Ship(string,time.Time)"

	order := got["Type:"+storePkg+".Order"]
	require.NotNil(t, order)
	assert.Equal(t, []string{"ConsistentTotal"}, order.Constraints().Keys())

	items := got["Field:"+storePkg+".Order.Items"]
	require.NotNil(t, items)
	assert.True(t, items.IsCascading())
	assert.Equal(t, []string{"NotNull"}, items.TypeArgumentConstraints().Keys())
	assert.Equal(t, metadata.Group("Strict"), items.GroupConversions().Convert(metadata.DefaultGroup))

	total, ok := got["Property:"+storePkg+".Order.Total"].(*metadata.Property)
	require.True(t, ok)
	assert.Equal(t, "Total", total.Getter())

	carrier, ok := got["Parameter:"+ship+"#0"].(*metadata.Parameter)
	require.True(t, ok)
	assert.Equal(t, "carrier", carrier.Name())

	assert.Contains(t, got, "Parameter:"+ship+"#1")
	assert.Contains(t, got, "CrossParameter:"+ship+"#cross")

	ret := got["ReturnValue:"+ship+"#return"]
	require.NotNil(t, ret)
	assert.Equal(t, metadata.UnwrapSkip, ret.UnwrapPolicy())

	assert.Contains(t, got, "Field:"+storePkg+".Customer.Email")
}

func TestMapping_MethodValuesAndGetters(t *testing.T) {
	order := &store.Order{}
	customer := store.Customer{}

	m := NewMapping()
	m.Type(TypeOf(order)).
		MethodOf(order.Ship).Parameter(1, "at").Constraints("Future").
		PropertyOf(store.Order.Total).Constraints("PositiveOrZero").
		Type(TypeOf(customer)).
		MethodOf(customer.Rename).Parameter(0, "").Constraints("NotBlank").
		Property("", "GetFullName").Constraints("NotBlank")

	elements, err := m.Elements()
	require.NoError(t, err)

	got := byKey(elements)
	assert.Contains(t, got, "Parameter:"+storePkg+".Order.Ship(string,time.Time)#1")
	assert.Contains(t, got, "Parameter:"+storePkg+".Customer.Rename(string)#0")

	total, ok := got["Property:"+storePkg+".Order.Total"].(*metadata.Property)
	require.True(t, ok)
	assert.Equal(t, "Total", total.Name())

	fullName, ok := got["Property:"+storePkg+".Customer.GetFullName"].(*metadata.Property)
	require.True(t, ok)
	assert.Equal(t, "FullName", fullName.Name())
}

func TestMapping_CanonicalParameterTypes(t *testing.T) {
	m := NewMapping()
	m.Type("box.Box").Method("Put", "interface {}", "map[string]interface {}").Parameter(0, "v")
	m.Type("box.Box").Method("Put", "any", "map[string]any").Parameter(0, "v")

	_, err := m.Elements()
	assert.ErrorIs(t, err, ErrDuplicateElement)
}

func TestMapping_TypeIsReused(t *testing.T) {
	m := NewMapping()
	name := TypeOf(store.Customer{})

	m.Type(name).Field("Email").Constraints("NotNull")
	m.Type(name).Field("FullName").Constraints("NotBlank")

	elements, err := m.Elements()
	require.NoError(t, err)
	assert.Len(t, elements, 2)
}

func TestMapping_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(m *Mapping)
		want  error
	}{
		{
			name: "duplicate field",
			build: func(m *Mapping) {
				m.Type("a.T").Field("X").Constraints("NotNull").Field("X")
			},
			want: ErrDuplicateElement,
		},
		{
			name: "duplicate parameter",
			build: func(m *Mapping) {
				m.Type("a.T").Method("Do", "string").Parameter(0, "").Parameter(0, "")
			},
			want: ErrDuplicateElement,
		},
		{
			name: "conflicting conversion",
			build: func(m *Mapping) {
				m.Type("a.T").Field("X").Valid().ConvertGroup("A", "B").ConvertGroup("A", "C")
			},
			want: ErrDuplicateElement,
		},
		{
			name: "bad constraint text",
			build: func(m *Mapping) {
				m.Type("a.T").Field("X").Constraints("Size(min=1")
			},
			want: ErrInvalidConstraint,
		},
		{
			name: "conversion without cascade",
			build: func(m *Mapping) {
				m.Type("a.T").Field("X").ConvertGroup("A", "B")
			},
			want: ErrConversionWithoutCascade,
		},
		{
			name: "parameter outside method",
			build: func(m *Mapping) {
				m.Type("a.T").Field("X").Parameter(0, "x")
			},
			want: ErrNotInMethod,
		},
		{
			name: "not a method expression",
			build: func(m *Mapping) {
				m.Type("a.T").MethodOf(42)
			},
			want: ErrInvalidMethod,
		},
		{
			name: "getter with parameters",
			build: func(m *Mapping) {
				m.Type("a.T").PropertyOf((*store.Order).Ship).Constraints("NotNull")
			},
			want: ErrInvalidMethod,
		},
		{
			name: "nil method",
			build: func(m *Mapping) {
				var fn func(*store.Order) int64
				m.Type("a.T").MethodOf(fn)
			},
			want: ErrInvalidMethod,
		},
		{
			name: "parameter index out of range",
			build: func(m *Mapping) {
				m.Type("a.T").Method("Do", "string").Parameter(3, "")
			},
			want: metadata.ErrInvalidIdentity,
		},
		{
			name: "self conversion",
			build: func(m *Mapping) {
				m.Type("a.T").Field("X").Valid().ConvertGroup("A", "A")
			},
			want: metadata.ErrMalformedGroupConversion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapping()
			tt.build(m)

			elements, err := m.Elements()
			assert.Nil(t, elements)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapping_IgnoredTypesAndProvide(t *testing.T) {
	m := NewMapping()
	m.Type("b.T").IgnoreAnnotations()
	m.Type("a.T").IgnoreAnnotations().Field("X").Constraints("NotNull")
	m.Type("c.T")

	assert.Equal(t, []string{"a.T", "b.T"}, m.IgnoredTypes())

	elements, err := m.Provide(context.Background())
	require.NoError(t, err)
	assert.Len(t, elements, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Provide(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapping_MergesWithOtherSources(t *testing.T) {
	m := NewMapping()
	m.Type(TypeOf(store.Customer{})).Field("Address").Valid().ConvertGroup(metadata.DefaultGroup, "Strict")

	api, err := m.Elements()
	require.NoError(t, err)

	declared, err := metadata.NewField(metadata.SourceDeclaration, storePkg+".Customer", "Address", metadata.Attributes{
		Cascading:        true,
		GroupConversions: map[metadata.Group]metadata.Group{metadata.DefaultGroup: "Complete"},
	})
	require.NoError(t, err)

	merged, err := metadata.MergeElements(metadata.DefaultPrecedence(), []metadata.ConstrainedElement{declared, api[0]})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, metadata.Group("Strict"), merged[0].GroupConversions().Convert(metadata.DefaultGroup))
}
