package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storePkg = "constraint-meta/store"

func loadStore(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(context.Background(), storePkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadStore(t)

	assert.Contains(t, graph.Packages, storePkg)
	assert.Contains(t, graph.Types, TypeID{PkgPath: storePkg, Name: "Order"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: storePkg, Name: "Customer"})
	assert.Equal(t, "store", graph.Packages[storePkg].Name)
}

func TestAnalyzer_FieldTags(t *testing.T) {
	graph := loadStore(t)

	customer := graph.GetType(TypeID{PkgPath: storePkg, Name: "Customer"})
	require.NotNil(t, customer)
	assert.Equal(t, TypeKindStruct, customer.Kind)

	email := customer.Field("Email")
	require.NotNil(t, email)
	tag, ok := email.LookupTag("validate")
	assert.True(t, ok)
	assert.Equal(t, "NotNull;Email", tag)

	notes := customer.Field("notes")
	require.NotNil(t, notes)
	assert.False(t, notes.Exported)
}

func TestAnalyzer_ContainerFields(t *testing.T) {
	graph := loadStore(t)

	customer := graph.GetType(TypeID{PkgPath: storePkg, Name: "Customer"})
	require.NotNil(t, customer)

	tags := customer.Field("Tags")
	require.NotNil(t, tags)
	assert.Equal(t, TypeKindSlice, tags.Type.Kind)
	assert.True(t, tags.Type.IsContainer())

	address := customer.Field("Address")
	require.NotNil(t, address)
	assert.Equal(t, TypeKindPointer, address.Type.Kind)
	assert.Equal(t, TypeKindStruct, address.Type.ElemType.Kind)
	assert.False(t, address.Type.IsContainer())
}

func TestAnalyzer_ExternalAndAlias(t *testing.T) {
	graph := loadStore(t)

	order := graph.GetType(TypeID{PkgPath: storePkg, Name: "Order"})
	require.NotNil(t, order)

	orderedAt := order.Field("OrderedAt")
	require.NotNil(t, orderedAt)
	assert.Equal(t, TypeKindExternal, orderedAt.Type.Kind)
	assert.Equal(t, TypeID{PkgPath: "time", Name: "Time"}, orderedAt.Type.ID)

	status := graph.GetType(TypeID{PkgPath: storePkg, Name: "OrderStatus"})
	require.NotNil(t, status)
	assert.Equal(t, TypeKindAlias, status.Kind)
}

func TestAnalyzer_MethodsAndDirectives(t *testing.T) {
	graph := loadStore(t)

	order := graph.GetType(TypeID{PkgPath: storePkg, Name: "Order"})
	require.NotNil(t, order)
	assert.Equal(t, []string{"type ConsistentTotal"}, order.Directives)

	ship := order.Method("Ship")
	require.NotNil(t, ship)
	assert.True(t, ship.PointerReceiver)
	assert.Equal(t, []string{"string", "time.Time"}, ship.ParamTypes())
	assert.Equal(t, 1, ship.ParamIndex("at"))
	assert.Equal(t, -1, ship.ParamIndex("missing"))
	assert.Equal(t, []string{"cross ShippableStatus", "param 0 NotBlank", "param at Future"}, ship.Directives)

	total := order.Method("Total")
	require.NotNil(t, total)
	assert.True(t, total.IsGetter())
	assert.False(t, total.PointerReceiver)
}

func TestTypeGraph_Resolve(t *testing.T) {
	graph := loadStore(t)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"full path", "constraint-meta/store.Order", "Order"},
		{"short form", "store.Order", "Order"},
		{"name only", "Customer", "Customer"},
		{"unknown", "store.Missing", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.Resolve(tt.input)
			if tt.expected == "" {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.ID.Name)
		})
	}
}

func TestTypeGraph_AddAndAmbiguousResolve(t *testing.T) {
	graph := NewTypeGraph()
	graph.Add(&TypeInfo{ID: TypeID{PkgPath: "example.com/a", Name: "User"}, Kind: TypeKindStruct})
	graph.Add(&TypeInfo{ID: TypeID{PkgPath: "example.com/b", Name: "User"}, Kind: TypeKindStruct})
	graph.Add(&TypeInfo{ID: TypeID{PkgPath: "example.com/b", Name: "User"}, Kind: TypeKindStruct})

	assert.Nil(t, graph.Resolve("User"))
	assert.NotNil(t, graph.Resolve("b.User"))
	assert.Len(t, graph.Packages["example.com/b"].Types, 1)
	assert.Equal(t, "b", graph.Packages["example.com/b"].Name)
}

func TestTypeID_String(t *testing.T) {
	id := TypeID{PkgPath: storePkg, Name: "Order"}
	assert.Equal(t, "constraint-meta/store.Order", id.String())

	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "basic", TypeKindBasic.String())
	assert.Equal(t, "struct", TypeKindStruct.String())
	assert.Equal(t, "map", TypeKindMap.String())
	assert.Equal(t, "alias", TypeKindAlias.String())
	assert.Equal(t, "unknown", TypeKindUnknown.String())
}

func TestFieldInfo_LookupTag(t *testing.T) {
	f := FieldInfo{Name: "MyField", Tag: `validate:"" json:"my_field,omitempty"`}

	v, ok := f.LookupTag("validate")
	assert.True(t, ok)
	assert.Empty(t, v)

	v, ok = f.LookupTag("json")
	assert.True(t, ok)
	assert.Equal(t, "my_field,omitempty", v)

	_, ok = f.LookupTag("convert")
	assert.False(t, ok)
}

func TestTypeGraph_OverlappingPackages(t *testing.T) {
	graph, err := NewAnalyzer().LoadPackages(context.Background(), storePkg, "constraint-meta/warehouse")
	require.NoError(t, err)

	assert.Nil(t, graph.Resolve("Order"), "Order is declared in both packages")
	assert.Equal(t, storePkg, graph.Resolve("store.Order").ID.PkgPath)
	assert.Equal(t, "constraint-meta/warehouse", graph.Resolve("warehouse.Order").ID.PkgPath)
	assert.NotNil(t, graph.Resolve("Product"))

	names := graph.ShortNames()
	assert.Contains(t, names, "store.Order")
	assert.Contains(t, names, "warehouse.Order")
	assert.IsNonDecreasing(t, names)

	order := graph.Resolve("warehouse.Order")
	assert.Contains(t, order.FieldNames(), "ShippingAddress")
	assert.ElementsMatch(t, []string{"Pick", "Annotate"}, order.MethodNames(nil))
	assert.Empty(t, order.MethodNames((*MethodInfo).IsGetter))
	assert.Equal(t, []string{"sku", "quantity"}, order.Method("Pick").ParamNames())
	assert.Equal(t, []string{"any", "map[string]any"}, order.Method("Annotate").ParamTypes())

	customer := graph.Resolve("warehouse.Customer")
	assert.Equal(t, []string{"GetEmail"}, customer.MethodNames((*MethodInfo).IsGetter))
	assert.NotNil(t, customer.Field("Email"))
}
