package aggregate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constraint-meta/internal/config"
	"constraint-meta/internal/tags"
	"constraint-meta/metadata"
	"constraint-meta/programmatic"
	"constraint-meta/store"
	"constraint-meta/warehouse"
)

const (
	storePkg     = "constraint-meta/store"
	warehousePkg = "constraint-meta/warehouse"
)

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	descriptorPath := filepath.Join(dir, "store.yaml")

	require.NoError(t, os.WriteFile(descriptorPath, []byte(`
default_package: constraint-meta/store
beans:
  - class: Customer
    fields:
      - name: Email
        constraints: "Size(max=255)"
      - name: Address
        valid: true
        convert_group:
          - from: Default
            to: Shipping
  - class: OrderItem
    ignore_annotations: true
    fields:
      - name: Quantity
        constraints: "Max(value=99)"
`), 0o600))

	cfg := config.Default()
	cfg.Packages = []string{storePkg}
	cfg.Descriptors = []string{descriptorPath}

	api := programmatic.NewMapping()
	api.Type(programmatic.TypeOf(store.Customer{})).
		Field("Address").Valid().ConvertGroup(metadata.DefaultGroup, "Express")

	agg, err := FromConfig(context.Background(), cfg, nil, api)
	require.NoError(t, err)
	assert.Len(t, agg.Providers(), 3)

	types, err := agg.Run(context.Background())
	require.NoError(t, err)

	byType := map[string]TypeMetadata{}
	for _, tm := range types {
		byType[tm.Type] = tm
	}

	customer, ok := byType[storePkg+".Customer"]
	require.True(t, ok)

	email, ok := customer.Element(metadata.Key{
		Kind:     metadata.KindField,
		Identity: metadata.Identity{Type: storePkg + ".Customer", Member: "Email"},
	})
	require.True(t, ok)
	assert.Equal(t, []string{"Email", "NotNull", `Size(max="255")`}, email.Constraints().Keys())

	address, ok := customer.Element(metadata.Key{
		Kind:     metadata.KindField,
		Identity: metadata.Identity{Type: storePkg + ".Customer", Member: "Address"},
	})
	require.True(t, ok)
	assert.Equal(t, metadata.Group("Express"), address.GroupConversions().Convert(metadata.DefaultGroup))
	assert.Equal(t, metadata.SourceAPI, address.Source())

	item, ok := byType[storePkg+".OrderItem"]
	require.True(t, ok)
	require.Len(t, item.Elements, 1)
	assert.Equal(t, []string{`Max(value="99")`}, item.Elements[0].Constraints().Keys())
}

func TestFromConfig_FieldGetterAndMethodIdentities(t *testing.T) {
	dir := t.TempDir()
	descriptorPath := filepath.Join(dir, "warehouse.yaml")

	require.NoError(t, os.WriteFile(descriptorPath, []byte(`
default_package: constraint-meta/warehouse
beans:
  - class: Customer
    fields:
      - name: Email
        constraints: "Size(max=255)"
    getters:
      - name: Email
        constraints: "Size(max=320)"
`), 0o600))

	cfg := config.Default()
	cfg.Packages = []string{warehousePkg}
	cfg.Descriptors = []string{descriptorPath}
	cfg.Tags = tags.Config{Constraints: "check", Elements: "check_each", Conversions: "groups"}

	order := &warehouse.Order{}

	api := programmatic.NewMapping()
	api.Type(programmatic.TypeOf(warehouse.Customer{})).
		PropertyOf(warehouse.Customer.GetEmail).Constraints("Email").
		Type(programmatic.TypeOf(order)).
		MethodOf((*warehouse.Order).Annotate).Parameter(0, "note").Constraints("NotEmpty").
		MethodOf(order.Pick).Parameter(1, "quantity").Constraints("Max(value=500)")

	agg, err := FromConfig(context.Background(), cfg, nil, api)
	require.NoError(t, err)

	types, err := agg.Run(context.Background())
	require.NoError(t, err)

	byKey := map[string]metadata.ConstrainedElement{}
	for _, tm := range types {
		for _, e := range tm.Elements {
			byKey[e.Key().String()] = e
		}
	}

	customer := warehousePkg + ".Customer"

	email := byKey["Field:"+customer+".Email"]
	require.NotNil(t, email)
	assert.Equal(t, []string{"Email", `Size(max="255")`}, email.Constraints().Keys())

	getter, ok := byKey["Property:"+customer+".GetEmail"].(*metadata.Property)
	require.True(t, ok)
	assert.Equal(t, "Email", getter.Name())
	assert.Equal(t, []string{"Email", "NotBlank", `Size(max="320")`}, getter.Constraints().Keys())
	assert.Equal(t, metadata.SourceAPI, getter.Source())

	annotate := warehousePkg + ".Order.Annotate(any,map[string]any)"
	note := byKey["Parameter:"+annotate+"#0"]
	require.NotNil(t, note)
	assert.Equal(t, []string{"NotEmpty", "NotNull"}, note.Constraints().Keys())
	assert.Contains(t, byKey, "Parameter:"+annotate+"#1")

	quantity := byKey["Parameter:"+warehousePkg+".Order.Pick(string,int)#1"]
	require.NotNil(t, quantity)
	assert.Equal(t, []string{`Max(value="500")`, "Positive"}, quantity.Constraints().Keys())

	for key := range byKey {
		assert.NotContains(t, key, "interface", key)
	}
}

func TestFromConfig_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.Precedence = []string{"nowhere"}

	_, err := FromConfig(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, metadata.ErrInvalidPrecedence)

	cfg = config.Default()
	cfg.Packages = []string{storePkg}
	cfg.Descriptors = []string{filepath.Join(t.TempDir(), "missing.yaml")}

	_, err = FromConfig(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestFromConfig_IgnoreDeclarations(t *testing.T) {
	cfg := config.Default()
	cfg.Packages = []string{storePkg}
	cfg.IgnoreDeclarations = true

	agg, err := FromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, agg.Providers())
}
