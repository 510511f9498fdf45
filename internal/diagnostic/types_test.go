package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	d.AddWarning("unused_tag", "tag has no effect", "store.Order.ID", "")
	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddError("unknown_field", "field not found", "store.Order.Missing", "orders.yaml")

	var other Diagnostics
	other.AddError("bad_constraint", "missing closing parenthesis", "", "store.Order.Items")
	other.AddInfo("ignored", "declarations ignored", "store.Order", "")

	d.Merge(other)

	assert.True(t, d.HasErrors())
	assert.Len(t, d.Errors, 2)
	assert.Len(t, d.Infos, 1)

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t,
		"orders.yaml [store.Order.Missing]: [unknown_field] field not found; "+
			"store.Order.Items: [bad_constraint] missing closing parenthesis",
		err.Error())
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}

func TestDiagnostic_StringWithSuggestions(t *testing.T) {
	var d Diagnostics

	d.AddErrorWithSuggestions("field_not_found", `field "Emial" not found`, "store.Customer.Emial", "store.yaml: beans[0]",
		[]string{"Email"})
	d.AddErrorWithSuggestions("type_not_found", `type "Ordr" not found`, "", "", []string{"store.Order", "warehouse.Order"})

	require.Len(t, d.Errors, 2)
	assert.Equal(t,
		`store.yaml: beans[0] [store.Customer.Emial]: [field_not_found] field "Emial" not found (did you mean Email?)`,
		d.Errors[0].String())
	assert.Equal(t,
		`[type_not_found] type "Ordr" not found (did you mean store.Order or warehouse.Order?)`,
		d.Errors[1].String())
}
