package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ordersPanel() FilterPanel {
	return FilterPanel{
		Action: "/admin/orders",
		Fields: []FilterField{
			{Kind: FilterText, Name: "search", Label: "Search", Placeholder: "Order number or customer"},
			{Kind: FilterSelect, Name: "status", Label: "Status", Options: []Option{
				{Value: "all", Label: "All statuses"},
				{Value: "PENDING", Label: "Pending"},
				{Value: "SHIPPED", Label: "Shipped"},
			}},
		},
	}
}

func TestFilterPanel_RendersBoundValues(t *testing.T) {
	t.Parallel()

	out := string(ordersPanel().Render(map[string]string{"search": "ORD-0001", "status": "PENDING"}))

	assert.Contains(t, out, `action="/admin/orders"`)
	assert.Contains(t, out, `value="ORD-0001"`)
	assert.Contains(t, out, `<option value="PENDING" selected>Pending</option>`)
	assert.Contains(t, out, `<option value="all">All statuses</option>`)
	assert.Contains(t, out, `href="/admin/orders"`, "reset link points at the bare list path")
}

func TestFilterPanel_EmptyValues(t *testing.T) {
	t.Parallel()

	out := string(ordersPanel().Render(nil))

	assert.Contains(t, out, `value=""`)
	assert.NotContains(t, out, "selected>Pending")
}

func TestFilterPanel_EscapesUserInput(t *testing.T) {
	t.Parallel()

	out := string(ordersPanel().Render(map[string]string{"search": `"><script>`}))

	assert.NotContains(t, out, "<script>")
}
