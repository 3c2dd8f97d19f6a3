package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopcrew/admin-console/internal/adminapi"
)

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"PENDING", "Pending"},
		{"SHIPPED", "Shipped"},
		{"paid", "Paid"},
		{"", Placeholder},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusLabel(tt.in))
		})
	}
}

func TestOrderStatusBadge(t *testing.T) {
	t.Parallel()

	out := string(OrderStatusBadge(adminapi.OrderPending))
	assert.Equal(t, `<span class="badge badge-pending">Pending</span>`, out)
}

func TestStockBadge(t *testing.T) {
	t.Parallel()

	assert.Contains(t, string(StockBadge(0)), "Out of stock")
	assert.Contains(t, string(StockBadge(5)), "Low stock")
	assert.Contains(t, string(StockBadge(10)), "In stock")
}

func TestActiveBadge(t *testing.T) {
	t.Parallel()

	assert.Contains(t, string(ActiveBadge(true)), "Active")
	assert.Contains(t, string(ActiveBadge(false)), "Inactive")
}
