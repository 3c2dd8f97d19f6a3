package view

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopcrew/admin-console/internal/adminapi"
)

// LowStockThreshold matches the backend's low-stock report cutoff.
const LowStockThreshold = 10

func badge(class, label string) template.HTML {
	return template.HTML(fmt.Sprintf(`<span class="badge badge-%s">%s</span>`,
		template.HTMLEscapeString(class), template.HTMLEscapeString(label)))
}

// StatusLabel turns an uppercase wire enum into its display form
// (PENDING -> Pending).
func StatusLabel(s string) string {
	if s == "" {
		return Placeholder
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func OrderStatusBadge(s adminapi.OrderStatus) template.HTML {
	return badge(strings.ToLower(string(s)), StatusLabel(string(s)))
}

func PaymentStatusBadge(s adminapi.PaymentStatus) template.HTML {
	return badge("pay-"+strings.ToLower(string(s)), StatusLabel(string(s)))
}

func StockBadge(quantity int) template.HTML {
	switch {
	case quantity <= 0:
		return badge("stock-out", "Out of stock")
	case quantity < LowStockThreshold:
		return badge("stock-low", "Low stock")
	default:
		return badge("stock-ok", "In stock")
	}
}

func ActiveBadge(active bool) template.HTML {
	if active {
		return badge("active", "Active")
	}
	return badge("inactive", "Inactive")
}
