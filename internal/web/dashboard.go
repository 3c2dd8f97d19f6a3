package web

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/view"
	"github.com/shopcrew/admin-console/pkg/logging"
)

func money(v float64) template.HTML {
	return template.HTML(template.HTMLEscapeString(fmt.Sprintf("$%.2f", v)))
}

func orderLink(o adminapi.Order) template.HTML {
	return template.HTML(fmt.Sprintf(`<a href="/admin/orders/%d">%s</a>`,
		o.ID, template.HTMLEscapeString(o.OrderNumber)))
}

func (h *Handlers) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.stats")

	stats, err := h.api.DashboardStats(ctx)
	if err != nil {
		l.Warn("dashboard_load_failed", "error", err)
		return h.fail(c, err, "/admin/orders", "dashboard.stats")
	}

	salesTable := view.RenderTable(stats.SalesData, []view.Column[adminapi.SalesPoint]{
		{Key: "date", Header: "Date"},
		{Header: "Revenue", Render: func(p adminapi.SalesPoint) template.HTML { return money(p.Revenue) }},
		{Key: "orders", Header: "Orders"},
	})

	recentTable := view.RenderTable(stats.RecentOrders, []view.Column[adminapi.Order]{
		{Header: "Order", Render: orderLink},
		{Key: "customerName", Header: "Customer"},
		{Header: "Status", Render: func(o adminapi.Order) template.HTML { return view.OrderStatusBadge(o.Status) }},
		{Header: "Total", Render: func(o adminapi.Order) template.HTML { return money(o.Total) }},
	})

	lowStockTable := view.RenderTable(stats.LowStockProducts, []view.Column[adminapi.Product]{
		{Key: "name", Header: "Product"},
		{Key: "sku", Header: "SKU"},
		{Key: "stockQuantity", Header: "Stock"},
		{Header: "", Render: func(p adminapi.Product) template.HTML { return view.StockBadge(p.StockQuantity) }},
	})

	return h.render(c, http.StatusOK, "dashboard.html", "Dashboard", map[string]any{
		"Stats":             stats,
		"SalesTable":        salesTable,
		"RecentOrdersTable": recentTable,
		"LowStockTable":     lowStockTable,
	})
}
