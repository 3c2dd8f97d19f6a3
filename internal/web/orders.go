package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/audit"
	"github.com/shopcrew/admin-console/internal/listview"
	"github.com/shopcrew/admin-console/internal/view"
	"github.com/shopcrew/admin-console/pkg/logging"
)

func orderStatusOptions() []view.Option {
	opts := []view.Option{{Value: "all", Label: "All statuses"}}
	for _, s := range adminapi.OrderStatuses {
		opts = append(opts, view.Option{Value: string(s), Label: view.StatusLabel(string(s))})
	}
	return opts
}

var ordersFilterPanel = view.FilterPanel{
	Action: "/admin/orders",
	Fields: []view.FilterField{
		{Kind: view.FilterText, Name: "search", Label: "Search", Placeholder: "Order number, customer"},
		{Kind: view.FilterSelect, Name: "status", Label: "Status", Options: orderStatusOptions()},
	},
}

func (h *Handlers) OrdersPage(c echo.Context) error {
	ctx := c.Request().Context()

	filters := listview.Filters{
		"status": c.QueryParam("status"),
		"search": strings.TrimSpace(c.QueryParam("search")),
		"page":   c.QueryParam("page"),
	}
	snap := h.orders.Load(ctx, filters)
	if snap.State == listview.StateFailed && sessionLost(snap.Err) {
		return loginRedirect(c)
	}

	table := view.RenderTable(snap.Items, []view.Column[adminapi.Order]{
		{Header: "Order", Render: orderLink},
		{Key: "customerName", Header: "Customer"},
		{Key: "itemCount", Header: "Items"},
		{Header: "Total", Render: func(o adminapi.Order) template.HTML { return money(o.Total) }},
		{Header: "Status", Render: func(o adminapi.Order) template.HTML { return view.OrderStatusBadge(o.Status) }},
		{Header: "Payment", Render: func(o adminapi.Order) template.HTML { return view.PaymentStatusBadge(o.PaymentStatus) }},
		{Key: "orderDate", Header: "Placed"},
	})

	data := map[string]any{
		"FilterPanel": ordersFilterPanel.Render(filters),
		"Table":       table,
		"LoadErr":     "",
	}
	if snap.State == listview.StateFailed {
		data["LoadErr"] = snap.Err.Error()
	}
	page := atoiDefault(filters["page"], 0)
	totalPages := int((snap.Total + defaultPageSize - 1) / defaultPageSize)
	for k, v := range pagination("/admin/orders", c.QueryParams(), page, totalPages, snap.Total) {
		data[k] = v
	}
	return h.render(c, http.StatusOK, "orders.html", "Orders", data)
}

func (h *Handlers) OrderDetailPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.detail")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That order does not exist.", "/admin/orders")
	}

	order, err := h.api.Order(ctx, id)
	if err != nil {
		return h.fail(c, err, "/admin/orders", "orders.detail")
	}
	if order == nil {
		return h.notFoundPage(c, "That order does not exist.", "/admin/orders")
	}

	timeline, err := h.api.OrderTimeline(ctx, id)
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		// The page still renders without its timeline.
		l.Warn("timeline_load_failed", "order_id", id, "error", err)
	}

	itemsTable := view.RenderTable(order.Items, []view.Column[adminapi.OrderItem]{
		{Key: "name", Header: "Product"},
		{Key: "sku", Header: "SKU"},
		{Key: "quantity", Header: "Qty"},
		{Header: "Price", Render: func(i adminapi.OrderItem) template.HTML { return money(i.Price) }},
		{Header: "Line Total", Render: func(i adminapi.OrderItem) template.HTML { return money(i.LineTotal) }},
	})

	return h.render(c, http.StatusOK, "order_detail.html", "Order "+order.OrderNumber, map[string]any{
		"Order":      order,
		"ItemsTable": itemsTable,
		"Timeline":   timeline,
		"CanRefund":  order.PaymentStatus == adminapi.PaymentPaid,
	})
}

func (h *Handlers) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.status")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That order does not exist.", "/admin/orders")
	}
	back := "/admin/orders/" + strconv.FormatInt(id, 10)

	status := adminapi.OrderStatus(c.FormValue("status"))
	if !validOrderStatus(status) {
		return h.redirectWithFlash(c, back, "error", "Unknown order status.")
	}

	order, err := h.api.UpdateOrderStatus(ctx, id, status, strings.TrimSpace(c.FormValue("notes")))
	if err != nil {
		return h.fail(c, err, back, "orders.status")
	}

	admin := h.currentAdmin()
	event := audit.Entry(admin.ID, admin.Email, "order.status_update", "order", id)
	event.Detail = string(order.Status)
	h.audit.Publish(ctx, event)

	h.orders.Reload(ctx)
	l.Info("order_status_updated", "order_id", id, "status", order.Status)
	return h.redirectWithFlash(c, back, "success", "Order status updated to "+view.StatusLabel(string(order.Status))+".")
}

func (h *Handlers) RefundOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.refund")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That order does not exist.", "/admin/orders")
	}
	back := "/admin/orders/" + strconv.FormatInt(id, 10)

	amount, err := strconv.ParseFloat(c.FormValue("amount"), 64)
	if err != nil || amount <= 0 {
		return h.redirectWithFlash(c, back, "error", "Refund amount must be a positive number.")
	}
	reason := strings.TrimSpace(c.FormValue("reason"))
	if reason == "" {
		return h.redirectWithFlash(c, back, "error", "A refund reason is required.")
	}

	order, err := h.api.Order(ctx, id)
	if err != nil {
		return h.fail(c, err, back, "orders.refund")
	}
	if order == nil {
		return h.notFoundPage(c, "That order does not exist.", "/admin/orders")
	}
	if order.PaymentStatus != adminapi.PaymentPaid {
		return h.redirectWithFlash(c, back, "error", "Only paid orders can be refunded.")
	}
	if amount > order.Total {
		l.Warn("refund_rejected", "order_id", id, "amount", amount, "total", order.Total)
		return h.redirectWithFlash(c, back, "error",
			fmt.Sprintf("Refund cannot exceed the order total of $%.2f.", order.Total))
	}

	if err := h.api.RefundOrder(ctx, id, amount, reason); err != nil {
		return h.fail(c, err, back, "orders.refund")
	}

	admin := h.currentAdmin()
	event := audit.Entry(admin.ID, admin.Email, "order.refund", "order", id)
	event.Detail = strconv.FormatFloat(amount, 'f', 2, 64)
	h.audit.Publish(ctx, event)

	h.orders.Reload(ctx)
	l.Info("order_refunded", "order_id", id, "amount", amount)
	return h.redirectWithFlash(c, back, "success", "Refund issued.")
}

func validOrderStatus(s adminapi.OrderStatus) bool {
	for _, known := range adminapi.OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}
