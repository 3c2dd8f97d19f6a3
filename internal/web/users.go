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

var usersFilterPanel = view.FilterPanel{
	Action: "/admin/users",
	Fields: []view.FilterField{
		{Kind: view.FilterText, Name: "search", Label: "Search", Placeholder: "Name or email"},
		{Kind: view.FilterSelect, Name: "status", Label: "Status", Options: []view.Option{
			{Value: "all", Label: "All"},
			{Value: "active", Label: "Active"},
			{Value: "blocked", Label: "Blocked"},
		}},
	},
}

func userLink(u adminapi.User) template.HTML {
	return template.HTML(fmt.Sprintf(`<a href="/admin/users/%d">%s</a>`,
		u.ID, template.HTMLEscapeString(u.FullName)))
}

func (h *Handlers) UsersPage(c echo.Context) error {
	ctx := c.Request().Context()

	filters := listview.Filters{
		"search": strings.TrimSpace(c.QueryParam("search")),
		"status": c.QueryParam("status"),
		"page":   c.QueryParam("page"),
	}
	snap := h.users.Load(ctx, filters)
	if snap.State == listview.StateFailed && sessionLost(snap.Err) {
		return loginRedirect(c)
	}

	table := view.RenderTable(snap.Items, []view.Column[adminapi.User]{
		{Header: "Name", Render: userLink},
		{Key: "email", Header: "Email"},
		{Key: "mobile", Header: "Mobile"},
		{Key: "totalOrders", Header: "Orders"},
		{Header: "Spent", Render: func(u adminapi.User) template.HTML { return money(u.TotalSpent) }},
		{Header: "Status", Render: func(u adminapi.User) template.HTML { return view.ActiveBadge(u.IsActive) }},
	})

	data := map[string]any{
		"FilterPanel": usersFilterPanel.Render(filters),
		"Table":       table,
		"LoadErr":     "",
	}
	if snap.State == listview.StateFailed {
		data["LoadErr"] = snap.Err.Error()
	}
	page := atoiDefault(filters["page"], 0)
	totalPages := int((snap.Total + defaultPageSize - 1) / defaultPageSize)
	for k, v := range pagination("/admin/users", c.QueryParams(), page, totalPages, snap.Total) {
		data[k] = v
	}
	return h.render(c, http.StatusOK, "users.html", "Users", data)
}

func (h *Handlers) UserDetailPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.detail")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That user does not exist.", "/admin/users")
	}

	user, err := h.api.User(ctx, id)
	if err != nil {
		return h.fail(c, err, "/admin/users", "users.detail")
	}
	if user == nil {
		return h.notFoundPage(c, "That user does not exist.", "/admin/users")
	}

	orders, err := h.api.UserOrders(ctx, id, atoiDefault(c.QueryParam("page"), 0), defaultPageSize)
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		// The profile still renders without its order history.
		l.Warn("user_orders_load_failed", "user_id", id, "error", err)
		orders = &adminapi.Page[adminapi.Order]{}
	}

	ordersTable := view.RenderTable(orders.Content, []view.Column[adminapi.Order]{
		{Header: "Order", Render: orderLink},
		{Key: "itemCount", Header: "Items"},
		{Header: "Total", Render: func(o adminapi.Order) template.HTML { return money(o.Total) }},
		{Header: "Status", Render: func(o adminapi.Order) template.HTML { return view.OrderStatusBadge(o.Status) }},
		{Key: "orderDate", Header: "Placed"},
	})

	return h.render(c, http.StatusOK, "user_detail.html", user.FullName, map[string]any{
		"User":        user,
		"OrdersTable": ordersTable,
	})
}

func (h *Handlers) SetUserStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.status")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That user does not exist.", "/admin/users")
	}
	back := "/admin/users/" + strconv.FormatInt(id, 10)

	active, err := strconv.ParseBool(c.FormValue("active"))
	if err != nil {
		return h.redirectWithFlash(c, back, "error", "Bad status value.")
	}

	user, err := h.api.SetUserStatus(ctx, id, active)
	if err != nil {
		return h.fail(c, err, back, "users.status")
	}

	admin := h.currentAdmin()
	action := "user.block"
	message := "User blocked."
	if active {
		action = "user.unblock"
		message = "User unblocked."
	}
	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, action, "user", user.ID))

	h.users.Reload(ctx)
	l.Info("user_status_updated", "user_id", id, "active", active)
	return h.redirectWithFlash(c, back, "success", message)
}
