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

func (h *Handlers) inventoryFilterPanel(categories []adminapi.Category) view.FilterPanel {
	catOpts := []view.Option{{Value: "all", Label: "All categories"}}
	for _, cat := range categories {
		catOpts = append(catOpts, view.Option{Value: strconv.FormatInt(cat.ID, 10), Label: cat.Name})
	}
	return view.FilterPanel{
		Action: "/admin/inventory",
		Fields: []view.FilterField{
			{Kind: view.FilterText, Name: "search", Label: "Search", Placeholder: "Name or SKU"},
			{Kind: view.FilterSelect, Name: "category", Label: "Category", Options: catOpts},
		},
	}
}

func adjustForms(csrf string) func(adminapi.Product) template.HTML {
	return func(p adminapi.Product) template.HTML {
		return template.HTML(fmt.Sprintf(
			`<form class="inline" method="post" action="/admin/inventory/%d/adjust"><input type="hidden" name="_csrf" value="%s"><input type="number" name="quantity" min="1" value="1" style="width: 4rem;"><button type="submit" name="type" value="add">Add</button><button type="submit" name="type" value="remove">Remove</button></form>`,
			p.ID, template.HTMLEscapeString(csrf)))
	}
}

func (h *Handlers) InventoryPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.list")

	filters := listview.Filters{
		"search":   strings.TrimSpace(c.QueryParam("search")),
		"category": c.QueryParam("category"),
		"page":     c.QueryParam("page"),
	}
	snap := h.inventory.Load(ctx, filters)
	if snap.State == listview.StateFailed && sessionLost(snap.Err) {
		return loginRedirect(c)
	}

	lowCount, outCount := 0, 0
	if low, err := h.api.LowStockProducts(ctx); err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		l.Warn("low_stock_load_failed", "error", err)
	} else {
		for _, p := range low {
			if p.StockQuantity <= 0 {
				outCount++
			} else {
				lowCount++
			}
		}
	}

	categories, err := h.api.ActiveCategories(ctx)
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		l.Warn("categories_load_failed", "error", err)
	}

	table := view.RenderTable(snap.Items, []view.Column[adminapi.Product]{
		{Key: "name", Header: "Product"},
		{Key: "sku", Header: "SKU"},
		{Key: "categoryName", Header: "Category"},
		{Key: "stockQuantity", Header: "Stock"},
		{Header: "Availability", Render: func(p adminapi.Product) template.HTML { return view.StockBadge(p.StockQuantity) }},
		{Header: "Adjust", Render: adjustForms(csrfToken(c))},
	})

	history, err := h.api.StockHistory(ctx, 0, defaultPageSize)
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		l.Warn("stock_history_load_failed", "error", err)
		history = &adminapi.Page[adminapi.StockMovement]{}
	}
	historyTable := view.RenderTable(history.Content, []view.Column[adminapi.StockMovement]{
		{Key: "productName", Header: "Product"},
		{Header: "Change", Render: func(m adminapi.StockMovement) template.HTML {
			sign := "+"
			if strings.EqualFold(m.Type, "remove") {
				sign = "-"
			}
			return template.HTML(template.HTMLEscapeString(fmt.Sprintf("%s%d", sign, m.Quantity)))
		}},
		{Key: "adjustedBy", Header: "By"},
		{Key: "createdAt", Header: "When"},
	})

	data := map[string]any{
		"FilterPanel":  h.inventoryFilterPanel(categories).Render(filters),
		"Table":        table,
		"HistoryTable": historyTable,
		"LowCount":     lowCount,
		"OutCount":     outCount,
		"LoadErr":      "",
	}
	if snap.State == listview.StateFailed {
		data["LoadErr"] = snap.Err.Error()
	}
	page := atoiDefault(filters["page"], 0)
	totalPages := int((snap.Total + defaultPageSize - 1) / defaultPageSize)
	for k, v := range pagination("/admin/inventory", c.QueryParams(), page, totalPages, snap.Total) {
		data[k] = v
	}
	return h.render(c, http.StatusOK, "inventory.html", "Inventory", data)
}

// AdjustStock rejects a removal that would drive stock negative before any
// request reaches the backend.
func (h *Handlers) AdjustStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.adjust")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That product does not exist.", "/admin/inventory")
	}

	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil || quantity <= 0 {
		return h.redirectWithFlash(c, "/admin/inventory", "error", "Quantity must be a positive number.")
	}
	adjustmentType := c.FormValue("type")
	if adjustmentType != "add" && adjustmentType != "remove" {
		return h.redirectWithFlash(c, "/admin/inventory", "error", "Bad adjustment type.")
	}

	if adjustmentType == "remove" {
		product, err := h.api.Product(ctx, id)
		if err != nil {
			return h.fail(c, err, "/admin/inventory", "inventory.adjust")
		}
		if product == nil {
			return h.notFoundPage(c, "That product does not exist.", "/admin/inventory")
		}
		if quantity > product.StockQuantity {
			l.Warn("stock_adjust_rejected", "product_id", id, "stock", product.StockQuantity, "requested", quantity)
			return h.redirectWithFlash(c, "/admin/inventory", "error",
				fmt.Sprintf("Cannot remove %d units: only %d in stock.", quantity, product.StockQuantity))
		}
	}

	product, err := h.api.AdjustStock(ctx, id, quantity, adjustmentType)
	if err != nil {
		return h.fail(c, err, "/admin/inventory", "inventory.adjust")
	}

	admin := h.currentAdmin()
	event := audit.Entry(admin.ID, admin.Email, "inventory.adjust", "product", id)
	event.Detail = fmt.Sprintf("%s %d", adjustmentType, quantity)
	h.audit.Publish(ctx, event)

	h.inventory.Reload(ctx)
	l.Info("stock_adjusted", "product_id", id, "type", adjustmentType, "quantity", quantity, "stock", product.StockQuantity)
	return h.redirectWithFlash(c, "/admin/inventory", "success",
		fmt.Sprintf("Stock for %s is now %d.", product.Name, product.StockQuantity))
}
