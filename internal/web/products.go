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

func (h *Handlers) productsFilterPanel(categories []adminapi.Category) view.FilterPanel {
	catOpts := []view.Option{{Value: "all", Label: "All categories"}}
	for _, cat := range categories {
		catOpts = append(catOpts, view.Option{Value: strconv.FormatInt(cat.ID, 10), Label: cat.Name})
	}
	return view.FilterPanel{
		Action: "/admin/products",
		Fields: []view.FilterField{
			{Kind: view.FilterText, Name: "search", Label: "Search", Placeholder: "Name or SKU"},
			{Kind: view.FilterSelect, Name: "category", Label: "Category", Options: catOpts},
			{Kind: view.FilterSelect, Name: "active", Label: "Status", Options: []view.Option{
				{Value: "all", Label: "All"},
				{Value: "true", Label: "Active"},
				{Value: "false", Label: "Inactive"},
			}},
		},
	}
}

func productActions(p adminapi.Product) template.HTML {
	return template.HTML(fmt.Sprintf(`<a href="/admin/products/%d/edit">Edit</a>`, p.ID))
}

func (h *Handlers) ProductsPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.list")

	filters := listview.Filters{
		"search":   strings.TrimSpace(c.QueryParam("search")),
		"category": c.QueryParam("category"),
		"active":   c.QueryParam("active"),
		"page":     c.QueryParam("page"),
	}
	snap := h.products.Load(ctx, filters)
	if snap.State == listview.StateFailed && sessionLost(snap.Err) {
		return loginRedirect(c)
	}

	categories, err := h.api.ActiveCategories(ctx)
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		// The category filter degrades to "all" when the lookup fails.
		l.Warn("categories_load_failed", "error", err)
	}

	table := view.RenderTable(snap.Items, []view.Column[adminapi.Product]{
		{Key: "name", Header: "Name"},
		{Key: "sku", Header: "SKU"},
		{Key: "categoryName", Header: "Category"},
		{Header: "Price", Render: func(p adminapi.Product) template.HTML { return money(p.Price) }},
		{Key: "stockQuantity", Header: "Stock"},
		{Header: "Availability", Render: func(p adminapi.Product) template.HTML { return view.StockBadge(p.StockQuantity) }},
		{Header: "Status", Render: func(p adminapi.Product) template.HTML { return view.ActiveBadge(p.IsActive) }},
		{Header: "", Render: productActions},
	})

	data := map[string]any{
		"FilterPanel": h.productsFilterPanel(categories).Render(filters),
		"Table":       table,
		"LoadErr":     "",
	}
	if snap.State == listview.StateFailed {
		data["LoadErr"] = snap.Err.Error()
	}
	page := atoiDefault(filters["page"], 0)
	totalPages := int((snap.Total + defaultPageSize - 1) / defaultPageSize)
	for k, v := range pagination("/admin/products", c.QueryParams(), page, totalPages, snap.Total) {
		data[k] = v
	}
	return h.render(c, http.StatusOK, "products.html", "Products", data)
}

// productForm is the parsed and validated create/update payload together
// with the raw values needed to re-render the form on error.
type productForm struct {
	input  adminapi.ProductInput
	values map[string]string
	errors []string
}

func parseProductForm(c echo.Context) productForm {
	f := productForm{values: map[string]string{
		"name":           strings.TrimSpace(c.FormValue("name")),
		"sku":            strings.TrimSpace(c.FormValue("sku")),
		"description":    strings.TrimSpace(c.FormValue("description")),
		"price":          c.FormValue("price"),
		"discount_price": c.FormValue("discount_price"),
		"category_id":    c.FormValue("category_id"),
		"stock_quantity": c.FormValue("stock_quantity"),
		"thumbnail":      strings.TrimSpace(c.FormValue("thumbnail")),
		"is_active":      c.FormValue("is_active"),
	}}

	f.input.Name = f.values["name"]
	if f.input.Name == "" {
		f.errors = append(f.errors, "Name is required.")
	}
	f.input.SKU = f.values["sku"]
	f.input.Description = f.values["description"]
	f.input.Thumbnail = f.values["thumbnail"]
	f.input.IsActive = f.values["is_active"] == "true"

	price, err := strconv.ParseFloat(f.values["price"], 64)
	if err != nil || price <= 0 {
		f.errors = append(f.errors, "Price must be greater than zero.")
	}
	f.input.Price = price

	if raw := f.values["discount_price"]; raw != "" {
		discount, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil || discount < 0:
			f.errors = append(f.errors, "Discount price must be zero or more.")
		case discount >= price && price > 0:
			f.errors = append(f.errors, "Discount price must be below the regular price.")
		default:
			f.input.DiscountPrice = &discount
		}
	}

	categoryID, err := strconv.ParseInt(f.values["category_id"], 10, 64)
	if err != nil || categoryID <= 0 {
		f.errors = append(f.errors, "Pick a category.")
	}
	f.input.CategoryID = categoryID

	stock, err := strconv.Atoi(f.values["stock_quantity"])
	if err != nil || stock < 0 {
		f.errors = append(f.errors, "Stock quantity cannot be negative.")
	}
	f.input.StockQuantity = stock

	return f
}

func (h *Handlers) renderProductForm(c echo.Context, status int, isEdit bool, action string, values map[string]string, errs []string) error {
	categories, err := h.api.ActiveCategories(c.Request().Context())
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		logging.FromContext(c.Request().Context()).Warn("categories_load_failed", "error", err)
	}
	title := "New Product"
	if isEdit {
		title = "Edit Product"
	}
	return h.render(c, status, "product_form.html", title, map[string]any{
		"IsEdit":     isEdit,
		"Action":     action,
		"Form":       values,
		"Errors":     errs,
		"Categories": categories,
	})
}

func (h *Handlers) NewProductPage(c echo.Context) error {
	return h.renderProductForm(c, http.StatusOK, false, "/admin/products", map[string]string{
		"is_active": "true",
	}, nil)
}

func (h *Handlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.create")

	form := parseProductForm(c)
	if len(form.errors) > 0 {
		return h.renderProductForm(c, http.StatusBadRequest, false, "/admin/products", form.values, form.errors)
	}

	product, err := h.api.CreateProduct(ctx, form.input)
	if err != nil {
		return h.fail(c, err, "/admin/products/new", "products.create")
	}

	admin := h.currentAdmin()
	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "product.create", "product", product.ID))

	h.products.Reload(ctx)
	l.Info("product_created", "product_id", product.ID, "name", product.Name)
	return h.redirectWithFlash(c, "/admin/products", "success", "Product created.")
}

func (h *Handlers) EditProductPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That product does not exist.", "/admin/products")
	}
	product, err := h.api.Product(ctx, id)
	if err != nil {
		return h.fail(c, err, "/admin/products", "products.edit")
	}
	if product == nil {
		return h.notFoundPage(c, "That product does not exist.", "/admin/products")
	}

	values := map[string]string{
		"name":           product.Name,
		"sku":            product.SKU,
		"description":    product.Description,
		"price":          strconv.FormatFloat(product.Price, 'f', 2, 64),
		"category_id":    strconv.FormatInt(product.CategoryID, 10),
		"stock_quantity": strconv.Itoa(product.StockQuantity),
		"thumbnail":      product.Thumbnail,
		"is_active":      strconv.FormatBool(product.IsActive),
	}
	if product.DiscountPrice > 0 {
		values["discount_price"] = strconv.FormatFloat(product.DiscountPrice, 'f', 2, 64)
	}
	action := fmt.Sprintf("/admin/products/%d", id)
	return h.renderProductForm(c, http.StatusOK, true, action, values, nil)
}

func (h *Handlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.update")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That product does not exist.", "/admin/products")
	}
	action := fmt.Sprintf("/admin/products/%d", id)

	form := parseProductForm(c)
	if len(form.errors) > 0 {
		return h.renderProductForm(c, http.StatusBadRequest, true, action, form.values, form.errors)
	}

	product, err := h.api.UpdateProduct(ctx, id, form.input)
	if err != nil {
		return h.fail(c, err, action+"/edit", "products.update")
	}

	admin := h.currentAdmin()
	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "product.update", "product", product.ID))

	h.products.Reload(ctx)
	l.Info("product_updated", "product_id", id)
	return h.redirectWithFlash(c, "/admin/products", "success", "Product updated.")
}

// DeleteProduct is the two-step destructive flow: the first submit renders
// a confirmation page with a one-time token, and only a submit presenting
// that token calls the backend.
func (h *Handlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.delete")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That product does not exist.", "/admin/products")
	}

	if token := c.FormValue("confirm_token"); token != "" {
		if !h.consumeConfirmToken("product", id, token) {
			l.Warn("delete_token_rejected", "product_id", id)
			return h.redirectWithFlash(c, "/admin/products", "error", "The confirmation expired. Try again.")
		}
		if err := h.api.DeleteProduct(ctx, id); err != nil {
			return h.fail(c, err, "/admin/products", "products.delete")
		}

		admin := h.currentAdmin()
		h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "product.delete", "product", id))

		h.products.Reload(ctx)
		l.Info("product_deleted", "product_id", id)
		return h.redirectWithFlash(c, "/admin/products", "success", "Product deleted.")
	}

	product, err := h.api.Product(ctx, id)
	if err != nil {
		return h.fail(c, err, "/admin/products", "products.delete")
	}
	if product == nil {
		return h.notFoundPage(c, "That product does not exist.", "/admin/products")
	}

	token, err := h.issueConfirmToken("product", id)
	if err != nil {
		return h.fail(c, err, "/admin/products", "products.delete")
	}
	return h.render(c, http.StatusOK, "confirm_delete.html", "Delete Product", map[string]any{
		"EntityLabel":  "product",
		"EntityName":   product.Name,
		"ActionURL":    fmt.Sprintf("/admin/products/%d/delete", id),
		"CancelURL":    "/admin/products",
		"ConfirmToken": token,
		"Warning":      "",
	})
}
