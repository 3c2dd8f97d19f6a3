package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/audit"
	"github.com/shopcrew/admin-console/internal/view"
	"github.com/shopcrew/admin-console/pkg/logging"
)

func categoryActions(csrf string) func(adminapi.Category) template.HTML {
	return func(cat adminapi.Category) template.HTML {
		return template.HTML(fmt.Sprintf(
			`<a href="/admin/categories/%d/edit">Edit</a> <form class="inline" method="post" action="/admin/categories/%d/delete"><input type="hidden" name="_csrf" value="%s"><button type="submit">Delete</button></form>`,
			cat.ID, cat.ID, template.HTMLEscapeString(csrf)))
	}
}

func (h *Handlers) CategoriesPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.list")

	categories, err := h.api.Categories(ctx)
	loadErr := ""
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		l.Warn("categories_load_failed", "error", err)
		loadErr = err.Error()
	}

	table := view.RenderTable(categories, []view.Column[adminapi.Category]{
		{Key: "name", Header: "Name"},
		{Key: "description", Header: "Description"},
		{Header: "Status", Render: func(cat adminapi.Category) template.HTML { return view.ActiveBadge(cat.IsActive) }},
		{Header: "", Render: categoryActions(csrfToken(c))},
	})

	return h.render(c, http.StatusOK, "categories.html", "Categories", map[string]any{
		"Table":   table,
		"LoadErr": loadErr,
	})
}

type categoryForm struct {
	input  adminapi.CategoryInput
	values map[string]string
	errors []string
}

func parseCategoryForm(c echo.Context) categoryForm {
	f := categoryForm{values: map[string]string{
		"name":        strings.TrimSpace(c.FormValue("name")),
		"description": strings.TrimSpace(c.FormValue("description")),
		"is_active":   c.FormValue("is_active"),
	}}
	f.input.Name = f.values["name"]
	if f.input.Name == "" {
		f.errors = append(f.errors, "Name is required.")
	}
	f.input.Description = f.values["description"]
	f.input.IsActive = f.values["is_active"] == "true"
	return f
}

func (h *Handlers) renderCategoryForm(c echo.Context, status int, isEdit bool, action string, values map[string]string, errs []string) error {
	title := "New Category"
	if isEdit {
		title = "Edit Category"
	}
	return h.render(c, status, "category_form.html", title, map[string]any{
		"IsEdit": isEdit,
		"Action": action,
		"Form":   values,
		"Errors": errs,
	})
}

func (h *Handlers) NewCategoryPage(c echo.Context) error {
	return h.renderCategoryForm(c, http.StatusOK, false, "/admin/categories", map[string]string{
		"is_active": "true",
	}, nil)
}

func (h *Handlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.create")

	form := parseCategoryForm(c)
	if len(form.errors) > 0 {
		return h.renderCategoryForm(c, http.StatusBadRequest, false, "/admin/categories", form.values, form.errors)
	}

	category, err := h.api.CreateCategory(ctx, form.input)
	if err != nil {
		return h.fail(c, err, "/admin/categories/new", "categories.create")
	}

	admin := h.currentAdmin()
	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "category.create", "category", category.ID))

	l.Info("category_created", "category_id", category.ID, "name", category.Name)
	return h.redirectWithFlash(c, "/admin/categories", "success", "Category created.")
}

func (h *Handlers) EditCategoryPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That category does not exist.", "/admin/categories")
	}
	category, err := h.api.Category(ctx, id)
	if err != nil {
		return h.fail(c, err, "/admin/categories", "categories.edit")
	}
	if category == nil {
		return h.notFoundPage(c, "That category does not exist.", "/admin/categories")
	}

	values := map[string]string{
		"name":        category.Name,
		"description": category.Description,
		"is_active":   fmt.Sprintf("%t", category.IsActive),
	}
	action := fmt.Sprintf("/admin/categories/%d", id)
	return h.renderCategoryForm(c, http.StatusOK, true, action, values, nil)
}

func (h *Handlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.update")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That category does not exist.", "/admin/categories")
	}
	action := fmt.Sprintf("/admin/categories/%d", id)

	form := parseCategoryForm(c)
	if len(form.errors) > 0 {
		return h.renderCategoryForm(c, http.StatusBadRequest, true, action, form.values, form.errors)
	}

	category, err := h.api.UpdateCategory(ctx, id, form.input)
	if err != nil {
		return h.fail(c, err, action+"/edit", "categories.update")
	}

	admin := h.currentAdmin()
	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "category.update", "category", category.ID))

	l.Info("category_updated", "category_id", id)
	return h.redirectWithFlash(c, "/admin/categories", "success", "Category updated.")
}

// DeleteCategory refuses to delete a category that still has products; the
// backend enforces the same rule, the count check just produces a friendlier
// message before the confirmation step.
func (h *Handlers) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.delete")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That category does not exist.", "/admin/categories")
	}

	if token := c.FormValue("confirm_token"); token != "" {
		if !h.consumeConfirmToken("category", id, token) {
			l.Warn("delete_token_rejected", "category_id", id)
			return h.redirectWithFlash(c, "/admin/categories", "error", "The confirmation expired. Try again.")
		}
		if err := h.api.DeleteCategory(ctx, id); err != nil {
			return h.fail(c, err, "/admin/categories", "categories.delete")
		}

		admin := h.currentAdmin()
		h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "category.delete", "category", id))

		l.Info("category_deleted", "category_id", id)
		return h.redirectWithFlash(c, "/admin/categories", "success", "Category deleted.")
	}

	category, err := h.api.Category(ctx, id)
	if err != nil {
		return h.fail(c, err, "/admin/categories", "categories.delete")
	}
	if category == nil {
		return h.notFoundPage(c, "That category does not exist.", "/admin/categories")
	}

	count, err := h.api.CategoryProductCount(ctx, id)
	if err != nil {
		return h.fail(c, err, "/admin/categories", "categories.delete")
	}
	if count > 0 {
		return h.redirectWithFlash(c, "/admin/categories", "error",
			fmt.Sprintf("Cannot delete %s: %d products still use it.", category.Name, count))
	}

	token, err := h.issueConfirmToken("category", id)
	if err != nil {
		return h.fail(c, err, "/admin/categories", "categories.delete")
	}
	return h.render(c, http.StatusOK, "confirm_delete.html", "Delete Category", map[string]any{
		"EntityLabel":  "category",
		"EntityName":   category.Name,
		"ActionURL":    fmt.Sprintf("/admin/categories/%d/delete", id),
		"CancelURL":    "/admin/categories",
		"ConfirmToken": token,
		"Warning":      "",
	})
}
