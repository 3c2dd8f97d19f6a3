package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/audit"
	"github.com/shopcrew/admin-console/internal/listview"
	"github.com/shopcrew/admin-console/internal/view"
	"github.com/shopcrew/admin-console/pkg/logging"
)

// formTimeLayout is what <input type="datetime-local"> submits; the wire
// format wants seconds appended.
const formTimeLayout = "2006-01-02T15:04"

func couponValue(cp adminapi.Coupon) template.HTML {
	if cp.Type == adminapi.CouponPercentage {
		return template.HTML(template.HTMLEscapeString(fmt.Sprintf("%.0f%%", cp.Value)))
	}
	return money(cp.Value)
}

func couponUsage(cp adminapi.Coupon) template.HTML {
	limit := "∞"
	if cp.UsageLimit > 0 {
		limit = strconv.Itoa(cp.UsageLimit)
	}
	return template.HTML(template.HTMLEscapeString(fmt.Sprintf("%d / %s", cp.UsageCount, limit)))
}

func couponStatus(cp adminapi.Coupon) template.HTML {
	if cp.IsExpired {
		return template.HTML(`<span class="badge badge-inactive">Expired</span>`)
	}
	return view.ActiveBadge(cp.IsActive)
}

func couponActions(csrf string) func(adminapi.Coupon) template.HTML {
	return func(cp adminapi.Coupon) template.HTML {
		return template.HTML(fmt.Sprintf(
			`<a href="/admin/coupons/%d/edit">Edit</a> <form class="inline" method="post" action="/admin/coupons/%d/delete"><input type="hidden" name="_csrf" value="%s"><button type="submit">Delete</button></form>`,
			cp.ID, cp.ID, template.HTMLEscapeString(csrf)))
	}
}

func (h *Handlers) CouponsPage(c echo.Context) error {
	ctx := c.Request().Context()

	filters := listview.Filters{"page": c.QueryParam("page")}
	snap := h.coupons.Load(ctx, filters)
	if snap.State == listview.StateFailed && sessionLost(snap.Err) {
		return loginRedirect(c)
	}

	table := view.RenderTable(snap.Items, []view.Column[adminapi.Coupon]{
		{Key: "code", Header: "Code"},
		{Header: "Type", Render: func(cp adminapi.Coupon) template.HTML {
			return template.HTML(template.HTMLEscapeString(view.StatusLabel(string(cp.Type))))
		}},
		{Header: "Value", Render: couponValue},
		{Header: "Usage", Render: couponUsage},
		{Key: "expiresAt", Header: "Expires"},
		{Header: "Status", Render: couponStatus},
		{Header: "", Render: couponActions(csrfToken(c))},
	})

	data := map[string]any{
		"Table":   table,
		"LoadErr": "",
	}
	if snap.State == listview.StateFailed {
		data["LoadErr"] = snap.Err.Error()
	}
	page := atoiDefault(filters["page"], 0)
	totalPages := int((snap.Total + defaultPageSize - 1) / defaultPageSize)
	for k, v := range pagination("/admin/coupons", c.QueryParams(), page, totalPages, snap.Total) {
		data[k] = v
	}
	return h.render(c, http.StatusOK, "coupons.html", "Coupons", data)
}

type couponForm struct {
	input  adminapi.CouponInput
	values map[string]string
	errors []string
}

func parseCouponForm(c echo.Context) couponForm {
	f := couponForm{values: map[string]string{
		"code":         strings.ToUpper(strings.TrimSpace(c.FormValue("code"))),
		"type":         c.FormValue("type"),
		"value":        c.FormValue("value"),
		"min_purchase": c.FormValue("min_purchase"),
		"max_discount": c.FormValue("max_discount"),
		"usage_limit":  c.FormValue("usage_limit"),
		"expires_at":   c.FormValue("expires_at"),
		"is_active":    c.FormValue("is_active"),
	}}

	f.input.Code = f.values["code"]
	if f.input.Code == "" {
		f.errors = append(f.errors, "Code is required.")
	}

	switch adminapi.CouponType(f.values["type"]) {
	case adminapi.CouponPercentage:
		f.input.Type = adminapi.CouponPercentage
	case adminapi.CouponFixed:
		f.input.Type = adminapi.CouponFixed
	default:
		f.errors = append(f.errors, "Pick a coupon type.")
	}

	value, err := strconv.ParseFloat(f.values["value"], 64)
	if err != nil || value <= 0 {
		f.errors = append(f.errors, "Value must be greater than zero.")
	} else if f.input.Type == adminapi.CouponPercentage && value > 100 {
		f.errors = append(f.errors, "A percentage discount cannot exceed 100.")
	}
	f.input.Value = value

	if raw := f.values["min_purchase"]; raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil || min < 0 {
			f.errors = append(f.errors, "Minimum purchase must be zero or more.")
		}
		f.input.MinPurchase = min
	}
	if raw := f.values["max_discount"]; raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil || max < 0 {
			f.errors = append(f.errors, "Maximum discount must be zero or more.")
		}
		f.input.MaxDiscount = max
	}
	if raw := f.values["usage_limit"]; raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			f.errors = append(f.errors, "Usage limit must be zero or more.")
		}
		f.input.UsageLimit = limit
	}

	if raw := f.values["expires_at"]; raw == "" {
		f.errors = append(f.errors, "An expiry date is required.")
	} else if t, err := time.Parse(formTimeLayout, raw); err != nil {
		f.errors = append(f.errors, "Expiry date is not valid.")
	} else {
		f.input.ExpiresAt = t.Format(wireTimeLayout)
	}

	f.input.IsActive = f.values["is_active"] == "true"
	return f
}

func (h *Handlers) renderCouponForm(c echo.Context, status int, isEdit bool, action string, values map[string]string, errs []string) error {
	title := "New Coupon"
	if isEdit {
		title = "Edit Coupon"
	}
	return h.render(c, status, "coupon_form.html", title, map[string]any{
		"IsEdit": isEdit,
		"Action": action,
		"Form":   values,
		"Errors": errs,
	})
}

func (h *Handlers) NewCouponPage(c echo.Context) error {
	return h.renderCouponForm(c, http.StatusOK, false, "/admin/coupons", map[string]string{
		"type":      string(adminapi.CouponPercentage),
		"is_active": "true",
	}, nil)
}

func (h *Handlers) CreateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupons.create")

	form := parseCouponForm(c)
	if len(form.errors) > 0 {
		return h.renderCouponForm(c, http.StatusBadRequest, false, "/admin/coupons", form.values, form.errors)
	}

	coupon, err := h.api.CreateCoupon(ctx, form.input)
	if err != nil {
		return h.fail(c, err, "/admin/coupons/new", "coupons.create")
	}

	admin := h.currentAdmin()
	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "coupon.create", "coupon", coupon.ID))

	h.coupons.Reload(ctx)
	l.Info("coupon_created", "coupon_id", coupon.ID, "code", coupon.Code)
	return h.redirectWithFlash(c, "/admin/coupons", "success", "Coupon "+coupon.Code+" created.")
}

func (h *Handlers) EditCouponPage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That coupon does not exist.", "/admin/coupons")
	}
	coupon, err := h.api.Coupon(ctx, id)
	if err != nil {
		return h.fail(c, err, "/admin/coupons", "coupons.edit")
	}
	if coupon == nil {
		return h.notFoundPage(c, "That coupon does not exist.", "/admin/coupons")
	}

	values := map[string]string{
		"code":        coupon.Code,
		"type":        string(coupon.Type),
		"value":       strconv.FormatFloat(coupon.Value, 'f', 2, 64),
		"usage_limit": strconv.Itoa(coupon.UsageLimit),
		"is_active":   strconv.FormatBool(coupon.IsActive),
	}
	if coupon.MinPurchase > 0 {
		values["min_purchase"] = strconv.FormatFloat(coupon.MinPurchase, 'f', 2, 64)
	}
	if coupon.MaxDiscount > 0 {
		values["max_discount"] = strconv.FormatFloat(coupon.MaxDiscount, 'f', 2, 64)
	}
	if t, err := time.Parse(wireTimeLayout, coupon.ExpiresAt); err == nil {
		values["expires_at"] = t.Format(formTimeLayout)
	}
	action := fmt.Sprintf("/admin/coupons/%d", id)
	return h.renderCouponForm(c, http.StatusOK, true, action, values, nil)
}

func (h *Handlers) UpdateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupons.update")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That coupon does not exist.", "/admin/coupons")
	}
	action := fmt.Sprintf("/admin/coupons/%d", id)

	form := parseCouponForm(c)
	if len(form.errors) > 0 {
		return h.renderCouponForm(c, http.StatusBadRequest, true, action, form.values, form.errors)
	}

	coupon, err := h.api.UpdateCoupon(ctx, id, form.input)
	if err != nil {
		return h.fail(c, err, action+"/edit", "coupons.update")
	}

	admin := h.currentAdmin()
	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "coupon.update", "coupon", coupon.ID))

	h.coupons.Reload(ctx)
	l.Info("coupon_updated", "coupon_id", id)
	return h.redirectWithFlash(c, "/admin/coupons", "success", "Coupon updated.")
}

func (h *Handlers) DeleteCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupons.delete")

	id, err := pathID(c)
	if err != nil {
		return h.notFoundPage(c, "That coupon does not exist.", "/admin/coupons")
	}

	if token := c.FormValue("confirm_token"); token != "" {
		if !h.consumeConfirmToken("coupon", id, token) {
			l.Warn("delete_token_rejected", "coupon_id", id)
			return h.redirectWithFlash(c, "/admin/coupons", "error", "The confirmation expired. Try again.")
		}
		if err := h.api.DeleteCoupon(ctx, id); err != nil {
			return h.fail(c, err, "/admin/coupons", "coupons.delete")
		}

		admin := h.currentAdmin()
		h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "coupon.delete", "coupon", id))

		h.coupons.Reload(ctx)
		l.Info("coupon_deleted", "coupon_id", id)
		return h.redirectWithFlash(c, "/admin/coupons", "success", "Coupon deleted.")
	}

	coupon, err := h.api.Coupon(ctx, id)
	if err != nil {
		return h.fail(c, err, "/admin/coupons", "coupons.delete")
	}
	if coupon == nil {
		return h.notFoundPage(c, "That coupon does not exist.", "/admin/coupons")
	}

	token, err := h.issueConfirmToken("coupon", id)
	if err != nil {
		return h.fail(c, err, "/admin/coupons", "coupons.delete")
	}
	warning := ""
	if coupon.UsageCount > 0 {
		warning = fmt.Sprintf("It has been used %d times.", coupon.UsageCount)
	}
	return h.render(c, http.StatusOK, "confirm_delete.html", "Delete Coupon", map[string]any{
		"EntityLabel":  "coupon",
		"EntityName":   coupon.Code,
		"ActionURL":    fmt.Sprintf("/admin/coupons/%d/delete", id),
		"CancelURL":    "/admin/coupons",
		"ConfirmToken": token,
		"Warning":      warning,
	})
}
