package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/audit"
	"github.com/shopcrew/admin-console/pkg/logging"
)

const minPasswordLength = 8

func (h *Handlers) SettingsPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "settings.html", "Settings", nil)
}

func (h *Handlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.password")

	current := c.FormValue("current_password")
	next := c.FormValue("new_password")
	confirm := c.FormValue("confirm_password")

	var errs []string
	if current == "" {
		errs = append(errs, "Current password is required.")
	}
	if len(next) < minPasswordLength {
		errs = append(errs, "New password must be at least 8 characters.")
	}
	if next != confirm {
		errs = append(errs, "New passwords do not match.")
	}
	if len(errs) > 0 {
		return h.render(c, http.StatusBadRequest, "settings.html", "Settings", map[string]any{
			"Errors": errs,
		})
	}

	if err := h.api.ChangePassword(ctx, current, next); err != nil {
		if errors.Is(err, adminapi.ErrUnauthorized) {
			return c.Redirect(http.StatusSeeOther, "/admin/login")
		}
		l.Warn("password_change_failed", "error", err)
		return h.render(c, http.StatusBadRequest, "settings.html", "Settings", map[string]any{
			"Errors": []string{err.Error()},
		})
	}

	admin := h.currentAdmin()
	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "auth.password_change", "admin", admin.ID))

	l.Info("password_changed", "admin_id", admin.ID)
	return h.redirectWithFlash(c, "/admin/settings", "success", "Password changed.")
}
