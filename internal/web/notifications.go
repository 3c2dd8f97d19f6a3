package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/pkg/logging"
)

func (h *Handlers) NotificationsPage(c echo.Context) error {
	ctx := c.Request().Context()

	admin := h.currentAdmin()
	items, unread, err := h.feed.List(ctx, admin.ID)
	if err != nil {
		return h.fail(c, err, "/admin", "notifications.list")
	}

	return h.render(c, http.StatusOK, "notifications.html", "Notifications", map[string]any{
		"Items":  items,
		"Unread": unread,
	})
}

func (h *Handlers) MarkNotificationRead(c echo.Context) error {
	admin := h.currentAdmin()
	id := c.Param("id")
	if err := h.feed.MarkRead(admin.ID, id); err != nil {
		logging.FromContext(c.Request().Context()).Error("notification_mark_read_failed", "notification_id", id, "error", err)
		return h.redirectWithFlash(c, "/admin/notifications", "error", "Could not mark the notification read.")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/notifications")
}

func (h *Handlers) MarkAllNotificationsRead(c echo.Context) error {
	ctx := c.Request().Context()
	admin := h.currentAdmin()
	if err := h.feed.MarkAllRead(ctx, admin.ID); err != nil {
		logging.FromContext(ctx).Error("notification_mark_all_failed", "error", err)
		return h.redirectWithFlash(c, "/admin/notifications", "error", "Could not mark notifications read.")
	}
	return c.Redirect(http.StatusSeeOther, "/admin/notifications")
}
