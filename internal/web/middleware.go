package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/pkg/logging"
)

// RequireSession guards the console pages. The browser must present the
// session cookie issued at login and it must match the persisted session;
// an expired bearer token also counts as logged out.
func (h *Handlers) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(sessionCookie)
		if err != nil || !h.sessions.Matches(cookie.Value) || h.sessions.Current() == nil {
			logging.FromContext(c.Request().Context()).Info("session_guard_redirect", "path", c.Request().URL.Path)
			return c.Redirect(http.StatusSeeOther, "/admin/login")
		}
		return next(c)
	}
}

// RedirectIfAuthenticated sends an already logged-in admin from the login
// page to the dashboard.
func (h *Handlers) RedirectIfAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cookie, err := c.Cookie(sessionCookie); err == nil && h.sessions.Matches(cookie.Value) && h.sessions.Current() != nil {
			return c.Redirect(http.StatusSeeOther, "/admin")
		}
		return next(c)
	}
}
