package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/audit"
	"github.com/shopcrew/admin-console/pkg/logging"
)

func (h *Handlers) LoginPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "login.html", "Login", map[string]any{
		"Admin": nil,
		"Email": "",
	})
}

func (h *Handlers) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return h.render(c, http.StatusBadRequest, "login.html", "Login", map[string]any{
			"Admin": nil,
			"Email": email,
			"Flash": &flashMessage{Kind: "error", Message: "Email and password are required."},
		})
	}

	result, err := h.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, adminapi.ErrUnauthorized) {
			l.Warn("login_rejected", "email", email)
			return h.render(c, http.StatusUnauthorized, "login.html", "Login", map[string]any{
				"Admin": nil,
				"Email": email,
				"Flash": &flashMessage{Kind: "error", Message: "Invalid email or password."},
			})
		}
		l.Error("login_failed", "error", err)
		return h.render(c, http.StatusBadGateway, "login.html", "Login", map[string]any{
			"Admin": nil,
			"Email": email,
			"Flash": &flashMessage{Kind: "error", Message: "Could not reach the backend. Try again."},
		})
	}

	admin := adminapi.Admin{
		ID:       result.UserID,
		Email:    result.Email,
		FullName: result.FullName,
		Role:     result.Role,
	}
	sid, err := h.sessions.Establish(result.Token, admin)
	if err != nil {
		l.Error("session_establish_failed", "error", err)
		return h.render(c, http.StatusInternalServerError, "login.html", "Login", map[string]any{
			"Admin": nil,
			"Email": email,
			"Flash": &flashMessage{Kind: "error", Message: "Could not start a session. Try again."},
		})
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "auth.login", "admin", admin.ID))
	l.Info("login_succeeded", "admin_id", admin.ID)
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *Handlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	admin := h.currentAdmin()

	if err := h.sessions.Clear(); err != nil {
		logging.FromContext(ctx).Error("logout_clear_failed", "error", err)
	}
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.audit.Publish(ctx, audit.Entry(admin.ID, admin.Email, "auth.logout", "admin", admin.ID))
	return c.Redirect(http.StatusSeeOther, "/admin/login")
}
