// Package web is the server-rendered admin console: echo handlers, page
// templates and the session guard. Handlers talk to the commerce backend
// through the typed API client and never hold business rules of their own.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/audit"
	"github.com/shopcrew/admin-console/internal/listview"
	"github.com/shopcrew/admin-console/internal/notify"
	"github.com/shopcrew/admin-console/internal/session"
	"github.com/shopcrew/admin-console/pkg/logging"
)

const (
	sessionCookie = "console_sid"
	flashCookie   = "console_flash"

	defaultPageSize = 10
)

type Handlers struct {
	api      *adminapi.Client
	sessions *session.Manager
	feed     *notify.Feed
	audit    *audit.Producer
	state    session.Store

	cookieSecure bool

	orders    *listview.Store[adminapi.Order]
	products  *listview.Store[adminapi.Product]
	coupons   *listview.Store[adminapi.Coupon]
	users     *listview.Store[adminapi.User]
	inventory *listview.Store[adminapi.Product]
}

func NewHandlers(api *adminapi.Client, sessions *session.Manager, feed *notify.Feed, producer *audit.Producer, state session.Store, cookieSecure bool) *Handlers {
	h := &Handlers{
		api:          api,
		sessions:     sessions,
		feed:         feed,
		audit:        producer,
		state:        state,
		cookieSecure: cookieSecure,
	}

	h.orders = listview.NewStore(func(ctx context.Context, f listview.Filters) ([]adminapi.Order, int64, error) {
		page, err := api.Orders(ctx, adminapi.OrderFilters{
			Status: f["status"],
			Search: f["search"],
			Page:   atoiDefault(f["page"], 0),
			Size:   defaultPageSize,
		})
		if err != nil {
			return nil, 0, err
		}
		return page.Content, page.TotalElements, nil
	})
	h.products = listview.NewStore(func(ctx context.Context, f listview.Filters) ([]adminapi.Product, int64, error) {
		page, err := api.Products(ctx, adminapi.ProductFilters{
			CategoryID: int64(atoiDefault(f["category"], 0)),
			Search:     f["search"],
			Active:     f["active"],
			Page:       atoiDefault(f["page"], 0),
			Size:       defaultPageSize,
		})
		if err != nil {
			return nil, 0, err
		}
		return page.Content, page.TotalElements, nil
	})
	h.coupons = listview.NewStore(func(ctx context.Context, f listview.Filters) ([]adminapi.Coupon, int64, error) {
		page, err := api.Coupons(ctx, atoiDefault(f["page"], 0), defaultPageSize)
		if err != nil {
			return nil, 0, err
		}
		return page.Content, page.TotalElements, nil
	})
	h.users = listview.NewStore(func(ctx context.Context, f listview.Filters) ([]adminapi.User, int64, error) {
		page, err := api.Users(ctx, adminapi.UserFilters{
			Search: f["search"],
			Status: f["status"],
			Page:   atoiDefault(f["page"], 0),
			Size:   defaultPageSize,
		})
		if err != nil {
			return nil, 0, err
		}
		return page.Content, page.TotalElements, nil
	})
	h.inventory = listview.NewStore(func(ctx context.Context, f listview.Filters) ([]adminapi.Product, int64, error) {
		page, err := api.Inventory(ctx, adminapi.InventoryFilters{
			CategoryID: int64(atoiDefault(f["category"], 0)),
			Search:     f["search"],
			Page:       atoiDefault(f["page"], 0),
			Size:       defaultPageSize,
		})
		if err != nil {
			return nil, 0, err
		}
		return page.Content, page.TotalElements, nil
	})
	return h
}

func atoiDefault(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get("csrf").(string)
	return token
}

type flashMessage struct {
	Kind    string
	Message string
}

func (h *Handlers) setFlash(c echo.Context, kind, message string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/admin",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and immediately clears the one-shot flash cookie.
func (h *Handlers) popFlash(c echo.Context) *flashMessage {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(raw, "|")
	if !ok {
		return nil
	}
	return &flashMessage{Kind: kind, Message: message}
}

// render executes a page template with the ambient fields (admin identity,
// CSRF token, flash) merged into the page data.
func (h *Handlers) render(c echo.Context, status int, page, title string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	data["Title"] = title
	data["CSRF"] = csrfToken(c)
	if _, ok := data["Admin"]; !ok {
		data["Admin"] = h.sessions.Current()
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = h.popFlash(c)
	}
	return c.Render(status, page, data)
}

// redirectWithFlash is the post-mutation pattern: flash once, 303 back to a
// GET page.
func (h *Handlers) redirectWithFlash(c echo.Context, target, kind, message string) error {
	h.setFlash(c, kind, message)
	return c.Redirect(http.StatusSeeOther, target)
}

// loginRedirect is the shared 401 destination. By the time a page sees
// ErrUnauthorized the client hook has already invalidated the session, so
// the only move left is routing to login.
func loginRedirect(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/admin/login")
}

// sessionLost reports whether a fetch failed because the backend rejected
// the bearer token. Pages check this before rendering any degraded state;
// a 401 always ends in loginRedirect, never in an inline error.
func sessionLost(err error) bool {
	return errors.Is(err, adminapi.ErrUnauthorized)
}

// fail maps a backend error to console behavior: a 401 redirects to login
// (the session was already invalidated by the client hook), anything else
// becomes an error flash on the page the admin came from.
func (h *Handlers) fail(c echo.Context, err error, backURL, action string) error {
	l := logging.FromContext(c.Request().Context())
	if sessionLost(err) {
		return loginRedirect(c)
	}
	if errors.Is(err, adminapi.ErrForbidden) {
		l.Warn("action_forbidden", "action", action)
		return h.redirectWithFlash(c, backURL, "error", "You do not have permission to do that.")
	}
	l.Warn("action_failed", "action", action, "error", err)
	return h.redirectWithFlash(c, backURL, "error", err.Error())
}

func (h *Handlers) notFoundPage(c echo.Context, message, backURL string) error {
	return h.render(c, http.StatusNotFound, "not_found.html", "Not Found", map[string]any{
		"Message": message,
		"BackURL": backURL,
	})
}

// Confirm tokens back the two-step delete flow. The first submit renders a
// confirmation page carrying a one-time token; only a submit presenting that
// token reaches the backend. Tokens are single-use and scoped to one entity.

func confirmKey(entity string, id int64) string {
	return fmt.Sprintf("confirm:%s:%d", entity, id)
}

func (h *Handlers) issueConfirmToken(entity string, id int64) (string, error) {
	token := uuid.NewString()
	if err := h.state.Set(confirmKey(entity, id), token); err != nil {
		return "", fmt.Errorf("issue confirm token: %w", err)
	}
	return token, nil
}

func (h *Handlers) consumeConfirmToken(entity string, id int64, token string) bool {
	if token == "" {
		return false
	}
	stored, ok, err := h.state.Get(confirmKey(entity, id))
	if err != nil || !ok || stored != token {
		return false
	}
	_ = h.state.Delete(confirmKey(entity, id))
	return true
}

// currentAdmin returns the session identity, falling back to an empty value
// so audit events never panic on a racing logout.
func (h *Handlers) currentAdmin() adminapi.Admin {
	if admin := h.sessions.Current(); admin != nil {
		return *admin
	}
	return adminapi.Admin{}
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad id %q", c.Param("id"))
	}
	return id, nil
}

// pagination computes the pager links for a list page, preserving the other
// query parameters.
func pagination(basePath string, q url.Values, page, totalPages int, total int64) map[string]any {
	link := func(p int) string {
		vals := url.Values{}
		for k, vs := range q {
			if k == "page" {
				continue
			}
			for _, v := range vs {
				vals.Add(k, v)
			}
		}
		if p > 0 {
			vals.Set("page", strconv.Itoa(p))
		}
		if len(vals) == 0 {
			return basePath
		}
		return basePath + "?" + vals.Encode()
	}

	if totalPages < 1 {
		totalPages = 1
	}
	data := map[string]any{
		"PageDisplay": page + 1,
		"TotalPages":  totalPages,
		"Total":       total,
		"PrevURL":     "",
		"NextURL":     "",
	}
	if page > 0 {
		data["PrevURL"] = link(page - 1)
	}
	if page+1 < totalPages {
		data["NextURL"] = link(page + 1)
	}
	return data
}
