package web

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/shopcrew/admin-console/pkg/middleware/logging"
)

// Register wires every console route onto the echo instance. The login pair
// is registered outside the guarded group so a logged-out admin can reach it.
func Register(e *echo.Echo, h *Handlers, log *slog.Logger) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(log))
	e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookieName:     "console_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   h.cookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	}))

	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/admin/login", h.LoginPage, h.RedirectIfAuthenticated)
	e.POST("/admin/login", h.Login)

	g := e.Group("/admin", h.RequireSession)
	g.GET("", h.Dashboard)
	g.POST("/logout", h.Logout)

	g.GET("/orders", h.OrdersPage)
	g.GET("/orders/:id", h.OrderDetailPage)
	g.POST("/orders/:id/status", h.UpdateOrderStatus)
	g.POST("/orders/:id/refund", h.RefundOrder)

	g.GET("/products", h.ProductsPage)
	g.GET("/products/new", h.NewProductPage)
	g.POST("/products", h.CreateProduct)
	g.GET("/products/:id/edit", h.EditProductPage)
	g.POST("/products/:id", h.UpdateProduct)
	g.POST("/products/:id/delete", h.DeleteProduct)

	g.GET("/coupons", h.CouponsPage)
	g.GET("/coupons/new", h.NewCouponPage)
	g.POST("/coupons", h.CreateCoupon)
	g.GET("/coupons/:id/edit", h.EditCouponPage)
	g.POST("/coupons/:id", h.UpdateCoupon)
	g.POST("/coupons/:id/delete", h.DeleteCoupon)

	g.GET("/categories", h.CategoriesPage)
	g.GET("/categories/new", h.NewCategoryPage)
	g.POST("/categories", h.CreateCategory)
	g.GET("/categories/:id/edit", h.EditCategoryPage)
	g.POST("/categories/:id", h.UpdateCategory)
	g.POST("/categories/:id/delete", h.DeleteCategory)

	g.GET("/users", h.UsersPage)
	g.GET("/users/:id", h.UserDetailPage)
	g.POST("/users/:id/status", h.SetUserStatus)

	g.GET("/inventory", h.InventoryPage)
	g.POST("/inventory/:id/adjust", h.AdjustStock)

	g.GET("/notifications", h.NotificationsPage)
	g.POST("/notifications/:id/read", h.MarkNotificationRead)
	g.POST("/notifications/read-all", h.MarkAllNotificationsRead)

	g.GET("/reports", h.ReportsPage)

	g.GET("/settings", h.SettingsPage)
	g.POST("/settings/password", h.ChangePassword)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/admin")
	})
}
