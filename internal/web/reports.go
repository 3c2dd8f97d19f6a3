package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/view"
	"github.com/shopcrew/admin-console/pkg/logging"
)

const dateLayout = "2006-01-02"

// reportRange defaults to the trailing 30 days when the query omits or
// mangles the bounds.
func reportRange(c echo.Context) (string, string) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if raw := c.QueryParam("start"); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			start = t
		}
	}
	if raw := c.QueryParam("end"); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			end = t
		}
	}
	if start.After(end) {
		start, end = end, start
	}
	return start.Format(dateLayout), end.Format(dateLayout)
}

func (h *Handlers) ReportsPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reports.sales")

	start, end := reportRange(c)

	data := map[string]any{
		"Start":   start,
		"End":     end,
		"LoadErr": "",
	}

	report, err := h.api.SalesReport(ctx, start, end)
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		l.Warn("sales_report_failed", "start", start, "end", end, "error", err)
		data["LoadErr"] = err.Error()
		report = &adminapi.SalesReport{}
	}
	data["Report"] = report
	data["SalesTable"] = view.RenderTable(report.Points, []view.Column[adminapi.SalesPoint]{
		{Key: "date", Header: "Date"},
		{Header: "Revenue", Render: func(p adminapi.SalesPoint) template.HTML { return money(p.Revenue) }},
		{Key: "orders", Header: "Orders"},
	})

	top, err := h.api.TopProducts(ctx, 10)
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		l.Warn("top_products_failed", "error", err)
	}
	data["TopProductsTable"] = view.RenderTable(top, []view.Column[adminapi.TopProduct]{
		{Key: "productName", Header: "Product"},
		{Key: "unitsSold", Header: "Units Sold"},
		{Header: "Revenue", Render: func(p adminapi.TopProduct) template.HTML { return money(p.Revenue) }},
	})

	logs, err := h.api.ActivityLogs(ctx, 0, 20)
	if err != nil {
		if sessionLost(err) {
			return loginRedirect(c)
		}
		l.Warn("activity_logs_failed", "error", err)
		logs = &adminapi.Page[adminapi.ActivityLog]{}
	}
	data["ActivityTable"] = view.RenderTable(logs.Content, []view.Column[adminapi.ActivityLog]{
		{Key: "adminName", Header: "Admin"},
		{Key: "action", Header: "Action"},
		{Key: "entity", Header: "Entity"},
		{Key: "detail", Header: "Detail"},
		{Key: "createdAt", Header: "When"},
	})

	return h.render(c, http.StatusOK, "reports.html", "Reports", data)
}
