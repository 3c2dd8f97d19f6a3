package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/internal/adminapi"
	"github.com/shopcrew/admin-console/internal/view"
)

//go:embed templates
var templateFS embed.FS

// wireTimeLayout is how the backend serializes its local datetimes.
const wireTimeLayout = "2006-01-02T15:04:05"

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("$%.2f", v)
		},
		"datetime": func(s string) string {
			if s == "" {
				return view.Placeholder
			}
			t, err := time.Parse(wireTimeLayout, s)
			if err != nil {
				return s
			}
			return t.Format("Jan 2, 2006 15:04")
		},
		"date": func(s string) string {
			if s == "" {
				return view.Placeholder
			}
			t, err := time.Parse(wireTimeLayout, s)
			if err != nil {
				return s
			}
			return t.Format("Jan 2, 2006")
		},
		"statusBadge":  view.OrderStatusBadge,
		"payBadge":     view.PaymentStatusBadge,
		"stockBadge":   view.StockBadge,
		"activeBadge":  view.ActiveBadge,
		"statusLabel":  view.StatusLabel,
		"orderStatuses": func() []adminapi.OrderStatus {
			return adminapi.OrderStatuses
		},
	}
}

// Renderer parses every page template against the shared layout once at
// startup and satisfies echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := templateFuncs()

	entries, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, page := range entries {
		name := filepath.Base(page)
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}
