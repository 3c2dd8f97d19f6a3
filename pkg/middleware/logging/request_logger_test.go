package loggingmw

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcrew/admin-console/pkg/logging"
)

func serve(t *testing.T, level slog.Level, method, path string, h echo.HandlerFunc) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))

	e := echo.New()
	e.Use(RequestLogger(log))
	e.Add(method, path, h)

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, buf.String()
}

func TestRequestLogger_PageView(t *testing.T) {
	t.Parallel()

	_, out := serve(t, slog.LevelInfo, http.MethodGet, "/admin/orders", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	assert.Contains(t, out, `"msg":"request_completed"`)
	assert.Contains(t, out, `"route":"/admin/orders"`)
	assert.Contains(t, out, `"status":200`)
}

func TestRequestLogger_RedirectCarriesLocation(t *testing.T) {
	t.Parallel()

	rec, out := serve(t, slog.LevelInfo, http.MethodPost, "/admin/logout", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/admin/login")
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, out, `"location":"/admin/login"`)
}

func TestRequestLogger_LivenessStaysQuiet(t *testing.T) {
	t.Parallel()

	_, out := serve(t, slog.LevelInfo, http.MethodGet, "/health/live", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	assert.Empty(t, out)
}

func TestRequestLogger_HandlerSeesContextLogger(t *testing.T) {
	t.Parallel()

	var bound *slog.Logger
	_, _ = serve(t, slog.LevelInfo, http.MethodGet, "/admin", func(c echo.Context) error {
		bound = logging.FromContext(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	})

	require.NotNil(t, bound)
	assert.NotEqual(t, slog.Default(), bound)
}
