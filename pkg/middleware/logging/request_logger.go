// Package loggingmw binds a request-scoped slog.Logger into the context so
// page handlers can pull it back out with logging.FromContext.
package loggingmw

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopcrew/admin-console/pkg/logging"
)

// RequestLogger logs one event per request. A server-rendered console
// navigates by redirects, so 3xx responses carry their Location target;
// the liveness endpoint logs at Debug to keep the feed readable.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)

			l := base.With(
				"method", c.Request().Method,
				"route", c.Path(),
				"path", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)
			status := c.Response().Status

			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
				status = c.Response().Status
			}

			attrs := []any{"status", status, "duration_ms", elapsed.Milliseconds()}
			if loc := c.Response().Header().Get(echo.HeaderLocation); loc != "" {
				attrs = append(attrs, "location", loc)
			}

			switch {
			case err != nil || status >= 500:
				l.Error("request_failed", append(attrs, "error", errStr(err))...)
			case status >= 400:
				l.Warn("request_rejected", attrs...)
			case c.Request().URL.Path == "/health/live":
				l.Debug("request_completed", attrs...)
			default:
				l.Info("request_completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
