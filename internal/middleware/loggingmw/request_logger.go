package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mdourados/foodcourt/pkg/logging"
)

// RequestLogger attaches a request-scoped logger to the context and writes
// one line per completed request, leveled by outcome.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With(
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
			}

			c.SetRequest(c.Request().WithContext(
				logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}

			status := c.Response().Status
			durMS := time.Since(start).Milliseconds()
			switch {
			case status >= 500:
				l.Error("request completed", "status", status, "duration_ms", durMS, "error", errStr(err))
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", durMS)
			default:
				l.Info("request completed", "status", status, "duration_ms", durMS, "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
