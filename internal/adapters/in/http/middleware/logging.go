// Package middleware provides echo middleware for the HTTP adapters.
package middleware

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// StreamPathPrefix marks long-lived event stream requests.
const StreamPathPrefix = "/api/push-stream/"

// AccessLogger logs completed HTTP requests. Event streams are skipped since
// they stay open for the whole push.
func AccessLogger(logger *log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, StreamPathPrefix)
		},
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.Round(time.Millisecond),
				"remote_ip", v.RemoteIP,
			}
			if v.RequestID != "" {
				fields = append(fields, "request_id", v.RequestID)
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
				logger.Error("request", fields...)
				return nil
			}
			if v.Status >= 500 {
				logger.Warn("request", fields...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
