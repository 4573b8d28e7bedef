package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staffhub/internal/common"
)

// RequestLogger emits one structured line per request, tagged with the
// tenant and caller once the admission chain has attached them.
type RequestLogger struct {
	log zerolog.Logger
}

func NewRequestLogger(log zerolog.Logger) *RequestLogger {
	return &RequestLogger{log: log}
}

func (rl *RequestLogger) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}

			event := rl.log.Info()
			if err != nil {
				event = rl.log.Warn().Err(err)
			}

			ctx := req.Context()
			if tenantID, ok := common.GetTenantIDFromContext(ctx); ok {
				event = event.Str("tenant_id", tenantID)
			}
			if callerID, ok := common.GetCallerIDFromContext(ctx); ok {
				event = event.Str("caller_id", callerID.String())
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Msg("request")

			return err
		}
	}
}
