package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staffhub/internal/common"
	"staffhub/internal/models"
)

// SubscriptionGate is the third admission stage. A company whose paid
// window has elapsed is blocked everywhere except the allow-listed billing
// paths, so a lapsed tenant can still pay to reinstate access. Pure
// predicate over already-resolved data; no I/O.
type SubscriptionGate struct {
	allowed map[string]struct{}
	log     zerolog.Logger
}

func NewSubscriptionGate(allowedPaths []string, log zerolog.Logger) *SubscriptionGate {
	allowed := make(map[string]struct{}, len(allowedPaths))
	for _, p := range allowedPaths {
		allowed[p] = struct{}{}
	}
	return &SubscriptionGate{allowed: allowed, log: log}
}

func (m *SubscriptionGate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := common.GetCallerIdentityFromContext(c.Request().Context())
			if !ok {
				return next(c)
			}

			company, ok := identity.(*models.Company)
			if !ok {
				// Only company identities carry a subscription window.
				return next(c)
			}

			if company.SubscriptionExpired(time.Now()) {
				if _, allowed := m.allowed[c.Request().URL.Path]; !allowed {
					m.log.Debug().Str("company", company.ID.String()).Str("path", c.Request().URL.Path).Msg("blocked on expired subscription")
					return echo.NewHTTPError(http.StatusForbidden, "SUBSCRIPTION_EXPIRED")
				}
			}

			return next(c)
		}
	}
}
