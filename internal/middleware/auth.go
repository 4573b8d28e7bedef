package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staffhub/internal/caching"
	"staffhub/internal/common"
	"staffhub/internal/models"
	"staffhub/internal/services"
)

// SessionAuthenticator is the second admission stage. It reuses the claims
// the tenant resolver already verified, checks the revocation blacklist,
// and dispatches to the role's identity lookup. On success the resolved
// identity and its primary key are attached to the request context.
type SessionAuthenticator struct {
	identities services.IdentityService
	cache      caching.CacheService
	log        zerolog.Logger
}

// NewSessionAuthenticator creates the authenticator stage. cache may be nil
// when no redis is configured; revocation checks are then skipped.
func NewSessionAuthenticator(identities services.IdentityService, cache caching.CacheService, log zerolog.Logger) *SessionAuthenticator {
	return &SessionAuthenticator{identities: identities, cache: cache, log: log}
}

func (m *SessionAuthenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			claims, ok := ctx.Value(common.ClaimsKey).(*services.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "UNAUTHENTICATED")
			}
			conn, ok := common.GetTenantConnFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "UNAUTHENTICATED")
			}

			if m.cache != nil {
				revoked, err := m.cache.IsTokenRevoked(ctx, claims.ID)
				if err != nil {
					// Blacklist unavailable: admit rather than lock every
					// caller out of the system.
					m.log.Warn().Err(err).Msg("revocation check failed")
				} else if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "SESSION_EXPIRED")
				}
			}

			role, ok := models.ParseRole(claims.Role)
			if !ok {
				m.log.Warn().Str("role", claims.Role).Str("email", claims.Email).Msg("unsupported role claim")
				return echo.NewHTTPError(http.StatusForbidden, "INVALID_ROLE")
			}

			identity, err := m.identities.Resolve(ctx, conn, role, claims.Email)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrInvalidRole):
					return echo.NewHTTPError(http.StatusForbidden, "INVALID_ROLE")
				case errors.Is(err, services.ErrIdentityNotFound):
					return echo.NewHTTPError(http.StatusUnauthorized, "IDENTITY_NOT_FOUND")
				default:
					m.log.Error().Err(err).Str("email", claims.Email).Msg("identity resolution failed")
					return echo.NewHTTPError(http.StatusInternalServerError, "SERVER_ERROR")
				}
			}

			ctx = context.WithValue(ctx, common.CallerIDKey, identity.IdentityID())
			ctx = context.WithValue(ctx, common.CallerIdentityKey, identity)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
