package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staffhub/internal/common"
	"staffhub/internal/models"
	"staffhub/internal/services"
	"staffhub/internal/tenantdb"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	// RotatedTokenHeader carries the replacement access token to
	// non-browser clients when transparent rotation happens.
	RotatedTokenHeader = "X-Access-Token"
	refreshTokenHeader = "X-Refresh-Token"
)

// TenantResolver is the first admission stage. It establishes which tenant
// the request belongs to from the session credential (rotating an expired
// access credential from the refresh credential when possible), obtains the
// tenant's connection handle from the registry and attaches both to the
// request context.
type TenantResolver struct {
	creds    services.CredentialService
	registry *tenantdb.Registry
	log      zerolog.Logger
}

func NewTenantResolver(creds services.CredentialService, registry *tenantdb.Registry, log zerolog.Logger) *TenantResolver {
	return &TenantResolver{creds: creds, registry: registry, log: log}
}

func (m *TenantResolver) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			access := accessTokenFromRequest(c)
			refresh := refreshTokenFromRequest(c)

			if access == "" && refresh == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "UNAUTHENTICATED")
			}

			var claims *services.Claims
			if access != "" {
				verified, err := m.creds.VerifyAccess(access)
				if err == nil {
					claims = verified
				}
			}

			// Access absent or invalid: fall back to the refresh
			// credential and rotate. The new access token is committed
			// to the response only on this success path.
			if claims == nil && refresh != "" {
				verified, err := m.creds.VerifyRefresh(refresh)
				if err == nil {
					role, ok := models.ParseRole(verified.Role)
					if ok {
						rotated, issueErr := m.creds.IssueAccess(verified.Email, role, verified.TenantID)
						if issueErr != nil {
							return echo.NewHTTPError(http.StatusInternalServerError, "SERVER_ERROR")
						}
						setAccessToken(c, rotated, m.creds.AccessTTL())
						claims = verified
						m.log.Debug().Str("tenant", verified.TenantID).Str("email", verified.Email).Msg("access credential rotated")
					}
				}
			}

			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "SESSION_EXPIRED")
			}

			ctx := c.Request().Context()

			// Skip re-resolution when an earlier stage already attached a
			// handle for this same tenant.
			if cachedID, ok := common.GetTenantIDFromContext(ctx); ok && cachedID == claims.TenantID {
				if _, ok := common.GetTenantConnFromContext(ctx); ok {
					ctx = context.WithValue(ctx, common.ClaimsKey, claims)
					c.SetRequest(c.Request().WithContext(ctx))
					return next(c)
				}
			}

			conn, err := m.registry.Resolve(ctx, claims.TenantID)
			if err != nil {
				m.log.Error().Err(err).Str("tenant", claims.TenantID).Str("path", c.Request().URL.Path).Msg("tenant resolution failed")
				return echo.NewHTTPError(http.StatusInternalServerError, "TENANT_UNAVAILABLE")
			}

			ctx = context.WithValue(ctx, common.TenantIDKey, claims.TenantID)
			ctx = context.WithValue(ctx, common.TenantConnKey, conn)
			ctx = context.WithValue(ctx, common.ClaimsKey, claims)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func accessTokenFromRequest(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != authHeader {
			return token
		}
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

func refreshTokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return c.Request().Header.Get(refreshTokenHeader)
}

func setAccessToken(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Response().Header().Set(RotatedTokenHeader, token)
}
