package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"staffhub/internal/caching"
	"staffhub/internal/common"
	"staffhub/internal/middleware"
	"staffhub/internal/models"
	"staffhub/internal/services"
	"staffhub/internal/tenantdb"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

// AuthHandlers handles login, refresh and logout.
type AuthHandlers struct {
	creds      services.CredentialService
	identities services.IdentityService
	registry   *tenantdb.Registry
	cache      caching.CacheService
	log        zerolog.Logger
}

func NewAuthHandlers(creds services.CredentialService, identities services.IdentityService, registry *tenantdb.Registry, cache caching.CacheService, log zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{
		creds:      creds,
		identities: identities,
		registry:   registry,
		cache:      cache,
		log:        log,
	}
}

// LoginRequest binds a tenant's display name (or slug) together with the
// caller's credentials and claimed role.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
	Company  string `json:"company" validate:"required"`
}

// LoginResponse carries the token pair and the resolved identity.
type LoginResponse struct {
	models.TokenPair
	Identity models.Identity `json:"identity"`
}

type passwordCarrier interface {
	IdentityPasswordHash() string
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" || req.Role == "" || req.Company == "" {
		return common.SendClientError(c, "Email, password, role and company are required")
	}

	if h.cache != nil {
		limited, err := h.cache.IsRateLimited(ctx, "login:"+req.Email, loginAttemptLimit)
		if err != nil {
			h.log.Warn().Err(err).Msg("login rate limit check failed")
		} else if limited {
			return common.SendError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many login attempts")
		}
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		return common.SendError(c, http.StatusForbidden, "INVALID_ROLE", "Unsupported role")
	}

	tenantID := tenantdb.Slug(req.Company)
	if tenantID == "" {
		return common.SendClientError(c, "Invalid company name")
	}

	conn, err := h.registry.Resolve(ctx, tenantID)
	if err != nil {
		h.log.Error().Err(err).Str("tenant", tenantID).Msg("login tenant resolution failed")
		return common.SendError(c, http.StatusInternalServerError, "TENANT_UNAVAILABLE", "Tenant store unavailable")
	}

	identity, err := h.identities.Resolve(ctx, conn, role, req.Email)
	if err != nil {
		h.recordFailedAttempt(c, req.Email)
		return common.SendError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	}

	carrier, ok := identity.(passwordCarrier)
	if !ok {
		return common.SendServerError(c, "Account not properly initialized")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(carrier.IdentityPasswordHash()), []byte(req.Password)); err != nil {
		h.recordFailedAttempt(c, req.Email)
		return common.SendError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	}

	pair, err := h.creds.IssuePair(req.Email, role, tenantID)
	if err != nil {
		return common.SendServerError(c, "Failed to issue credentials")
	}

	h.setSessionCookies(c, pair)

	return c.JSON(http.StatusOK, LoginResponse{TokenPair: *pair, Identity: identity})
}

// Refresh handles POST /auth/refresh: re-issues an access credential from a
// valid refresh credential without resolving the identity.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	refresh := ""
	if cookie, err := c.Cookie(middleware.RefreshTokenCookie); err == nil {
		refresh = cookie.Value
	}
	if refresh == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.Bind(&body); err == nil {
			refresh = body.RefreshToken
		}
	}
	if refresh == "" {
		return common.SendError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Missing refresh token")
	}

	claims, err := h.creds.VerifyRefresh(refresh)
	if err != nil {
		return common.SendError(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Refresh token invalid or expired")
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return common.SendError(c, http.StatusForbidden, "INVALID_ROLE", "Unsupported role")
	}

	access, err := h.creds.IssueAccess(claims.Email, role, claims.TenantID)
	if err != nil {
		return common.SendServerError(c, "Failed to issue credentials")
	}

	c.SetCookie(sessionCookie(middleware.AccessTokenCookie, access, h.creds.AccessTTL()))

	return c.JSON(http.StatusOK, models.TokenPair{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.creds.AccessTTL().Seconds()),
		TenantID:    claims.TenantID,
		IssuedAt:    time.Now(),
	})
}

// Logout handles POST /auth/logout on the protected chain: blacklists the
// current access credential and clears both session cookies.
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if claims, ok := ctx.Value(common.ClaimsKey).(*services.Claims); ok && h.cache != nil && claims.ExpiresAt != nil {
		if err := h.cache.RevokeToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			h.log.Warn().Err(err).Msg("failed to blacklist token on logout")
		}
	}

	c.SetCookie(expiredCookie(middleware.AccessTokenCookie))
	c.SetCookie(expiredCookie(middleware.RefreshTokenCookie))

	return c.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me handles GET /me: echoes the identity the pipeline resolved.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := common.GetCallerIdentityFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "No caller identity")
	}
	callerID, _ := common.GetCallerIDFromContext(ctx)
	tenantID, _ := common.GetTenantIDFromContext(ctx)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"caller_id": callerID,
		"tenant_id": tenantID,
		"role":      identity.IdentityRole(),
		"identity":  identity,
	})
}

func (h *AuthHandlers) recordFailedAttempt(c echo.Context, email string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.IncrementRateLimit(c.Request().Context(), "login:"+email, loginAttemptWindow); err != nil {
		h.log.Warn().Err(err).Msg("failed to record login attempt")
	}
}

func (h *AuthHandlers) setSessionCookies(c echo.Context, pair *models.TokenPair) {
	c.SetCookie(sessionCookie(middleware.AccessTokenCookie, pair.AccessToken, h.creds.AccessTTL()))
	c.SetCookie(sessionCookie(middleware.RefreshTokenCookie, pair.RefreshToken, h.creds.RefreshTTL()))
}

func sessionCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
