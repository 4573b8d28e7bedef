package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"staffhub/internal/common"
	"staffhub/internal/models"
	"staffhub/internal/services"
	"staffhub/internal/tenantdb"
)

type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Resolve(ctx context.Context, conn tenantdb.Conn, role models.Role, email string) (models.Identity, error) {
	args := m.Called(ctx, conn, role, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Identity), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int) (bool, error) {
	args := m.Called(ctx, key, limit)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	args := m.Called(ctx, key, window)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type SessionAuthenticatorTestSuite struct {
	suite.Suite
	identities *MockIdentityService
	echo       *echo.Echo
	conn       *stubConn
}

func (suite *SessionAuthenticatorTestSuite) SetupTest() {
	suite.identities = &MockIdentityService{}
	suite.echo = echo.New()
	suite.conn = &stubConn{id: "ACME"}
}

func (suite *SessionAuthenticatorTestSuite) TearDownTest() {
	suite.identities.AssertExpectations(suite.T())
}

func TestSessionAuthenticatorTestSuite(t *testing.T) {
	suite.Run(t, new(SessionAuthenticatorTestSuite))
}

func testClaims(email, role string) *services.Claims {
	return &services.Claims{
		Email:    email,
		Role:     role,
		TenantID: "ACME",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}
}

// run dispatches a request whose context already carries the resolver's
// output, the way the chain composes in production.
func (suite *SessionAuthenticatorTestSuite) run(authenticator *SessionAuthenticator, claims *services.Claims) (*httptest.ResponseRecorder, context.Context) {
	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	ctx := req.Context()
	if claims != nil {
		ctx = context.WithValue(ctx, common.TenantIDKey, claims.TenantID)
		ctx = context.WithValue(ctx, common.TenantConnKey, tenantdb.Conn(suite.conn))
		ctx = context.WithValue(ctx, common.ClaimsKey, claims)
	}
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	c := suite.echo.NewContext(req, rec)

	var captured context.Context
	handler := authenticator.Middleware()(func(c echo.Context) error {
		captured = c.Request().Context()
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		suite.echo.HTTPErrorHandler(err, c)
	}
	return rec, captured
}

func (suite *SessionAuthenticatorTestSuite) TestMissingClaims() {
	authenticator := NewSessionAuthenticator(suite.identities, nil, zerolog.Nop())

	rec, _ := suite.run(authenticator, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

// Each supported role admits through its lookup; the resolved identity and
// its primary key land on the request context.
func (suite *SessionAuthenticatorTestSuite) TestRoleDispatch() {
	authenticator := NewSessionAuthenticator(suite.identities, nil, zerolog.Nop())

	identities := map[models.Role]models.Identity{
		models.RoleCompany:  &models.Company{ID: uuid.New(), Email: "c@acme.com"},
		models.RoleEmployee: &models.Employee{ID: uuid.New(), Email: "e@acme.com"},
		models.RoleManager:  &models.Manager{ID: uuid.New(), Email: "m@acme.com"},
		models.RoleAdmin:    &models.Admin{ID: uuid.New(), Email: "a@staffhub.io"},
	}

	for role, want := range identities {
		claims := testClaims(want.IdentityEmail(), string(role))
		suite.identities.On("Resolve", mock.Anything, tenantdb.Conn(suite.conn), role, want.IdentityEmail()).Return(want, nil).Once()

		rec, ctx := suite.run(authenticator, claims)
		require.Equal(suite.T(), http.StatusOK, rec.Code)

		callerID, ok := common.GetCallerIDFromContext(ctx)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), want.IdentityID(), callerID)

		identity, ok := common.GetCallerIdentityFromContext(ctx)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), want, identity)
	}
}

// An unrecognized role claim is rejected with 403 before any lookup.
func (suite *SessionAuthenticatorTestSuite) TestInvalidRole() {
	authenticator := NewSessionAuthenticator(suite.identities, nil, zerolog.Nop())

	rec, _ := suite.run(authenticator, testClaims("a@acme.com", "SUPERUSER"))
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
	suite.identities.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionAuthenticatorTestSuite) TestIdentityNotFound() {
	authenticator := NewSessionAuthenticator(suite.identities, nil, zerolog.Nop())

	claims := testClaims("gone@acme.com", string(models.RoleEmployee))
	suite.identities.On("Resolve", mock.Anything, tenantdb.Conn(suite.conn), models.RoleEmployee, "gone@acme.com").Return(nil, services.ErrIdentityNotFound).Once()

	rec, _ := suite.run(authenticator, claims)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *SessionAuthenticatorTestSuite) TestRevokedToken() {
	cache := &MockCacheService{}
	authenticator := NewSessionAuthenticator(suite.identities, cache, zerolog.Nop())

	claims := testClaims("a@acme.com", string(models.RoleCompany))
	cache.On("IsTokenRevoked", mock.Anything, claims.ID).Return(true, nil).Once()

	rec, _ := suite.run(authenticator, claims)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	suite.identities.AssertNotCalled(suite.T(), "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cache.AssertExpectations(suite.T())
}

// Blacklist outage must not lock callers out.
func (suite *SessionAuthenticatorTestSuite) TestRevocationCheckFailureAdmits() {
	cache := &MockCacheService{}
	authenticator := NewSessionAuthenticator(suite.identities, cache, zerolog.Nop())

	want := &models.Company{ID: uuid.New(), Email: "c@acme.com"}
	claims := testClaims(want.Email, string(models.RoleCompany))
	cache.On("IsTokenRevoked", mock.Anything, claims.ID).Return(false, assert.AnError).Once()
	suite.identities.On("Resolve", mock.Anything, tenantdb.Conn(suite.conn), models.RoleCompany, want.Email).Return(want, nil).Once()

	rec, _ := suite.run(authenticator, claims)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	cache.AssertExpectations(suite.T())
}
