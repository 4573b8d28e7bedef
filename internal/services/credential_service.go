package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"staffhub/internal/models"
)

// Claims is the session credential payload. The same shape is used for
// access and refresh credentials; they differ only in TTL and signing key.
type Claims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// CredentialService is the stateless signing/verification pair for session
// credentials. Access and refresh tokens are signed with distinct secrets,
// so one class can never verify as the other.
type CredentialService interface {
	IssueAccess(email string, role models.Role, tenantID string) (string, error)
	IssueRefresh(email string, role models.Role, tenantID string) (string, error)
	IssuePair(email string, role models.Role, tenantID string) (*models.TokenPair, error)
	VerifyAccess(token string) (*Claims, error)
	VerifyRefresh(token string) (*Claims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type credentialService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCredentialService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) CredentialService {
	return &credentialService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *credentialService) issue(email string, role models.Role, tenantID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:    email,
		Role:     string(role),
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "staffhub-auth",
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

func verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredCredential, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformedCredential
	}
	return claims, nil
}

func (s *credentialService) IssueAccess(email string, role models.Role, tenantID string) (string, error) {
	return s.issue(email, role, tenantID, s.accessSecret, s.accessTTL)
}

func (s *credentialService) IssueRefresh(email string, role models.Role, tenantID string) (string, error) {
	return s.issue(email, role, tenantID, s.refreshSecret, s.refreshTTL)
}

func (s *credentialService) IssuePair(email string, role models.Role, tenantID string) (*models.TokenPair, error) {
	access, err := s.IssueAccess(email, role, tenantID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefresh(email, role, tenantID)
	if err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
		TenantID:     tenantID,
		IssuedAt:     time.Now(),
	}, nil
}

func (s *credentialService) VerifyAccess(token string) (*Claims, error) {
	return verify(token, s.accessSecret)
}

func (s *credentialService) VerifyRefresh(token string) (*Claims, error) {
	return verify(token, s.refreshSecret)
}

func (s *credentialService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *credentialService) RefreshTTL() time.Duration { return s.refreshTTL }
