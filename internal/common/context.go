package common

import (
	"context"

	"github.com/google/uuid"

	"staffhub/internal/models"
	"staffhub/internal/tenantdb"
)

type contextKey string

// Keys for the values the admission pipeline attaches to the request
// context. Business handlers consume them through the getters below.
const (
	TenantIDKey       contextKey = "tenant_id"
	TenantConnKey     contextKey = "tenant_conn"
	ClaimsKey         contextKey = "session_claims"
	CallerIDKey       contextKey = "caller_id"
	CallerIdentityKey contextKey = "caller_identity"
)

// GetTenantIDFromContext extracts the tenant slug from the request context.
func GetTenantIDFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(string)
	return tenantID, ok
}

// GetTenantConnFromContext extracts the tenant connection handle.
func GetTenantConnFromContext(ctx context.Context) (tenantdb.Conn, bool) {
	conn, ok := ctx.Value(TenantConnKey).(tenantdb.Conn)
	return conn, ok
}

// GetCallerIDFromContext extracts the resolved caller's primary key.
func GetCallerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(CallerIDKey).(uuid.UUID)
	return id, ok
}

// GetCallerIdentityFromContext extracts the resolved caller identity.
func GetCallerIdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(CallerIdentityKey).(models.Identity)
	return identity, ok
}
