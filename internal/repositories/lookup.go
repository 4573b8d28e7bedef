package repositories

import (
	"context"

	"staffhub/internal/models"
	"staffhub/internal/tenantdb"
)

// IdentityLookup resolves a credential's email to its backing business
// record within one tenant's store. One implementation exists per role;
// the session authenticator dispatches to exactly one of them.
//
// The connection handle is passed per call rather than held by the
// repository: every request may target a different tenant store.
type IdentityLookup interface {
	FindByEmail(ctx context.Context, conn tenantdb.Conn, email string) (models.Identity, error)
}
