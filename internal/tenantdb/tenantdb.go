// Package tenantdb owns the per-tenant connection handles. Each tenant's
// isolated store is reached through a single long-lived handle, created on
// first use by the Registry and shared by all requests for that tenant.
package tenantdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrTenantUnavailable is surfaced when a tenant store cannot be reached.
// Failed construction is never cached; the next request retries.
var ErrTenantUnavailable = errors.New("tenant store unavailable")

// Conn is the tenant connection handle. *pgxpool.Pool satisfies it, and so
// do pgxmock pools in tests.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Factory opens a connection handle to one tenant's store. Open may perform
// network I/O; the Registry guarantees it runs at most once per tenant at a
// time.
type Factory interface {
	Open(ctx context.Context, tenantID string) (Conn, error)
}
