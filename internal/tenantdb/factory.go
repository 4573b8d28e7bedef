package tenantdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolFactory opens pgx pools against per-tenant databases. The tenant's
// physical database name is "<prefix>_<lower(slug)>" on the same server as
// the main store.
type PoolFactory struct {
	dsn    string
	prefix string
}

func NewPoolFactory(dsn, prefix string) *PoolFactory {
	return &PoolFactory{dsn: dsn, prefix: prefix}
}

func (f *PoolFactory) Open(ctx context.Context, tenantID string) (Conn, error) {
	cfg, err := pgxpool.ParseConfig(f.dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	cfg.ConnConfig.Database = fmt.Sprintf("%s_%s", f.prefix, strings.ToLower(tenantID))

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open tenant database %s: %w", cfg.ConnConfig.Database, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping tenant database %s: %w", cfg.ConnConfig.Database, err)
	}

	return pool, nil
}
