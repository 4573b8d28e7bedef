package tenantdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type entry struct {
	once sync.Once
	conn Conn
	err  error
}

// Registry is the process-wide tenant → connection cache. Resolve is a
// get-or-create: at most one handle per tenant identifier exists, and all
// concurrent callers for an unseen tenant receive the same handle after a
// single construction attempt. The map mutex is held only across the
// check-and-insert; the factory's network I/O runs under the entry's
// sync.Once, so a slow first connection for one tenant never serializes
// other tenants.
type Registry struct {
	factory Factory
	timeout time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	tenants map[string]*entry
}

func NewRegistry(factory Factory, timeout time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		factory: factory,
		timeout: timeout,
		log:     log,
		tenants: make(map[string]*entry),
	}
}

// Resolve returns the cached handle for tenantID, constructing it first if
// the tenant has not been seen. Construction is bounded by the registry
// timeout; on failure the entry is dropped so the next request retries.
func (r *Registry) Resolve(ctx context.Context, tenantID string) (Conn, error) {
	r.mu.Lock()
	e, ok := r.tenants[tenantID]
	if !ok {
		e = &entry{}
		r.tenants[tenantID] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		openCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		start := time.Now()
		e.conn, e.err = r.factory.Open(openCtx, tenantID)
		if e.err != nil {
			// Never cache a failed attempt.
			r.mu.Lock()
			delete(r.tenants, tenantID)
			r.mu.Unlock()
			r.log.Warn().Err(e.err).Str("tenant", tenantID).Msg("tenant store connection failed")
			return
		}
		r.log.Info().Str("tenant", tenantID).Dur("took", time.Since(start)).Msg("tenant store connected")
	})

	if e.err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTenantUnavailable, tenantID, e.err)
	}
	return e.conn, nil
}

// Evict drops and closes the cached handle for tenantID. The next Resolve
// reconstructs it through the normal get-or-create path.
func (r *Registry) Evict(tenantID string) {
	r.mu.Lock()
	e, ok := r.tenants[tenantID]
	if ok {
		delete(r.tenants, tenantID)
	}
	r.mu.Unlock()

	if ok && e.conn != nil {
		e.conn.Close()
		r.log.Info().Str("tenant", tenantID).Msg("tenant store handle evicted")
	}
}

// Snapshot returns the currently cached handles. Used by the health sweep.
func (r *Registry) Snapshot() map[string]Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Conn, len(r.tenants))
	for id, e := range r.tenants {
		if e.conn != nil {
			out[id] = e.conn
		}
	}
	return out
}

// Close closes every cached handle. Only called on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	tenants := r.tenants
	r.tenants = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range tenants {
		if e.conn != nil {
			e.conn.Close()
		}
	}
}
