package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"staffhub/internal/models"
	"staffhub/internal/repositories"
	"staffhub/internal/tenantdb"
)

// IdentityService resolves a credential's email + role claims to the
// backing business record through a role-indexed dispatch table. An
// unsupported role is rejected before any lookup runs.
type IdentityService interface {
	Resolve(ctx context.Context, conn tenantdb.Conn, role models.Role, email string) (models.Identity, error)
}

type identityService struct {
	lookups map[models.Role]repositories.IdentityLookup
}

func NewIdentityService(company, employee, manager, admin repositories.IdentityLookup) IdentityService {
	return &identityService{
		lookups: map[models.Role]repositories.IdentityLookup{
			models.RoleCompany:  company,
			models.RoleEmployee: employee,
			models.RoleManager:  manager,
			models.RoleAdmin:    admin,
		},
	}
}

func (s *identityService) Resolve(ctx context.Context, conn tenantdb.Conn, role models.Role, email string) (models.Identity, error) {
	lookup, ok := s.lookups[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	identity, err := lookup.FindByEmail(ctx, conn, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %s", ErrIdentityNotFound, role, email)
		}
		return nil, fmt.Errorf("identity lookup for %s: %w", role, err)
	}
	return identity, nil
}
