package repositories

import (
	"context"

	"staffhub/internal/models"
	"staffhub/internal/tenantdb"
)

type managerRepo struct{}

func NewManagerRepo() IdentityLookup {
	return &managerRepo{}
}

func (r *managerRepo) FindByEmail(ctx context.Context, conn tenantdb.Conn, email string) (models.Identity, error) {
	manager := &models.Manager{}
	query := `
		SELECT id, email, password_hash, first_name, last_name, department, status, created_at, updated_at
		FROM managers
		WHERE email = $1
	`
	err := conn.QueryRow(ctx, query, email).Scan(&manager.ID, &manager.Email, &manager.PasswordHash, &manager.FirstName, &manager.LastName, &manager.Department, &manager.Status, &manager.CreatedAt, &manager.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return manager, nil
}
