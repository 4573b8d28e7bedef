package repositories

import (
	"context"

	"staffhub/internal/models"
	"staffhub/internal/tenantdb"
)

// adminRepo looks up admin identities in the shared main store. Admins are
// deliberately not tenant-scoped: the per-request tenant connection is
// ignored and the main pool used instead.
type adminRepo struct {
	db tenantdb.Conn
}

func NewAdminRepo(db tenantdb.Conn) IdentityLookup {
	return &adminRepo{db: db}
}

func (r *adminRepo) FindByEmail(ctx context.Context, _ tenantdb.Conn, email string) (models.Identity, error) {
	admin := &models.Admin{}
	query := `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM admins
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Name, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return admin, nil
}
