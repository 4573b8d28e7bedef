package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"staffhub/internal/models"
	"staffhub/internal/tenantdb"
)

// CompanyRepository looks up company identities and maintains their
// subscription window. The company row lives in the tenant's own store.
type CompanyRepository interface {
	IdentityLookup
	GetByEmail(ctx context.Context, conn tenantdb.Conn, email string) (*models.Company, error)
	UpdateSubscription(ctx context.Context, conn tenantdb.Conn, id uuid.UUID, status string, start, end time.Time) error
}

type companyRepo struct{}

func NewCompanyRepo() CompanyRepository {
	return &companyRepo{}
}

func (r *companyRepo) GetByEmail(ctx context.Context, conn tenantdb.Conn, email string) (*models.Company, error) {
	company := &models.Company{}
	query := `
		SELECT id, name, slug, email, password_hash, subscription_status, subscription_start, subscription_end, created_at, updated_at
		FROM companies
		WHERE email = $1
	`
	err := conn.QueryRow(ctx, query, email).Scan(&company.ID, &company.Name, &company.Slug, &company.Email, &company.PasswordHash, &company.SubscriptionStatus, &company.SubscriptionStart, &company.SubscriptionEnd, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) FindByEmail(ctx context.Context, conn tenantdb.Conn, email string) (models.Identity, error) {
	return r.GetByEmail(ctx, conn, email)
}

func (r *companyRepo) UpdateSubscription(ctx context.Context, conn tenantdb.Conn, id uuid.UUID, status string, start, end time.Time) error {
	query := `
		UPDATE companies
		SET subscription_status = $1, subscription_start = $2, subscription_end = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := conn.Exec(ctx, query, status, start, end, id)
	return err
}
