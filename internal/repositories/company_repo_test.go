package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"staffhub/internal/models"
)

type CompanyRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    CompanyRepository
	context context.Context
}

func (suite *CompanyRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewCompanyRepo()
	suite.context = context.Background()
}

func (suite *CompanyRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestCompanyRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyRepoTestSuite))
}

func (suite *CompanyRepoTestSuite) TestGetByEmail_Success() {
	id := uuid.New()
	now := time.Now()
	end := now.AddDate(0, 1, 0)

	rows := pgxmock.NewRows([]string{"id", "name", "slug", "email", "password_hash", "subscription_status", "subscription_start", "subscription_end", "created_at", "updated_at"}).
		AddRow(id, "Acme Corp", "ACME", "a@acme.com", "hashed", "active", now, &end, now, now)

	suite.mock.ExpectQuery(`SELECT id, name, slug, email, password_hash, subscription_status, subscription_start, subscription_end, created_at, updated_at\s+FROM companies\s+WHERE email = \$1`).
		WithArgs("a@acme.com").
		WillReturnRows(rows)

	company, err := suite.repo.GetByEmail(suite.context, suite.mock, "a@acme.com")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, company.ID)
	assert.Equal(suite.T(), "ACME", company.Slug)
	assert.Equal(suite.T(), "active", company.SubscriptionStatus)
	require.NotNil(suite.T(), company.SubscriptionEnd)
	assert.WithinDuration(suite.T(), end, *company.SubscriptionEnd, time.Second)
}

func (suite *CompanyRepoTestSuite) TestGetByEmail_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, name, slug, email, password_hash, subscription_status, subscription_start, subscription_end, created_at, updated_at\s+FROM companies\s+WHERE email = \$1`).
		WithArgs("gone@acme.com").
		WillReturnError(pgx.ErrNoRows)

	company, err := suite.repo.GetByEmail(suite.context, suite.mock, "gone@acme.com")
	assert.Nil(suite.T(), company)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

// FindByEmail is the IdentityLookup entry point; it must return the same
// record as GetByEmail, typed as an Identity.
func (suite *CompanyRepoTestSuite) TestFindByEmail_ReturnsIdentity() {
	id := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "name", "slug", "email", "password_hash", "subscription_status", "subscription_start", "subscription_end", "created_at", "updated_at"}).
		AddRow(id, "Acme Corp", "ACME", "a@acme.com", "hashed", "active", now, nil, now, now)

	suite.mock.ExpectQuery(`SELECT .+ FROM companies`).
		WithArgs("a@acme.com").
		WillReturnRows(rows)

	identity, err := suite.repo.FindByEmail(suite.context, suite.mock, "a@acme.com")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, identity.IdentityID())
	assert.Equal(suite.T(), models.RoleCompany, identity.IdentityRole())
}

func (suite *CompanyRepoTestSuite) TestUpdateSubscription() {
	id := uuid.New()
	start := time.Now()
	end := start.AddDate(0, 1, 0)

	suite.mock.ExpectExec(`UPDATE companies\s+SET subscription_status = \$1, subscription_start = \$2, subscription_end = \$3, updated_at = NOW\(\)\s+WHERE id = \$4`).
		WithArgs("active", start, end, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateSubscription(suite.context, suite.mock, id, "active", start, end)
	assert.NoError(suite.T(), err)
}
