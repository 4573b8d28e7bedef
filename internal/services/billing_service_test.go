package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"staffhub/internal/models"
	"staffhub/internal/tenantdb"
)

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByEmail(ctx context.Context, conn tenantdb.Conn, email string) (models.Identity, error) {
	args := m.Called(ctx, conn, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Identity), args.Error(1)
}

func (m *MockCompanyRepository) GetByEmail(ctx context.Context, conn tenantdb.Conn, email string) (*models.Company, error) {
	args := m.Called(ctx, conn, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) UpdateSubscription(ctx context.Context, conn tenantdb.Conn, id uuid.UUID, status string, start, end time.Time) error {
	args := m.Called(ctx, conn, id, status, start, end)
	return args.Error(0)
}

func TestBillingService_CreateCheckoutSession(t *testing.T) {
	repo := &MockCompanyRepository{}
	svc := NewBillingService(repo, "https://pay.example.com/checkout", zerolog.Nop())

	company := &models.Company{ID: uuid.New(), Email: "c@acme.com"}
	session, err := svc.CreateCheckoutSession(context.Background(), company)
	require.NoError(t, err)

	assert.NotEmpty(t, session.SessionID)
	assert.True(t, strings.HasPrefix(session.URL, "https://pay.example.com/checkout/"))
	assert.Contains(t, session.URL, company.ID.String())
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

// A successful payment must push the paid window one month out from now.
func TestBillingService_ActivateSubscription(t *testing.T) {
	repo := &MockCompanyRepository{}
	svc := NewBillingService(repo, "https://pay.example.com/checkout", zerolog.Nop())

	companyID := uuid.New()
	repo.On("UpdateSubscription", mock.Anything, nil, companyID, "active",
		mock.MatchedBy(func(start time.Time) bool {
			return time.Since(start) < time.Minute
		}),
		mock.MatchedBy(func(end time.Time) bool {
			want := time.Now().AddDate(0, 1, 0)
			return end.Sub(want) < time.Minute && want.Sub(end) < time.Minute
		}),
	).Return(nil).Once()

	err := svc.ActivateSubscription(context.Background(), nil, companyID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestBillingService_ActivateSubscription_RepoFailure(t *testing.T) {
	repo := &MockCompanyRepository{}
	svc := NewBillingService(repo, "https://pay.example.com/checkout", zerolog.Nop())

	companyID := uuid.New()
	repo.On("UpdateSubscription", mock.Anything, nil, companyID, "active", mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	err := svc.ActivateSubscription(context.Background(), nil, companyID)
	assert.Error(t, err)
}
