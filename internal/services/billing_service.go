package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"staffhub/internal/models"
	"staffhub/internal/repositories"
	"staffhub/internal/tenantdb"
)

// CheckoutSession is the reference handed to a lapsed tenant so it can pay
// to reinstate access. The payment provider itself is an external
// collaborator; only the session reference is produced here.
type CheckoutSession struct {
	SessionID string    `json:"session_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BillingService handles the two request paths that stay open while a
// tenant's subscription is in breach.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, company *models.Company) (*CheckoutSession, error)
	ActivateSubscription(ctx context.Context, conn tenantdb.Conn, companyID uuid.UUID) error
}

type billingService struct {
	companyRepo     repositories.CompanyRepository
	checkoutBaseURL string
	log             zerolog.Logger
}

func NewBillingService(companyRepo repositories.CompanyRepository, checkoutBaseURL string, log zerolog.Logger) BillingService {
	return &billingService{
		companyRepo:     companyRepo,
		checkoutBaseURL: checkoutBaseURL,
		log:             log,
	}
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, company *models.Company) (*CheckoutSession, error) {
	sessionID := uuid.NewString()
	return &CheckoutSession{
		SessionID: sessionID,
		URL:       fmt.Sprintf("%s/%s?company=%s", s.checkoutBaseURL, sessionID, company.ID),
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}, nil
}

// ActivateSubscription extends the company's paid window by one month from
// now. Called from the payment-success callback.
func (s *billingService) ActivateSubscription(ctx context.Context, conn tenantdb.Conn, companyID uuid.UUID) error {
	now := time.Now()
	end := now.AddDate(0, 1, 0)

	if err := s.companyRepo.UpdateSubscription(ctx, conn, companyID, "active", now, end); err != nil {
		return fmt.Errorf("update subscription window: %w", err)
	}

	s.log.Info().Str("company", companyID.String()).Time("until", end).Msg("subscription reinstated")
	return nil
}
