package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"staffhub/internal/common"
	"staffhub/internal/models"
	"staffhub/internal/services"
)

// BillingHandlers serves the two allow-listed paths that stay reachable
// while a tenant's subscription is in breach.
type BillingHandlers struct {
	billing services.BillingService
	log     zerolog.Logger
}

func NewBillingHandlers(billing services.BillingService, log zerolog.Logger) *BillingHandlers {
	return &BillingHandlers{billing: billing, log: log}
}

// CreateCheckoutSession handles POST /billing/checkout-session.
func (h *BillingHandlers) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()

	company, err := callerCompany(c)
	if err != nil {
		return err
	}

	session, err := h.billing.CreateCheckoutSession(ctx, company)
	if err != nil {
		h.log.Error().Err(err).Str("company", company.ID.String()).Msg("checkout session creation failed")
		return common.SendServerError(c, "Failed to create checkout session")
	}

	return c.JSON(http.StatusCreated, session)
}

// PaymentSuccess handles POST /billing/payment-success: the payment
// provider's success callback reinstates the subscription window.
func (h *BillingHandlers) PaymentSuccess(c echo.Context) error {
	ctx := c.Request().Context()

	company, err := callerCompany(c)
	if err != nil {
		return err
	}

	conn, ok := common.GetTenantConnFromContext(ctx)
	if !ok {
		return common.SendError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "No tenant connection")
	}

	if err := h.billing.ActivateSubscription(ctx, conn, company.ID); err != nil {
		h.log.Error().Err(err).Str("company", company.ID.String()).Msg("subscription activation failed")
		return common.SendServerError(c, "Failed to activate subscription")
	}

	return c.JSON(http.StatusOK, map[string]string{"subscription_status": "active"})
}

func callerCompany(c echo.Context) (*models.Company, error) {
	identity, ok := common.GetCallerIdentityFromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "UNAUTHENTICATED")
	}
	company, ok := identity.(*models.Company)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusForbidden, "INVALID_ROLE")
	}
	return company, nil
}
