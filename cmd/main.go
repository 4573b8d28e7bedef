package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"staffhub/internal/caching"
	"staffhub/internal/config"
	"staffhub/internal/handlers"
	"staffhub/internal/jobs/background"
	"staffhub/internal/middleware"
	"staffhub/internal/repositories"
	"staffhub/internal/services"
	"staffhub/internal/tenantdb"
	"staffhub/pkg/database"
)

const version = "1.0.0"

// Request paths that stay open while a tenant's subscription is in breach,
// so a lapsed tenant can still pay to reinstate access.
var subscriptionAllowList = []string{
	"/billing/checkout-session",
	"/billing/payment-success",
}

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	// Main store: admin identities and the tenant directory.
	mainPool, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to main database")
	}
	defer mainPool.Close()

	// Tenant connection registry.
	factory := tenantdb.NewPoolFactory(cfg.DatabaseURL, cfg.TenantDBPrefix)
	registry := tenantdb.NewRegistry(factory, cfg.TenantConnectTimeout, log)
	defer registry.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)

	// Services.
	credentialSvc := services.NewCredentialService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	companyRepo := repositories.NewCompanyRepo()
	identitySvc := services.NewIdentityService(
		companyRepo,
		repositories.NewEmployeeRepo(),
		repositories.NewManagerRepo(),
		repositories.NewAdminRepo(mainPool),
	)
	billingSvc := services.NewBillingService(companyRepo, cfg.CheckoutBaseURL, log)

	// Admission pipeline stages.
	tenantResolver := middleware.NewTenantResolver(credentialSvc, registry, log)
	authenticator := middleware.NewSessionAuthenticator(identitySvc, cacheSvc, log)
	subscriptionGate := middleware.NewSubscriptionGate(subscriptionAllowList, log)

	// Handlers.
	authHandlers := handlers.NewAuthHandlers(credentialSvc, identitySvc, registry, cacheSvc, log)
	billingHandlers := handlers.NewBillingHandlers(billingSvc, log)

	// Background registry health sweep.
	scheduler, err := background.NewJobScheduler(registry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn().Err(err).Msg("scheduler shutdown failed")
		}
	}()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.CORS())
	e.Use(middleware.NewRequestLogger(log).Middleware())

	// Health endpoints (no auth required).
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", func(c echo.Context) error {
		return handlers.ReadinessCheck(c, mainPool)
	})

	// Authentication routes (no session required).
	auth := e.Group("/auth")
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	// Every protected request passes the admission chain: tenant
	// resolution, session authentication, subscription gate.
	protected := e.Group("",
		tenantResolver.Middleware(),
		authenticator.Middleware(),
		subscriptionGate.Middleware(),
	)
	protected.POST("/auth/logout", authHandlers.Logout)
	protected.GET("/me", authHandlers.Me)
	protected.POST("/billing/checkout-session", billingHandlers.CreateCheckoutSession)
	protected.POST("/billing/payment-success", billingHandlers.PaymentSuccess)

	log.Info().Str("version", version).Int("port", cfg.Port).Msg("staffhub server starting")
	if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
