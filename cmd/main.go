package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"laine/internal/config"
	"laine/internal/handlers"
	"laine/internal/middleware"
	"laine/internal/repositories"
	"laine/internal/services"
	"laine/pkg/database"
	"laine/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger().Fatal("Failed to load configuration", zap.Error(err))
	}

	log := logger.Init(cfg.Log.Level)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Session verification
	keyFunc, closeJWKS := sessionKeyFunc(cfg.Clerk.JWKSURL, log)
	defer closeJWKS()

	if cfg.Webhook.Secret == "" {
		log.Warn("VAPI_WEBHOOK_SECRET is not set, webhook is unsecured. This is not recommended for production.")
	}
	if cfg.Billing.SecretKey == "" {
		log.Warn("AUTUMN_SECRET_KEY is not set, billing calls will fail")
	}

	// Create repositories
	practiceRepo := repositories.NewPracticeRepo(pool)
	assistantRepo := repositories.NewAssistantMappingRepo(pool)

	// Create services
	directory := services.NewClerkService(cfg.Clerk.SecretKey, cfg.Clerk.APIURL)
	billingProvider := services.NewAutumnService(cfg.Billing.SecretKey, cfg.Billing.APIURL)
	assistantSvc := services.NewAssistantService(assistantRepo, services.AssistantFallback{
		AssistantID:    cfg.Webhook.TestAssistantID,
		OrganizationID: cfg.Webhook.TestOrgID,
	}, log.Named("assistants"))
	usageSvc := services.NewUsageService(assistantSvc, billingProvider, cfg.Billing.MinutesFeatureID, log.Named("usage"))
	billingSvc := services.NewBillingService(billingProvider, directory, cfg.Billing.MinutesFeatureID, log.Named("billing"))
	practiceSvc := services.NewPracticeService(practiceRepo, directory, log.Named("practices"))

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.IsDevelopment()

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(middleware.RequestID)
	e.Use(middleware.RequestLogger)
	e.Use(middleware.Metrics)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handlers.RegisterRoutes(e, handlers.Router{
		Health:     handlers.NewHealthHandlers(pool),
		Config:     handlers.NewConfigHandlers(cfg.Billing.PublicBackendURL),
		Webhook:    handlers.NewWebhookHandlers(usageSvc, cfg.Webhook.Secret),
		Auth:       handlers.NewAuthHandlers(directory),
		Onboarding: handlers.NewOnboardingHandlers(practiceSvc),
		Settings:   handlers.NewSettingsHandlers(practiceSvc),
		Billing:    handlers.NewBillingHandlers(billingSvc),
		Assistants: handlers.NewAssistantHandlers(assistantSvc),
	}, middleware.Session(keyFunc))

	// Start server
	go func() {
		log.Info("Laine server starting",
			zap.String("version", version),
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}

// sessionKeyFunc fetches the identity provider's JWKS and keeps it refreshed.
// Without a JWKS URL every session is rejected while public routes keep working.
func sessionKeyFunc(jwksURL string, log *zap.Logger) (jwt.Keyfunc, func()) {
	if jwksURL == "" {
		log.Error("CLERK_JWKS_URL is not set, all sessions will be rejected")
		return func(*jwt.Token) (interface{}, error) {
			return nil, errors.New("session verification is not configured")
		}, func() {}
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error("Failed to refresh JWKS", zap.Error(err))
		},
	})
	if err != nil {
		log.Fatal("Failed to load JWKS", zap.String("url", jwksURL), zap.Error(err))
	}
	return jwks.Keyfunc, jwks.EndBackground
}
