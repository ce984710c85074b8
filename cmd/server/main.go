// @title           Agency Backend API
// @version         1.0.0
// @description     Backend API for the agency's estimate to project lifecycle: quotes, checkout, payment confirmation and project delivery.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"agency-backend/docs"
	"agency-backend/internal/audit"
	"agency-backend/internal/config"
	"agency-backend/internal/database"
	"agency-backend/internal/handlers"
	"agency-backend/internal/lifecycle"
	"agency-backend/internal/logger"
	"agency-backend/internal/middleware"
	"agency-backend/internal/payments"
	"agency-backend/internal/permissions"
	"agency-backend/internal/supabase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := supabase.NewDatabaseClient(ctx, cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize database client", zap.Error(err))
	}
	defer dbClient.Close()

	migrator := database.NewMigratorWithDB(dbClient.DB(), zlog)
	if err := migrator.Run(ctx); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize supabase client", zap.Error(err))
	}

	var storageClient *supabase.StorageClient
	if cfg.SupabaseURL != "" {
		storageClient, err = supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
		if err != nil {
			zlog.Fatal("failed to initialize storage client", zap.Error(err))
		}
	} else {
		zlog.Warn("SUPABASE_URL not set, file uploads are disabled")
	}

	sink, closeSink, err := newAuditSink(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize audit sink", zap.Error(err))
	}
	defer closeSink()

	gateway, err := payments.NewMercadoPagoCheckout(payments.MercadoPagoOptions{
		AccessToken: cfg.MercadoPagoAccessToken,
		Mock:        cfg.PaymentsMocked(),
		BaseURL:     cfg.BaseURL,
		Currency:    cfg.Currency,
		Logger:      zlog,
	})
	if err != nil {
		zlog.Fatal("failed to initialize payment gateway", zap.Error(err))
	}

	var checkout lifecycle.Checkout = gateway
	if cfg.RedisAddr != "" {
		cache := payments.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		defer cache.Close()
		if err := cache.Ping(ctx); err != nil {
			zlog.Warn("redis unavailable, checkout urls will not be cached", zap.Error(err))
		}
		checkout = payments.NewCachedCheckout(gateway, cache, cfg.CheckoutCacheTTL, zlog)
	}

	gate := permissions.NewRoleGate(cfg.AdminEmails, cfg.AdminUserIDs)
	manager := lifecycle.NewManager(dbClient, gate,
		lifecycle.WithCheckout(checkout),
		lifecycle.WithAudit(sink),
		lifecycle.WithLogger(zlog),
		lifecycle.WithHourlyRate(cfg.HourlyRate),
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(dbClient)
	estimatesHandler := handlers.NewEstimatesHandler(manager, zlog)
	statusHandler := handlers.NewStatusHandler(manager, gate, zlog)
	projectsHandler := handlers.NewProjectsHandler(manager, zlog)
	ordersHandler := handlers.NewOrdersHandler(manager, zlog)
	profilesHandler := handlers.NewProfilesHandler(gate, supabaseClient, zlog)
	webhookHandler := handlers.NewWebhookHandler(manager, gateway, zlog)

	// Upload handlers answer 500 when storage is not configured
	var proofStore handlers.ProofUploader
	var fileStore handlers.FileUploader
	if storageClient != nil {
		proofStore, fileStore = storageClient, storageClient
	}
	uploadHandler := handlers.NewUploadHandler(manager, proofStore, zlog)
	filesHandler := handlers.NewFilesHandler(manager, fileStore, zlog)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestLogger(zlog))
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", healthHandler.Health)

	// Webhook (no auth, the payment is re-read from MercadoPago)
	if gateway.Mocked() {
		zlog.Warn("payment gateway mocked, mercadopago webhook not mounted")
	} else {
		router.POST("/api/v1/webhooks/mercadopago", webhookHandler.HandleMercadoPago)
	}

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.GET("/me", profilesHandler.GetMe)

	// Estimate routes
	api.POST("/estimates", estimatesHandler.CreateEstimate)
	api.GET("/estimates/:estimate_id", estimatesHandler.GetEstimate)
	api.POST("/estimates/:estimate_id/finalize", estimatesHandler.Finalize)
	api.POST("/estimates/:estimate_id/confirm", estimatesHandler.Confirm)
	api.POST("/estimates/:estimate_id/proof", uploadHandler.UploadProof)
	api.GET("/estimates/:estimate_id/history", estimatesHandler.History)

	// Admin checkout corrections
	api.PATCH("/checkout/status", statusHandler.UpdateStatus)
	api.POST("/checkout/revert", statusHandler.Revert)

	// Project routes
	api.GET("/projects", projectsHandler.ListProjects)
	api.GET("/projects/:project_id", projectsHandler.GetProject)
	api.PATCH("/projects/:project_id/developer", projectsHandler.AssignDeveloper)
	api.POST("/projects/:project_id/files", filesHandler.UploadFile)

	// Orders
	api.GET("/orders/:order_id", ordersHandler.GetOrder)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newAuditSink picks the audit backend named by AUDIT_BACKEND. The returned func
// releases its connection.
func newAuditSink(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (audit.Sink, func(), error) {
	switch cfg.AuditBackend {
	case "mongo":
		sink, err := audit.NewMongoSink(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.AuditCollection)
		if err != nil {
			return nil, nil, err
		}
		zlog.Info("audit trail stored in mongo", zap.String("collection", cfg.AuditCollection))
		return sink, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = sink.Close(closeCtx)
		}, nil
	case "dynamodb":
		ddb, err := audit.NewDynamoClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
		if err != nil {
			return nil, nil, err
		}
		zlog.Info("audit trail stored in dynamodb", zap.String("table", cfg.AuditTable))
		return audit.NewDynamoSink(ddb, cfg.AuditTable), func() {}, nil
	case "memory":
		return audit.NewMemorySink(), func() {}, nil
	default:
		return audit.Nop{}, func() {}, nil
	}
}
