package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/handlers"
	"github.com/fadhlanhapp/splitbill-backend/logging"
	"github.com/fadhlanhapp/splitbill-backend/metrics"
	"github.com/fadhlanhapp/splitbill-backend/middleware"
	"github.com/fadhlanhapp/splitbill-backend/repository"
	"github.com/fadhlanhapp/splitbill-backend/routes"
	"github.com/fadhlanhapp/splitbill-backend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := repository.Open(cfg.DB, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repository.Close(db)

	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize services
	userRepo := repository.NewUserRepository(db)
	calculator := services.NewCalculationService()
	settlement := services.NewSettlementService(calculator)
	splitBills := services.NewSplitBillService(
		repository.NewSplitBillRepository(db),
		repository.NewParticipantRepository(db),
		userRepo,
		calculator,
		settlement,
	)
	authService := services.NewAuthService(userRepo, cfg.Auth)
	receipts := services.NewReceiptService(services.NewVisionTextExtractor(cfg.OCR))

	h := handlers.NewHandlers(&handlers.Services{
		Auth:       authService,
		Users:      services.NewUserService(userRepo),
		SplitBills: splitBills,
		Expenses:   services.NewExpenseService(splitBills, repository.NewExpenseRepository(db), calculator),
		Receipts:   receipts,
		Excel:      services.NewExcelService(splitBills, calculator, settlement),
	}, cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// Add New Relic middleware
	if cfg.NewRelic.LicenseKey != "" {
		app, err := newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			router.Use(nrgin.Middleware(app))
			defer app.Shutdown(10 * time.Second)
		}
	}

	router.Use(logging.GinMiddleware(logger))
	router.Use(metrics.GinMiddleware())

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(router, h, middleware.RequireAuth(authService, cfg.Auth.CookieName))

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
