package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/docs"
	"github.com/sailfin-io/backoffice-api/internal/auth"
	"github.com/sailfin-io/backoffice-api/internal/bankfeed"
	"github.com/sailfin-io/backoffice-api/internal/config"
	"github.com/sailfin-io/backoffice-api/internal/database"
	"github.com/sailfin-io/backoffice-api/internal/http/handler"
	"github.com/sailfin-io/backoffice-api/internal/http/middleware"
	"github.com/sailfin-io/backoffice-api/internal/http/router"
	"github.com/sailfin-io/backoffice-api/internal/jobs"
	"github.com/sailfin-io/backoffice-api/internal/logger"
	"github.com/sailfin-io/backoffice-api/internal/repository"
	"github.com/sailfin-io/backoffice-api/internal/service"
	"github.com/sailfin-io/backoffice-api/internal/storage"
)

const bankSyncTimeout = 2 * time.Minute

// @title Sailfin Backoffice API
// @version 1.0
// @description Sales and finance back office API for leads, cost sheets, invoicing and bank reconciliation

// @contact.name API Support
// @contact.email support@sailfin.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "backoffice-staging.sailfin.io"
	case "production":
		docs.SwaggerInfo.Host = "api.sailfin.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	leadRepo := repository.NewLeadRepository(db)
	sheetRepo := repository.NewCostSheetRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	connRepo := repository.NewBankConnectionRepository(db)
	txnRepo := repository.NewBankTransactionRepository(db)
	voucherRepo := repository.NewReceiptVoucherRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	numberSeqRepo := repository.NewNumberSequenceRepository(db)

	// Initialize services
	numberSeqService := service.NewNumberSequenceService(numberSeqRepo, log)
	leadService := service.NewLeadService(leadRepo, numberSeqService, log)
	sheetService := service.NewCostSheetService(sheetRepo, leadRepo, numberSeqService, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, leadRepo, log)
	voucherService := service.NewReceiptVoucherService(voucherRepo, invoiceRepo, leadRepo, numberSeqService, log)
	connService := service.NewBankConnectionService(connRepo, log)
	provider := bankfeed.NewSimulatedProvider(time.Now().UnixNano(), nil)
	txnService := service.NewBankTransactionService(txnRepo, connRepo, voucherRepo, provider, log)
	attachmentService := service.NewAttachmentService(attachmentRepo, fileStorage, log)
	dashboardService := service.NewDashboardService(sheetRepo, leadRepo, invoiceRepo, txnRepo, log)

	tokenIssuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.App.Name, cfg.Auth.TokenTTL())
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	userService := service.NewUserService(userRepo, tokenIssuer, log)

	if err := userService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokenIssuer, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	maxUploadBytes := cfg.Storage.MaxUploadSizeMB << 20
	authHandler := handler.NewAuthHandler(userService, log)
	leadHandler := handler.NewLeadHandler(leadService, log)
	costSheetHandler := handler.NewCostSheetHandler(sheetService, attachmentService, maxUploadBytes, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, log)
	bankConnectionHandler := handler.NewBankConnectionHandler(connService, txnService, log)
	bankTransactionHandler := handler.NewBankTransactionHandler(txnService, maxUploadBytes, log)
	receiptVoucherHandler := handler.NewReceiptVoucherHandler(voucherService, attachmentService, maxUploadBytes, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		leadHandler,
		costSheetHandler,
		invoiceHandler,
		bankConnectionHandler,
		bankTransactionHandler,
		receiptVoucherHandler,
		dashboardHandler,
	)

	// Start scheduler for the bank feed refresh
	var scheduler *jobs.Scheduler
	if cfg.BankSync.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterBankSyncJob(scheduler, txnService, log, cfg.BankSync.Schedule, bankSyncTimeout); err != nil {
			log.Error("Failed to register bank sync job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with bank sync job",
				zap.String("cron_expr", cfg.BankSync.Schedule),
			)
		}
	} else {
		log.Info("Bank feed refresh disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
