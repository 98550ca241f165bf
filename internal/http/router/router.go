package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/auth"
	"github.com/sailfin-io/backoffice-api/internal/config"
	"github.com/sailfin-io/backoffice-api/internal/database"
	"github.com/sailfin-io/backoffice-api/internal/http/handler"
	"github.com/sailfin-io/backoffice-api/internal/http/middleware"

	_ "github.com/sailfin-io/backoffice-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                    *config.Config
	logger                 *zap.Logger
	db                     *gorm.DB
	authMiddleware         *auth.Middleware
	rateLimiter            *middleware.RateLimiter
	authHandler            *handler.AuthHandler
	leadHandler            *handler.LeadHandler
	costSheetHandler       *handler.CostSheetHandler
	invoiceHandler         *handler.InvoiceHandler
	bankConnectionHandler  *handler.BankConnectionHandler
	bankTransactionHandler *handler.BankTransactionHandler
	receiptVoucherHandler  *handler.ReceiptVoucherHandler
	dashboardHandler       *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	leadHandler *handler.LeadHandler,
	costSheetHandler *handler.CostSheetHandler,
	invoiceHandler *handler.InvoiceHandler,
	bankConnectionHandler *handler.BankConnectionHandler,
	bankTransactionHandler *handler.BankTransactionHandler,
	receiptVoucherHandler *handler.ReceiptVoucherHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:                    cfg,
		logger:                 logger,
		db:                     db,
		authMiddleware:         authMiddleware,
		rateLimiter:            rateLimiter,
		authHandler:            authHandler,
		leadHandler:            leadHandler,
		costSheetHandler:       costSheetHandler,
		invoiceHandler:         invoiceHandler,
		bankConnectionHandler:  bankConnectionHandler,
		bankTransactionHandler: bankTransactionHandler,
		receiptVoucherHandler:  receiptVoucherHandler,
		dashboardHandler:       dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth and users
			r.Get("/auth/me", rt.authHandler.Me)
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Get("/auth/users", rt.authHandler.ListUsers)
				r.Post("/auth/users", rt.authHandler.CreateUser)
				r.Delete("/auth/users/{id}", rt.authHandler.DeleteUser)
			})

			// Leads
			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.leadHandler.List)
				r.Post("/", rt.leadHandler.Create)
				r.Get("/{id}", rt.leadHandler.GetByID)
				r.Put("/{id}", rt.leadHandler.Update)
				r.Delete("/{id}", rt.leadHandler.Delete)
			})

			// Cost sheets
			r.Route("/cost-sheets", func(r chi.Router) {
				r.Get("/", rt.costSheetHandler.List)
				r.Post("/", rt.costSheetHandler.Create)
				r.Get("/export", rt.costSheetHandler.ExportReport)
				r.Get("/{id}", rt.costSheetHandler.GetByID)
				r.Put("/{id}", rt.costSheetHandler.Update)
				r.Delete("/{id}", rt.costSheetHandler.Delete)

				// Review endpoints
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireAdmin)
					r.Post("/{id}/approve", rt.costSheetHandler.Approve)
					r.Post("/{id}/reject", rt.costSheetHandler.Reject)
				})

				// Attachments
				r.Post("/{id}/attachments", rt.costSheetHandler.UploadAttachment)
				r.Get("/{id}/attachments/{attachmentId}", rt.costSheetHandler.DownloadAttachment)
				r.Delete("/{id}/attachments/{attachmentId}", rt.costSheetHandler.DeleteAttachment)
			})

			// Finance
			r.Route("/finance", func(r chi.Router) {
				r.Route("/invoices", func(r chi.Router) {
					r.Get("/", rt.invoiceHandler.List)
					r.Post("/", rt.invoiceHandler.Create)
					r.Get("/{id}", rt.invoiceHandler.GetByID)
					r.Put("/{id}", rt.invoiceHandler.Update)
					r.Delete("/{id}", rt.invoiceHandler.Delete)
				})

				r.Route("/bank-connections", func(r chi.Router) {
					r.Get("/", rt.bankConnectionHandler.List)
					r.Post("/", rt.bankConnectionHandler.Create)
					r.Get("/{id}", rt.bankConnectionHandler.GetByID)
					r.Put("/{id}", rt.bankConnectionHandler.Update)
					r.Delete("/{id}", rt.bankConnectionHandler.Delete)
					r.Post("/{id}/sync", rt.bankConnectionHandler.Sync)
				})

				r.Route("/bank-transactions", func(r chi.Router) {
					r.Get("/", rt.bankTransactionHandler.List)
					r.Post("/sync", rt.bankTransactionHandler.Sync)
					r.Post("/upload", rt.bankTransactionHandler.UploadStatement)
					r.Get("/{id}", rt.bankTransactionHandler.GetByID)
					r.Post("/{id}/match", rt.bankTransactionHandler.Match)
					r.Post("/{id}/exclude", rt.bankTransactionHandler.Exclude)
					r.Post("/{id}/undo-exclude", rt.bankTransactionHandler.UndoExclude)
				})

				r.Route("/receipt-vouchers", func(r chi.Router) {
					r.Get("/", rt.receiptVoucherHandler.List)
					r.Post("/", rt.receiptVoucherHandler.Create)
					r.Get("/{id}", rt.receiptVoucherHandler.GetByID)
					r.Post("/{id}/attachments", rt.receiptVoucherHandler.UploadAttachment)
					r.Get("/{id}/attachments/{attachmentId}", rt.receiptVoucherHandler.DownloadAttachment)
					r.Delete("/{id}/attachments/{attachmentId}", rt.receiptVoucherHandler.DeleteAttachment)
				})
			})

			// Dashboard
			r.Get("/dashboard/metrics", rt.dashboardHandler.Metrics)
		})
	})

	return r
}
