// Package v1 provides HTTP API version 1.
package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kls/internal/core/clock"
	"kls/internal/core/kvstore"
	"kls/internal/domain/audit"
	"kls/internal/domain/purchase"
	"kls/internal/domain/reports"
	"kls/internal/domain/supplier"
	"kls/internal/infrastructure/http/v1/handlers"
	"kls/internal/infrastructure/http/v1/middleware"
	"kls/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	Purchases *purchase.Service
	Suppliers *supplier.Service
	Reports   *reports.Service

	// Clock decides "today" for forms without a date
	Clock clock.Clock

	// Store is pinged by the readiness probe
	Store         kvstore.Pinger
	StorageDriver string

	// CORSOrigins are the browser origins allowed to call the API
	CORSOrigins []string

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Content-Type", middleware.HeaderRequestID, middleware.HeaderTraceID},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.HeaderRequestID},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.StorageDriver)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	registerAuditTrail(cfg)

	baseHandler := handlers.NewBaseHandler(cfg.Clock)
	v1 := router.Group("/api/v1")
	{
		registerPurchaseRoutes(v1, baseHandler, cfg)
		registerSupplierRoutes(v1, baseHandler, cfg)
		registerReportRoutes(v1, baseHandler, cfg)
	}

	return router
}

func registerAuditTrail(cfg RouterConfig) {
	audit.Register(cfg.Purchases.Hooks(), "purchase_order", func(o *purchase.Order) []any {
		return []any{
			"id", o.ID,
			"number", o.OrderNumber,
			"supplier", o.Supplier,
			"remaining", o.RemainingAmount.String(),
			"status", o.Status,
		}
	})
	audit.Register(cfg.Suppliers.Hooks(), "supplier", func(s *supplier.Supplier) []any {
		return []any{"id", s.ID, "name", s.Name}
	})
}

// registerPurchaseRoutes registers purchase order endpoints.
func registerPurchaseRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewPurchaseHandler(base, cfg.Purchases)

	purchases := rg.Group("/purchases")
	{
		purchases.GET("", handler.List)
		purchases.POST("", handler.Create)
		purchases.GET("/next-number", handler.NextNumber)
		purchases.GET("/:id", handler.Get)
		purchases.DELETE("/:id", handler.Delete)
		purchases.POST("/:id/payments", handler.AddPayment)
	}
}

// registerSupplierRoutes registers supplier and ledger endpoints.
func registerSupplierRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewSupplierHandler(base, cfg.Suppliers, cfg.Reports)

	suppliers := rg.Group("/suppliers")
	{
		suppliers.GET("", handler.List)
		suppliers.POST("", handler.Create)
		suppliers.GET("/:id", handler.Get)
		suppliers.PUT("/:id", handler.Update)
		suppliers.DELETE("/:id", handler.Delete)
		suppliers.GET("/:id/ledger", handler.Ledger)
		suppliers.GET("/:id/ledger/export", handler.ExportLedger)
		suppliers.GET("/:id/summary", handler.Summary)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewReportHandler(base, cfg.Reports)

	rg.GET("/reports/credit", handler.Credit)
}
