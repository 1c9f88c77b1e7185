package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retail/backend/internal/infrastructure/auth"
	"github.com/retail/backend/internal/infrastructure/config"
	"github.com/retail/backend/internal/infrastructure/logger"
	"github.com/retail/backend/internal/interfaces/http/handler"
	"github.com/retail/backend/internal/interfaces/http/middleware"
)

// Config carries everything the router needs to register routes
type Config struct {
	Logger     *zap.Logger
	JWTService *auth.JWTService
	HTTP       config.HTTPConfig

	System     *handler.SystemHandler
	Products   *handler.ProductHandler
	Categories *handler.CategoryHandler
	Stock      *handler.StockHandler
	Sales      *handler.SaleHandler
	Documents  *handler.DocumentHandler
	Ledger     *handler.LedgerHandler
}

// Setup builds the gin engine with middleware and all API routes
func Setup(cfg Config) *gin.Engine {
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	engine.GET("/health", cfg.System.Health)
	engine.GET("/ready", cfg.System.Ready)

	api := engine.Group("/api/v1")
	if cfg.JWTService != nil {
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTService))
	}

	api.GET("/health", cfg.System.Health)

	registerCatalogRoutes(api, cfg)
	registerStockRoutes(api, cfg)
	registerSaleRoutes(api, cfg)
	registerFiscalRoutes(api, cfg)
	registerLedgerRoutes(api, cfg)

	return engine
}

func registerCatalogRoutes(api *gin.RouterGroup, cfg Config) {
	products := api.Group("/catalog/products")
	{
		products.POST("", cfg.Products.Create)
		products.GET("", cfg.Products.List)
		products.GET("/below-minimum", cfg.Products.ListBelowMinimum)
		products.GET("/code/:code", cfg.Products.GetByCode)
		products.GET("/:id", cfg.Products.Get)
		products.PUT("/:id", cfg.Products.Update)
		products.DELETE("/:id", cfg.Products.Delete)
		products.POST("/:id/promotion", cfg.Products.SetPromotion)
		products.DELETE("/:id/promotion", cfg.Products.ClearPromotion)
		products.POST("/:id/activate", cfg.Products.Activate)
		products.POST("/:id/deactivate", cfg.Products.Deactivate)
		products.GET("/:id/movements", cfg.Stock.ListMovements)
	}

	categories := api.Group("/catalog/categories")
	{
		categories.POST("", cfg.Categories.Create)
		categories.GET("", cfg.Categories.List)
		categories.GET("/:id", cfg.Categories.Get)
		categories.PUT("/:id", cfg.Categories.Update)
		categories.POST("/:id/move", cfg.Categories.Move)
		categories.DELETE("/:id", cfg.Categories.Delete)
	}
}

func registerStockRoutes(api *gin.RouterGroup, cfg Config) {
	stock := api.Group("/stock")
	{
		stock.POST("/movements", cfg.Stock.RegisterMovement)
		stock.GET("/movements", cfg.Stock.ListMovementsByPeriod)
		stock.POST("/availability", cfg.Stock.CheckAvailability)
	}
}

func registerSaleRoutes(api *gin.RouterGroup, cfg Config) {
	sales := api.Group("/sales")
	{
		sales.POST("", cfg.Sales.Create)
		sales.GET("", cfg.Sales.List)
		sales.GET("/period", cfg.Sales.ListByPeriod)
		sales.GET("/number/:number", cfg.Sales.GetByNumber)
		sales.GET("/:id", cfg.Sales.Get)
		sales.POST("/:id/items", cfg.Sales.AddItem)
		sales.DELETE("/:id/items/:product_id", cfg.Sales.RemoveItem)
		sales.PUT("/:id/adjustments", cfg.Sales.SetAdjustments)
		sales.POST("/:id/approve", cfg.Sales.Approve)
		sales.POST("/:id/transition", cfg.Sales.Transition)
		sales.POST("/:id/cancel", cfg.Sales.Cancel)
		sales.GET("/:id/documents", cfg.Documents.ListBySale)
	}
}

func registerFiscalRoutes(api *gin.RouterGroup, cfg Config) {
	documents := api.Group("/fiscal/documents")
	{
		documents.POST("", cfg.Documents.Issue)
		documents.GET("", cfg.Documents.List)
		documents.GET("/key/:key", cfg.Documents.GetByAccessKey)
		documents.GET("/:id", cfg.Documents.Get)
		documents.POST("/:id/submit", cfg.Documents.Submit)
		documents.POST("/:id/processing", cfg.Documents.MarkProcessing)
		documents.POST("/:id/authorize", cfg.Documents.Authorize)
		documents.POST("/:id/reject", cfg.Documents.Reject)
		documents.POST("/:id/retry", cfg.Documents.Retry)
		documents.POST("/:id/cancel", cfg.Documents.Cancel)
		documents.POST("/:id/void", cfg.Documents.Void)
	}
}

func registerLedgerRoutes(api *gin.RouterGroup, cfg Config) {
	ledger := api.Group("/ledger/entries")
	{
		ledger.POST("", cfg.Ledger.CreateEntry)
		ledger.GET("", cfg.Ledger.List)
		ledger.GET("/overdue", cfg.Ledger.ListOverdue)
		ledger.POST("/from-sale", cfg.Ledger.CreateReceivablesForSale)
		ledger.GET("/:id", cfg.Ledger.Get)
		ledger.POST("/:id/settlements", cfg.Ledger.RegisterSettlement)
		ledger.POST("/:id/discount", cfg.Ledger.GrantDiscount)
		ledger.POST("/:id/recurrence", cfg.Ledger.GenerateNextRecurrence)
		ledger.POST("/:id/contest", cfg.Ledger.SetContested)
		ledger.POST("/:id/cancel", cfg.Ledger.CancelEntry)
	}

	api.POST("/ledger/accrue", cfg.Ledger.AccrueLateCharges)
}
