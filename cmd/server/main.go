package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/retail/backend/internal/application/catalog"
	financeapp "github.com/retail/backend/internal/application/finance"
	fiscalapp "github.com/retail/backend/internal/application/fiscal"
	inventoryapp "github.com/retail/backend/internal/application/inventory"
	salesapp "github.com/retail/backend/internal/application/sales"
	"github.com/retail/backend/internal/infrastructure/auth"
	"github.com/retail/backend/internal/infrastructure/config"
	"github.com/retail/backend/internal/infrastructure/event"
	"github.com/retail/backend/internal/infrastructure/logger"
	"github.com/retail/backend/internal/infrastructure/persistence"
	"github.com/retail/backend/internal/interfaces/http/handler"
	"github.com/retail/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting retail backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Event bus with the audit-trail subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingEventHandler(log))

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	entryRepo := persistence.NewGormEntryRepository(db.DB)

	stockScope := persistence.NewGormStockTransactionScope(db.DB)
	saleScope := persistence.NewGormSaleTransactionScope(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo, categoryRepo, eventBus)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	stockService := inventoryapp.NewStockService(stockScope)
	saleService := salesapp.NewSaleService(saleScope, eventBus)
	documentService := fiscalapp.NewDocumentService(documentRepo, saleRepo, fiscalapp.IssuerConfig{
		RegionCode:   cfg.Fiscal.RegionCode,
		TaxID:        cfg.Fiscal.TaxID,
		Series:       cfg.Fiscal.Series,
		EmissionMode: cfg.Fiscal.EmissionMode,
	}, eventBus)
	ledgerService := financeapp.NewLedgerService(entryRepo, saleRepo, eventBus)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.Setup(router.Config{
		Logger:     log,
		JWTService: jwtService,
		HTTP:       cfg.HTTP,
		System:     handler.NewSystemHandler(db, cfg.App.Name),
		Products:   handler.NewProductHandler(productService),
		Categories: handler.NewCategoryHandler(categoryService),
		Stock:      handler.NewStockHandler(stockService),
		Sales:      handler.NewSaleHandler(saleService),
		Documents:  handler.NewDocumentHandler(documentService),
		Ledger:     handler.NewLedgerHandler(ledgerService),
	})

	// Late charge accrual job
	accrualCtx, stopAccrual := context.WithCancel(context.Background())
	defer stopAccrual()
	if cfg.Finance.AccrualEnabled {
		go runAccrualLoop(accrualCtx, ledgerService, cfg.Finance.AccrualInterval, log)
		log.Info("Late charge accrual job started",
			zap.Duration("interval", cfg.Finance.AccrualInterval))
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	stopAccrual()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

// runAccrualLoop periodically applies penalty and interest to overdue
// ledger entries until ctx is cancelled
func runAccrualLoop(ctx context.Context, ledger *financeapp.LedgerService, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updated, err := ledger.AccrueLateCharges(ctx, time.Now())
			if err != nil {
				log.Error("Late charge accrual failed", zap.Error(err))
				continue
			}
			if updated > 0 {
				log.Info("Late charges accrued", zap.Int("entries", updated))
			}
		}
	}
}
