package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retail/backend/internal/infrastructure/config"
	"github.com/retail/backend/internal/interfaces/http/handler"
)

func setupTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return Setup(Config{
		Logger:     zap.NewNop(),
		HTTP:       config.HTTPConfig{},
		System:     handler.NewSystemHandler(nil, "retail-backend"),
		Products:   handler.NewProductHandler(nil),
		Categories: handler.NewCategoryHandler(nil),
		Stock:      handler.NewStockHandler(nil),
		Sales:      handler.NewSaleHandler(nil),
		Documents:  handler.NewDocumentHandler(nil),
		Ledger:     handler.NewLedgerHandler(nil),
	})
}

func TestSetup_HealthEndpoints(t *testing.T) {
	engine := setupTestEngine()

	for _, path := range []string{"/health", "/ready", "/api/v1/health"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestSetup_RegistersRoutes(t *testing.T) {
	engine := setupTestEngine()

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /api/v1/catalog/products",
		"GET /api/v1/catalog/products",
		"GET /api/v1/catalog/products/below-minimum",
		"GET /api/v1/catalog/products/:id/movements",
		"POST /api/v1/catalog/categories",
		"POST /api/v1/catalog/categories/:id/move",
		"POST /api/v1/stock/movements",
		"GET /api/v1/stock/movements",
		"POST /api/v1/stock/availability",
		"POST /api/v1/sales",
		"POST /api/v1/sales/:id/approve",
		"POST /api/v1/sales/:id/transition",
		"POST /api/v1/sales/:id/cancel",
		"GET /api/v1/sales/:id/documents",
		"POST /api/v1/fiscal/documents",
		"GET /api/v1/fiscal/documents/key/:key",
		"POST /api/v1/fiscal/documents/:id/authorize",
		"POST /api/v1/ledger/entries",
		"POST /api/v1/ledger/entries/from-sale",
		"POST /api/v1/ledger/entries/:id/settlements",
		"POST /api/v1/ledger/entries/:id/recurrence",
		"POST /api/v1/ledger/entries/:id/contest",
		"GET /api/v1/ledger/entries/overdue",
		"POST /api/v1/ledger/accrue",
	}

	for _, route := range expected {
		require.True(t, registered[route], "route not registered: %s", route)
	}
}

func TestSetup_UnknownRoute(t *testing.T) {
	engine := setupTestEngine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
