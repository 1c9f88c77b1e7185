package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/retail/backend/internal/domain/shared"
)

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &BaseHandler{}
	r.GET("/test", func(c *gin.Context) {
		h.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   shared.CodeNotFound,
		},
		{
			name:       "already exists",
			err:        shared.ErrAlreadyExists,
			wantStatus: http.StatusConflict,
			wantCode:   shared.CodeAlreadyExists,
		},
		{
			name:       "validation",
			err:        shared.NewDomainError(shared.CodeValidation, "Quantity must be positive"),
			wantStatus: http.StatusBadRequest,
			wantCode:   shared.CodeValidation,
		},
		{
			name:       "illegal transition",
			err:        shared.NewDomainError(shared.CodeIllegalTransition, "Cannot go from pending to delivered"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeIllegalTransition,
		},
		{
			name:       "insufficient stock",
			err:        shared.NewDomainError(shared.CodeInsufficientStock, "Only 3 units available"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeInsufficientStock,
		},
		{
			name:       "overpayment",
			err:        shared.NewDomainError(shared.CodeOverpayment, "Settlement exceeds remaining balance"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeOverpayment,
		},
		{
			name:       "unknown error",
			err:        errors.New("driver: bad connection"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performWithError(t, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestBaseHandler_HandleError_DoesNotLeakInternalDetails(t *testing.T) {
	w := performWithError(t, errors.New("pq: password authentication failed"))
	assert.NotContains(t, w.Body.String(), "password")
}
