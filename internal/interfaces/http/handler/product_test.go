package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/retail/backend/internal/application/catalog"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/interfaces/http/dto"
)

// memProductRepo is an in-memory ProductRepository for handler tests
type memProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) List(_ context.Context, filter shared.Filter) (shared.Paginated[*catalog.Product], error) {
	items := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *memProductRepo) ListByCategory(_ context.Context, _ uuid.UUID, filter shared.Filter) (shared.Paginated[*catalog.Product], error) {
	return shared.NewPaginated([]*catalog.Product{}, 0, filter.Page, filter.PageSize), nil
}

func (r *memProductRepo) ListBelowMinimum(_ context.Context) ([]*catalog.Product, error) {
	return nil, nil
}

func (r *memProductRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, err := r.FindByCode(context.Background(), code)
	return err == nil, nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// memCategoryRepo is an in-memory CategoryRepository for handler tests
type memCategoryRepo struct {
	categories map[uuid.UUID]*catalog.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[uuid.UUID]*catalog.Category)}
}

func (r *memCategoryRepo) Save(_ context.Context, c *catalog.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) FindByCode(_ context.Context, code string) (*catalog.Category, error) {
	for _, c := range r.categories {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) FindDescendants(_ context.Context, _ string) ([]*catalog.Category, error) {
	return nil, nil
}

func (r *memCategoryRepo) List(_ context.Context, filter shared.Filter) (shared.Paginated[*catalog.Category], error) {
	return shared.NewPaginated([]*catalog.Category{}, 0, filter.Page, filter.PageSize), nil
}

func (r *memCategoryRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, err := r.FindByCode(context.Background(), code)
	return err == nil, nil
}

func (r *memCategoryRepo) HasProducts(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func setupProductRouter() (*gin.Engine, *memProductRepo) {
	gin.SetMode(gin.TestMode)
	repo := newMemProductRepo()
	service := catalogapp.NewProductService(repo, newMemCategoryRepo(), nil)
	h := NewProductHandler(service)

	r := gin.New()
	r.POST("/products", h.Create)
	r.GET("/products", h.List)
	r.GET("/products/:id", h.Get)
	r.DELETE("/products/:id", h.Delete)
	return r, repo
}

func createProductRequest(code string) map[string]any {
	return map[string]any{
		"code":       code,
		"name":       "Espresso Beans 1kg",
		"unit":       "kg",
		"cost_price": "40",
		"sale_price": "65",
	}
}

func TestProductHandler_Create(t *testing.T) {
	router, repo := setupProductRouter()

	body, _ := json.Marshal(createProductRequest("SKU-001"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, repo.products, 1)
}

func TestProductHandler_Create_DuplicateCode(t *testing.T) {
	router, _ := setupProductRouter()

	body, _ := json.Marshal(createProductRequest("SKU-001"))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		if i == 0 {
			require.Equal(t, http.StatusCreated, w.Code)
		} else {
			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Contains(t, w.Body.String(), shared.CodeAlreadyExists)
		}
	}
}

func TestProductHandler_Create_MissingFields(t *testing.T) {
	router, _ := setupProductRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader([]byte(`{"name":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	router, _ := setupProductRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), shared.CodeNotFound)
}

func TestProductHandler_Get_InvalidID(t *testing.T) {
	router, _ := setupProductRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_List_Pagination(t *testing.T) {
	router, _ := setupProductRouter()

	for _, code := range []string{"SKU-001", "SKU-002", "SKU-003"} {
		body, _ := json.Marshal(createProductRequest(code))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?page=1&page_size=2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}
