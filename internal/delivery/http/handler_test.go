package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schappie/backend/config"
	"github.com/schappie/backend/internal/domain"
	"github.com/schappie/backend/internal/usecase"
)

// fakeCatalog implements Catalog for handler tests
type fakeCatalog struct {
	ready      bool
	products   []domain.Product
	results    []domain.ScoredProduct
	comparison *domain.StoreComparison
	refreshErr error
}

func (f *fakeCatalog) IsReady() bool { return f.ready }

func (f *fakeCatalog) Products() ([]domain.Product, error) {
	if !f.ready {
		return nil, domain.ErrEngineNotReady
	}
	return f.products, nil
}

func (f *fakeCatalog) Categories() []domain.CategoryInfo {
	return []domain.CategoryInfo{{ID: domain.CategoryProduce, Label: "Groente & fruit"}}
}

func (f *fakeCatalog) Search(query string, opts usecase.SearchOptions) ([]domain.ScoredProduct, error) {
	if !f.ready {
		return nil, domain.ErrEngineNotReady
	}
	return f.results, nil
}

func (f *fakeCatalog) Deals(opts usecase.DealsOptions) ([]domain.Product, error) {
	if !f.ready {
		return nil, domain.ErrEngineNotReady
	}
	return f.products, nil
}

func (f *fakeCatalog) CompareStores(queries []string, opts usecase.SearchOptions) (*domain.StoreComparison, error) {
	if !f.ready {
		return nil, domain.ErrEngineNotReady
	}
	return f.comparison, nil
}

func (f *fakeCatalog) Refresh(ctx context.Context) error { return f.refreshErr }

func setupTestRouter(catalog Catalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	return SetupRouter(cfg, NewHandler(catalog))
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		w := doRequest(setupTestRouter(&fakeCatalog{ready: true}), "GET", "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("initializing", func(t *testing.T) {
		w := doRequest(setupTestRouter(&fakeCatalog{}), "GET", "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "initializing")
	})
}

func TestListCategories(t *testing.T) {
	w := doRequest(setupTestRouter(&fakeCatalog{}), "GET", "/api/v1/categories", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Groente & fruit")
}

func TestListProducts(t *testing.T) {
	price := 1.19
	catalog := &fakeCatalog{
		ready: true,
		products: []domain.Product{
			{Store: domain.StoreAH, ID: "1", Name: "Melk", UnifiedCategory: domain.CategoryDairy, Price: &price},
			{Store: domain.StoreDirk, ID: "2", Name: "Brood", UnifiedCategory: domain.CategoryBakery, Price: &price},
		},
	}
	router := setupTestRouter(catalog)

	t.Run("all products", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/products", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Count    int              `json:"count"`
			Products []domain.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Count)
	})

	t.Run("store filter", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/products?store=ah", nil)

		var body struct {
			Count    int              `json:"count"`
			Products []domain.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, 1, body.Count)
		assert.Equal(t, "Melk", body.Products[0].Name)
	})

	t.Run("not ready maps to 503", func(t *testing.T) {
		w := doRequest(setupTestRouter(&fakeCatalog{}), "GET", "/api/v1/products", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSearchProducts(t *testing.T) {
	catalog := &fakeCatalog{
		ready: true,
		results: []domain.ScoredProduct{
			{Product: domain.Product{ID: "1", Name: "Halfvolle melk"}, Score: 0.92},
		},
	}
	router := setupTestRouter(catalog)

	t.Run("success", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/v1/search", SearchRequest{Query: "melk"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Halfvolle melk")
	})

	t.Run("empty query is 400", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/v1/search", SearchRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown store is 400", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/v1/search", SearchRequest{
			Query:  "melk",
			Stores: []string{"lidl"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not ready is 503", func(t *testing.T) {
		w := doRequest(setupTestRouter(&fakeCatalog{}), "POST", "/api/v1/search", SearchRequest{Query: "melk"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCompareStores(t *testing.T) {
	catalog := &fakeCatalog{
		ready: true,
		comparison: &domain.StoreComparison{
			Queries: []string{"melk"},
			Stores: []domain.StoreBasket{
				{Store: domain.StoreDirk, Total: 1.09, Complete: true},
			},
		},
	}
	router := setupTestRouter(catalog)

	t.Run("success", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/v1/compare", CompareRequest{Queries: []string{"melk"}})

		assert.Equal(t, http.StatusOK, w.Code)
		var body domain.StoreComparison
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Stores, 1)
		assert.Equal(t, domain.StoreDirk, body.Stores[0].Store)
	})

	t.Run("empty list is 400", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/v1/compare", CompareRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListDeals(t *testing.T) {
	router := setupTestRouter(&fakeCatalog{ready: true})

	t.Run("success", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/deals", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad limit is 400", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/deals?limit=veel", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRefreshCatalog(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w := doRequest(setupTestRouter(&fakeCatalog{ready: true}), "POST", "/api/v1/refresh", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("feed failure is 502", func(t *testing.T) {
		catalog := &fakeCatalog{ready: true, refreshErr: domain.ErrFeedUnavailable}
		w := doRequest(setupTestRouter(catalog), "POST", "/api/v1/refresh", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestCORSMiddleware(t *testing.T) {
	router := setupTestRouter(&fakeCatalog{ready: true})

	t.Run("preflight gets 204", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/v1/search", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{"http://localhost:*", "https://schappie.nl"}

	assert.True(t, isAllowedOrigin("http://localhost:5173", allowed))
	assert.True(t, isAllowedOrigin("https://schappie.nl", allowed))
	assert.False(t, isAllowedOrigin("https://evil.example", allowed))
}
