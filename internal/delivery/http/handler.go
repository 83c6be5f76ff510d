package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schappie/backend/internal/domain"
	"github.com/schappie/backend/internal/usecase"
)

// Catalog is the slice of the catalog service the handlers need
type Catalog interface {
	IsReady() bool
	Products() ([]domain.Product, error)
	Categories() []domain.CategoryInfo
	Search(query string, opts usecase.SearchOptions) ([]domain.ScoredProduct, error)
	Deals(opts usecase.DealsOptions) ([]domain.Product, error)
	CompareStores(queries []string, opts usecase.SearchOptions) (*domain.StoreComparison, error)
	Refresh(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog Catalog
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// SearchRequest is the body of POST /api/v1/search
type SearchRequest struct {
	Query    string   `json:"query"`
	Stores   []string `json:"stores"`
	Category string   `json:"category"`
	Sort     string   `json:"sort"`
}

// CompareRequest is the body of POST /api/v1/compare
type CompareRequest struct {
	Queries []string `json:"queries"`
	Stores  []string `json:"stores"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "healthy"
	if !h.catalog.IsReady() {
		status = "initializing"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": "schappie-backend",
		"version": "1.0.0",
	})
}

// ListCategories returns the unified category taxonomy
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// ListProducts returns the full product snapshot, optionally filtered
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.Products()
	if err != nil {
		respondError(c, err)
		return
	}

	store := c.Query("store")
	category := c.Query("category")
	if store != "" || category != "" {
		filtered := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if store != "" && string(p.Store) != store {
				continue
			}
			if category != "" && p.UnifiedCategory != category {
				continue
			}
			filtered = append(filtered, p)
		}
		products = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(products),
		"products": products,
	})
}

// SearchProducts ranks products against a free-text query
func (h *Handler) SearchProducts(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		respondError(c, domain.ErrInvalidRequest)
		return
	}

	stores, err := storeSet(req.Stores)
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := h.catalog.Search(req.Query, usecase.SearchOptions{
		EnabledStores: stores,
		Category:      req.Category,
		Sort:          req.Sort,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   req.Query,
		"count":   len(results),
		"results": results,
	})
}

// ListDeals returns active promos ordered by relative discount
func (h *Handler) ListDeals(c *gin.Context) {
	stores, err := storeSet(c.QueryArray("store"))
	if err != nil {
		respondError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			respondError(c, domain.ErrInvalidRequest)
			return
		}
		limit = n
	}

	deals, err := h.catalog.Deals(usecase.DealsOptions{
		EnabledStores: stores,
		Category:      c.Query("category"),
		Limit:         limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(deals),
		"deals": deals,
	})
}

// CompareStores totals a shopping list per store
func (h *Handler) CompareStores(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Queries) == 0 {
		respondError(c, domain.ErrInvalidRequest)
		return
	}

	stores, err := storeSet(req.Stores)
	if err != nil {
		respondError(c, err)
		return
	}

	comparison, err := h.catalog.CompareStores(req.Queries, usecase.SearchOptions{
		EnabledStores: stores,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// RefreshCatalog forces a feed refetch and snapshot rebuild
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEngineNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog is still initializing"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, domain.ErrFeedUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "retailer feeds unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// storeSet converts store name params into an enabled-store set. Empty input
// means all stores. Unknown names are an invalid request.
func storeSet(names []string) (map[domain.Store]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	set := make(map[domain.Store]bool, len(names))
	for _, name := range names {
		store := domain.Store(name)
		if !knownStore(store) {
			return nil, domain.ErrInvalidRequest
		}
		set[store] = true
	}
	return set, nil
}

func knownStore(s domain.Store) bool {
	for _, known := range domain.StoreOrder {
		if s == known {
			return true
		}
	}
	return false
}
