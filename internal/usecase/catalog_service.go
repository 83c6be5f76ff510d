package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/schappie/backend/internal/domain"
)

const catalogCacheKey = "catalog:products"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL time.Duration
}

// CatalogService owns the canonical product snapshot. It is built once from
// the retailer feeds and then served read-only; Refresh swaps the snapshot
// atomically under the lock.
type CatalogService struct {
	cache  domain.CacheRepository
	feeds  domain.FeedClient
	search *SearchService

	cacheTTL time.Duration

	mu       sync.RWMutex
	products []domain.Product
	ready    bool
}

// NewCatalogService creates a catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	feeds domain.FeedClient,
	search *SearchService,
	config CatalogServiceConfig,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour // Feeds are published daily
	}

	return &CatalogService{
		cache:    cache,
		feeds:    feeds,
		search:   search,
		cacheTTL: cacheTTL,
	}
}

// Initialize builds the product snapshot: cached snapshot if present,
// otherwise a full feed fetch plus normalization. Until it succeeds at least
// once, every read operation returns ErrEngineNotReady.
func (s *CatalogService) Initialize(ctx context.Context) error {
	if cached, err := s.getCachedSnapshot(ctx); err == nil {
		s.install(cached)
		log.Printf("[CATALOG] loaded %d products from cache", len(cached))
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches all feeds and rebuilds the snapshot, bypassing the cache.
// On failure the previous snapshot, if any, stays in place.
func (s *CatalogService) Refresh(ctx context.Context) error {
	payload, err := s.feeds.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}

	products := NormalizeAll(*payload)
	s.install(products)

	if err := s.cache.Set(ctx, catalogCacheKey, products, s.cacheTTL); err != nil {
		// A cold cache only costs the next restart a feed fetch
		log.Printf("[CATALOG] snapshot cache write failed: %v", err)
	}

	log.Printf("[CATALOG] refreshed snapshot with %d products", len(products))
	return nil
}

// IsReady reports whether a snapshot has been installed
func (s *CatalogService) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Products returns the current snapshot
func (s *CatalogService) Products() ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, domain.ErrEngineNotReady
	}
	return s.products, nil
}

// Categories returns the fixed unified taxonomy with Dutch display labels,
// in presentation order
func (s *CatalogService) Categories() []domain.CategoryInfo {
	out := make([]domain.CategoryInfo, 0, len(domain.CategoryOrder))
	for _, c := range domain.CategoryOrder {
		out = append(out, domain.CategoryInfo{ID: c, Label: domain.CategoryLabels[c]})
	}
	return out
}

// Search ranks the snapshot against a free-text query
func (s *CatalogService) Search(query string, opts SearchOptions) ([]domain.ScoredProduct, error) {
	products, err := s.Products()
	if err != nil {
		return nil, err
	}
	return s.search.Search(products, query, opts), nil
}

// Deals lists every product with an active promo, ordered by relative
// discount (steepest first). Store and category filters are optional; a
// limit of 0 means no limit.
func (s *CatalogService) Deals(opts DealsOptions) ([]domain.Product, error) {
	products, err := s.Products()
	if err != nil {
		return nil, err
	}

	deals := make([]domain.Product, 0, 64)
	for _, p := range products {
		if p.PromoPrice == nil || p.Price == nil || *p.Price <= 0 {
			continue
		}
		if opts.EnabledStores != nil && !opts.EnabledStores[p.Store] {
			continue
		}
		if opts.Category != "" && p.UnifiedCategory != opts.Category {
			continue
		}
		deals = append(deals, p)
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return relativeDiscount(&deals[i]) > relativeDiscount(&deals[j])
	})

	if opts.Limit > 0 && len(deals) > opts.Limit {
		deals = deals[:opts.Limit]
	}
	return deals, nil
}

// CompareStores resolves a shopping list against every enabled store and
// totals what the list would cost per store. Stores missing one or more items
// report those queries and are flagged incomplete.
func (s *CatalogService) CompareStores(queries []string, opts SearchOptions) (*domain.StoreComparison, error) {
	products, err := s.Products()
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	comparison := &domain.StoreComparison{
		Queries: queries,
		Stores:  make([]domain.StoreBasket, 0, len(domain.StoreOrder)),
	}

	for _, store := range domain.StoreOrder {
		if opts.EnabledStores != nil && !opts.EnabledStores[store] {
			continue
		}

		basket := domain.StoreBasket{Store: store, Complete: true}
		storeOpts := SearchOptions{
			EnabledStores: map[domain.Store]bool{store: true},
			Category:      opts.Category,
		}

		for _, q := range queries {
			hits := s.search.Search(products, q, storeOpts)
			best := resolveBest(hits)
			if best == nil {
				basket.Complete = false
				basket.Missing = append(basket.Missing, q)
				continue
			}
			basket.Items = append(basket.Items, domain.BasketItem{
				Query:   q,
				Product: best.Product,
			})
			if price := best.EffectivePrice(); price != nil {
				basket.Total += *price
			}
		}
		comparison.Stores = append(comparison.Stores, basket)
	}

	// Complete baskets first, then cheapest
	sort.SliceStable(comparison.Stores, func(i, j int) bool {
		a, b := &comparison.Stores[i], &comparison.Stores[j]
		if a.Complete != b.Complete {
			return a.Complete
		}
		return a.Total < b.Total
	})
	return comparison, nil
}

// DealsOptions narrows the deals listing
type DealsOptions struct {
	EnabledStores map[domain.Store]bool
	Category      string
	Limit         int
}

// resolveBest picks the hit a shopper would put in the basket: within the top
// scoring band (15% of the leader), the cheapest unit price wins. Score alone
// would pick a premium brand over an identical cheaper match.
func resolveBest(hits []domain.ScoredProduct) *domain.ScoredProduct {
	if len(hits) == 0 {
		return nil
	}
	leader := hits[0].Score
	best := &hits[0]
	for i := 1; i < len(hits); i++ {
		h := &hits[i]
		if h.Score < leader*0.85 {
			break
		}
		if cheaperPerUnit(h, best) {
			best = h
		}
	}
	return best
}

func cheaperPerUnit(a, b *domain.ScoredProduct) bool {
	ap, bp := a.PricePerUnit, b.PricePerUnit
	if ap == nil || bp == nil {
		ap, bp = a.EffectivePrice(), b.EffectivePrice()
	}
	if ap == nil || bp == nil {
		return false
	}
	return *ap < *bp
}

func relativeDiscount(p *domain.Product) float64 {
	return (*p.Price - *p.PromoPrice) / *p.Price
}

// install swaps in a new snapshot and marks the engine ready
func (s *CatalogService) install(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.ready = true
}

// getCachedSnapshot restores a previously normalized snapshot
func (s *CatalogService) getCachedSnapshot(ctx context.Context) ([]domain.Product, error) {
	value, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		return nil, err
	}
	products, ok := value.([]domain.Product)
	if !ok || len(products) == 0 {
		return nil, domain.ErrCacheMiss
	}
	return products, nil
}
