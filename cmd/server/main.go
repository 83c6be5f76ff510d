package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schappie/backend/config"
	httpDelivery "github.com/schappie/backend/internal/delivery/http"
	"github.com/schappie/backend/internal/infrastructure/boosts"
	"github.com/schappie/backend/internal/infrastructure/cache"
	"github.com/schappie/backend/internal/infrastructure/feeds"
	"github.com/schappie/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Schappie Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Feed base URL: %s", cfg.Feeds.BaseURL)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	feedClient := feeds.NewClient(cfg.Feeds.BaseURL)
	boostTable := boosts.Load(cfg.Feeds.BoostsPath)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(usecase.SearchConfig{
		Boosts:             boostTable,
		EnableDebugLogging: cfg.Search.EnableDebugLogging,
	})
	catalogService := usecase.NewCatalogService(
		memoryCache,
		feedClient,
		searchService,
		usecase.CatalogServiceConfig{
			CacheTTL: cfg.Cache.TTL,
		},
	)

	// Build the first snapshot in the background so the server comes up
	// immediately; reads return 503 until the catalog is ready
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := catalogService.Initialize(ctx); err != nil {
			log.Printf("Initial catalog build failed: %v", err)
		}
	}()

	// Periodic refresh keeps the snapshot on the daily feed cadence
	go func() {
		ticker := time.NewTicker(cfg.Feeds.RefreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			if err := catalogService.Refresh(ctx); err != nil {
				log.Printf("Scheduled refresh failed: %v", err)
			}
			cancel()
		}
	}()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
