package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("SCHAPPIE_SERVER_PORT")
		os.Unsetenv("SCHAPPIE_SERVER_ENVIRONMENT")
		os.Unsetenv("SCHAPPIE_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("SCHAPPIE_FEEDS_BASE_URL")
		os.Unsetenv("SCHAPPIE_FEEDS_REFRESH_INTERVAL")
		os.Unsetenv("SCHAPPIE_FEEDS_BOOSTS_PATH")
		os.Unsetenv("SCHAPPIE_CACHE_TTL")
		os.Unsetenv("SCHAPPIE_SEARCH_ENABLE_DEBUG_LOGGING")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required feed URL
		os.Setenv("SCHAPPIE_FEEDS_BASE_URL", "https://feeds.example.com")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Feeds.BaseURL != "https://feeds.example.com" {
			t.Errorf("Feeds.BaseURL = %s", cfg.Feeds.BaseURL)
		}
		if cfg.Feeds.RefreshInterval != 24*time.Hour {
			t.Errorf("Feeds.RefreshInterval = %v, want 24h", cfg.Feeds.RefreshInterval)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Search.EnableDebugLogging {
			t.Error("Search.EnableDebugLogging = true, want false")
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SCHAPPIE_FEEDS_BASE_URL", "https://feeds.example.com")
		os.Setenv("SCHAPPIE_SERVER_PORT", "9090")
		os.Setenv("SCHAPPIE_CACHE_TTL", "1h")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
	})

	t.Run("missing feed base URL is an error", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for missing feed base URL")
		}
	})

	t.Run("too short refresh interval is an error", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SCHAPPIE_FEEDS_BASE_URL", "https://feeds.example.com")
		os.Setenv("SCHAPPIE_FEEDS_REFRESH_INTERVAL", "10s")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for refresh interval under 1m")
		}
	})
}
