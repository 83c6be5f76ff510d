package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Feeds  FeedsConfig
	Cache  CacheConfig
	Search SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FeedsConfig holds retailer feed configuration
type FeedsConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	BoostsPath      string        `mapstructure:"boosts_path"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SearchConfig holds search tuning configuration
type SearchConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/schappie/")

	// Environment variable settings
	v.SetEnvPrefix("SCHAPPIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Feed defaults
	v.SetDefault("feeds.base_url", "") // Required; registering the key makes env override visible
	v.SetDefault("feeds.refresh_interval", "24h") // Feeds are published daily
	v.SetDefault("feeds.boosts_path", "boosts.json")

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")

	// Search defaults
	v.SetDefault("search.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Feeds.BaseURL == "" {
		return fmt.Errorf("feed base URL is required (set SCHAPPIE_FEEDS_BASE_URL)")
	}

	if config.Feeds.RefreshInterval < time.Minute {
		return fmt.Errorf("feed refresh interval must be at least 1m, got: %s", config.Feeds.RefreshInterval)
	}

	return nil
}
