// Package config loads the catalog service configuration from an optional
// config.yaml, CATALOG_* environment variables and built-in defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the catalog service
type Config struct {
	MongoDB struct {
		URI          string `mapstructure:"uri"`
		Database     string `mapstructure:"database"`
		MaxPoolSize  uint64 `mapstructure:"max_pool_size"`
		QueryTimeout int    `mapstructure:"query_timeout"` // seconds
	} `mapstructure:"mongodb"`

	API struct {
		Port           int      `mapstructure:"port"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		TrustProxy     bool     `mapstructure:"trust_proxy"`
		PublicDir      string   `mapstructure:"public_dir"`
		JSONBodyLimit  int64    `mapstructure:"json_body_limit"` // bytes
		RateLimit      struct {
			RequestsPerSecond int `mapstructure:"requests_per_second"`
			Burst             int `mapstructure:"burst"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"api"`

	Storage struct {
		CategoryCacheSize int `mapstructure:"category_cache_size"`
	} `mapstructure:"storage"`
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongodb.database", "catalog")
	viper.SetDefault("mongodb.max_pool_size", 10)
	viper.SetDefault("mongodb.query_timeout", 10)

	viper.SetDefault("api.port", 8000)
	viper.SetDefault("api.allowed_origins", []string{"*"})
	viper.SetDefault("api.trust_proxy", false)
	viper.SetDefault("api.public_dir", "./public")
	viper.SetDefault("api.json_body_limit", 1048576) // 1MB
	viper.SetDefault("api.rate_limit.requests_per_second", 100)
	viper.SetDefault("api.rate_limit.burst", 100)

	viper.SetDefault("storage.category_cache_size", 1024)
}

// LoadConfig loads configuration from config.yaml, env vars and defaults
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.SetEnvPrefix("CATALOG")
	viper.AutomaticEnv()
	_ = viper.BindEnv("mongodb.uri", "CATALOG_MONGODB_URI")
	_ = viper.BindEnv("mongodb.database", "CATALOG_MONGODB_DATABASE")
	_ = viper.BindEnv("api.port", "CATALOG_API_PORT")
	_ = viper.BindEnv("api.public_dir", "CATALOG_PUBLIC_DIR")

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, will use defaults and env vars
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.API.Port <= 0 || config.API.Port > 65535 {
		return nil, fmt.Errorf("invalid api port: %d", config.API.Port)
	}
	if config.MongoDB.Database == "" {
		return nil, fmt.Errorf("mongodb database name must not be empty")
	}

	return &config, nil
}
