package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server Server
	Base   Base
	Cache  Cache
	Scrape Scrape
}

// Server holds server-related configuration.
type Server struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Base holds persisted-dataset configuration.
type Base struct {
	Path string `mapstructure:"path"` // sqlite file backing the BASE dataset
}

// Cache holds result-cache configuration.
type Cache struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Scrape tunes the fan-out to the pharmacy sites.
type Scrape struct {
	AdapterTimeout time.Duration `mapstructure:"adapter_timeout"`
	Concurrency    int           `mapstructure:"concurrency"`
	PerHostRate    float64       `mapstructure:"per_host_rate"` // requests/sec per host
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/medifarma/")

	v.SetEnvPrefix("MEDIFARMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("base.path", "data/medifarma.db")

	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("scrape.adapter_timeout", "10s")
	v.SetDefault("scrape.concurrency", 6)
	v.SetDefault("scrape.per_host_rate", 2.0)
}

func validate(config *Config) error {
	if config.Base.Path == "" {
		return fmt.Errorf("base dataset path is required (set MEDIFARMA_BASE_PATH)")
	}
	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}
	if config.Scrape.AdapterTimeout <= 0 {
		return fmt.Errorf("scrape adapter timeout must be positive, got: %s", config.Scrape.AdapterTimeout)
	}
	if config.Scrape.Concurrency <= 0 {
		return fmt.Errorf("scrape concurrency must be positive, got: %d", config.Scrape.Concurrency)
	}
	return nil
}
