package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

const defaultAddr = "0.0.0.0:8080"

// Config is loaded from CATALOG_* environment variables, flags, or YAML.
type Config struct {
	Addr      string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Storage   StorageConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Graceful  GracefulConfig
}

// StorageConfig selects where the product and cart collections live.
type StorageConfig struct {
	Backend      string `default:"file" usage:"Collection backend: file or postgres"`
	ProductsPath string `default:"products.json" usage:"Product collection file" flag:"products-path"`
	CartsPath    string `default:"carts.json" usage:"Cart collection file" flag:"carts-path"`
	DatabaseURL  string `usage:"PostgreSQL connection URL (CATALOG_STORAGE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials" flag:"cors-credentials"`
}

// RateLimitConfig bounds requests per client. Max 0 disables it.
type RateLimitConfig struct {
	Max    int           `default:"0" usage:"Max requests per window per client"`
	Window time.Duration `default:"1m" usage:"Rate limit window"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads and validates the configuration.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CATALOG",
		Files:     []string{"config.yaml", "/etc/catalog/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints aconfig cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.ProductsPath == "" || c.Storage.CartsPath == "" {
			return errors.New("file backend needs both products and carts paths")
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("database URL is required for the postgres backend: set CATALOG_STORAGE_DATABASE_URL or DATABASE_URL")
		}
	default:
		return errors.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// applyPlatformDefaults honors the DATABASE_URL and PORT variables set by
// hosting platforms.
func (c *Config) applyPlatformDefaults() {
	if c.Storage.DatabaseURL == "" {
		c.Storage.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
