package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	API         APIConfig
	Credentials CredentialConfig
	Redis       RedisConfig
	Directory   DirectoryConfig
	Metrics     MetricsConfig
	Stub        StubConfig
}

// APIConfig locates the remote XwanAI service.
type APIConfig struct {
	URL string `env:"XWAN_API_URL, default=http://localhost:8000/api"`
	// Chat replies are generated before the response is sent, so the timeout is generous.
	Timeout time.Duration `env:"XWAN_HTTP_TIMEOUT, default=60s"`
}

// CredentialConfig selects where the bearer token is persisted: file, redis or memory.
type CredentialConfig struct {
	Store     string `env:"XWAN_CREDENTIAL_STORE,     default=file"`
	File      string `env:"XWAN_CREDENTIAL_FILE"`
	Namespace string `env:"XWAN_CREDENTIAL_NAMESPACE, default=default"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type DirectoryConfig struct {
	PublicPageSize int `env:"XWAN_PUBLIC_PAGE_SIZE, default=12"`
	OwnedPageSize  int `env:"XWAN_OWNED_PAGE_SIZE,  default=20"`
}

// MetricsConfig enables a Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `env:"XWAN_METRICS_ADDR"`
}

// StubConfig configures the local stand-in API server.
type StubConfig struct {
	Port      string        `env:"PORT,       default=8000"`
	JWTSecret string        `env:"JWT_SECRET, default=dev-secret-change-me"`
	TokenTTL  time.Duration `env:"JWT_TTL,    default=24h"`
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig. It panics on invalid values.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}
	cfg, err := Process(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// Process resolves the configuration from an arbitrary lookuper.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Credentials.Store {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("XWAN_CREDENTIAL_STORE must be file, redis or memory, got %q", c.Credentials.Store)
	}
	if c.Directory.PublicPageSize < 1 || c.Directory.PublicPageSize > 100 {
		return fmt.Errorf("XWAN_PUBLIC_PAGE_SIZE must be between 1 and 100, got %d", c.Directory.PublicPageSize)
	}
	if c.Directory.OwnedPageSize < 1 || c.Directory.OwnedPageSize > 100 {
		return fmt.Errorf("XWAN_OWNED_PAGE_SIZE must be between 1 and 100, got %d", c.Directory.OwnedPageSize)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("XWAN_HTTP_TIMEOUT must be positive, got %s", c.API.Timeout)
	}
	return nil
}
