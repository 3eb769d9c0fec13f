package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"DealDesk"`
		Env  string `envconfig:"APP_ENV" default:"development"`
		Port int    `envconfig:"PORT" default:"8080"`
		// Store selects the repository backend: postgres or memory.
		Store string `envconfig:"STORE" default:"postgres"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"dealdesk"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Redis struct {
		Addr     string        `envconfig:"REDIS_ADDR"`
		BoardTTL time.Duration `envconfig:"REDIS_BOARD_TTL" default:"5m"`
	}

	Auth struct {
		User       string        `envconfig:"BASIC_AUTH_USER"`
		Password   string        `envconfig:"BASIC_AUTH_PASS"`
		Secret     string        `envconfig:"AUTH_SECRET"`
		SessionTTL time.Duration `envconfig:"AUTH_SESSION_TTL" default:"24h"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
		RateLimit      int           `envconfig:"PUBLIC_RATE_LIMIT" default:"30"`
	}

	Log struct {
		Format string `envconfig:"LOG_FORMAT" default:"text"`
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// AuthEnabled reports whether operator login is configured. Without credentials the API
// runs open, matching a local single-user setup.
func (c *Config) AuthEnabled() bool {
	return c.Auth.User != "" && c.Auth.Password != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.App.Store != StorePostgres && cfg.App.Store != StoreMemory {
		return nil, fmt.Errorf("unknown STORE %q", cfg.App.Store)
	}

	if cfg.AuthEnabled() && cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required when BASIC_AUTH_USER is set")
	}

	return &cfg, nil
}
