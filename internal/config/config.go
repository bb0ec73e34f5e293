package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""
)

// DefaultEnvFiles are the dotenv files loaded when present, later files
// not overriding variables set by earlier ones or by the process.
var DefaultEnvFiles = []string{".env.local", ".env"}

// Config holds settings that are read from the environment only.
// Connection URL, port and log level come from CLI flags.
type Config struct {
	Database DatabaseOptions `envPrefix:"DATABASE_"`
	Audit    AuditOptions    `envPrefix:"AUDIT_"`
	JWT      JWTOptions      `envPrefix:"JWT_"`
	Metrics  MetricsOptions  `envPrefix:"METRICS_"`
	Search   SearchOptions   `envPrefix:"SEARCH_"`
}

type DatabaseOptions struct {
	MaxConns int32 `env:"MAX_CONNS" envDefault:"10"`
	MinConns int32 `env:"MIN_CONNS" envDefault:"2"`
}

type AuditOptions struct {
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

type JWTOptions struct {
	Secret string        `env:"SECRET"`
	Issuer string        `env:"ISSUER" envDefault:"taskdesk"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

type MetricsOptions struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Path    string `env:"PATH" envDefault:"/metrics"`
}

type SearchOptions struct {
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"10"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"100"`
}

// LoadEnvFiles loads the given dotenv files that exist and returns how many
// were loaded. Variables already present in the environment win.
func LoadEnvFiles(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}

	if len(existing) == 0 {
		return 0, nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return 0, fmt.Errorf("load env files: %w", err)
	}
	return len(existing), nil
}

// Load parses Config from the environment and validates it.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects inconsistent values.
func (c *Config) Validate() error {
	var errs []error

	if c.Database.MaxConns <= 0 {
		errs = append(errs, errors.New("DATABASE_MAX_CONNS must be positive"))
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, errors.New("DATABASE_MIN_CONNS must be between 0 and DATABASE_MAX_CONNS"))
	}
	if c.Audit.WriteTimeout <= 0 {
		errs = append(errs, errors.New("AUDIT_WRITE_TIMEOUT must be positive"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, errors.New("METRICS_PATH must start with /"))
	}
	if c.Search.DefaultPageSize <= 0 {
		errs = append(errs, errors.New("SEARCH_DEFAULT_PAGE_SIZE must be positive"))
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		errs = append(errs, errors.New("SEARCH_MAX_PAGE_SIZE must not be less than SEARCH_DEFAULT_PAGE_SIZE"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// RequireJWTSecret reports an error when no signing secret is configured.
func (c *Config) RequireJWTSecret() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}
