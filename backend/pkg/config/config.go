package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "sentigraph/backend/pkg/errors"
)

// Graph backend selectors
const (
	BackendAuto   = "auto"
	BackendNeo4j  = "neo4j"
	BackendMemory = "memory"
)

// Config holds all application configuration
type Config struct {
	// App
	Port           string        `env:"PORT" envDefault:"8080"`
	Env            string        `env:"ENV" envDefault:"development"`
	LogLevel       string        `env:"LOG_LEVEL"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownAfter  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"true"`

	// Graph
	GraphBackend string `env:"GRAPH_BACKEND" envDefault:"auto"`

	// Neo4j
	Neo4j Neo4jConfig
}

// Neo4jConfig holds the persistent graph store connection settings
type Neo4jConfig struct {
	URI      string `env:"NEO4J_URI"`
	User     string `env:"NEO4J_USER" envDefault:"neo4j"`
	Password string `env:"NEO4J_PASSWORD"`
	Database string `env:"NEO4J_DATABASE" envDefault:"neo4j"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigValidationFailed("PORT", "must not be empty")
	}
	switch c.GraphBackend {
	case BackendAuto, BackendMemory:
	case BackendNeo4j:
		if c.Neo4j.URI == "" {
			return apperrors.NewConfigValidationFailed("NEO4J_URI", "required when GRAPH_BACKEND=neo4j")
		}
	default:
		return apperrors.NewConfigValidationFailed("GRAPH_BACKEND", fmt.Sprintf("unknown backend %q", c.GraphBackend))
	}
	if c.ResolvedBackend() == BackendNeo4j && c.Neo4j.User == "" {
		return apperrors.NewConfigValidationFailed("NEO4J_USER", "required for the neo4j backend")
	}
	return nil
}

// ResolvedBackend maps "auto" to neo4j when a URI is configured and to memory otherwise
func (c *Config) ResolvedBackend() string {
	if c.GraphBackend != BackendAuto {
		return c.GraphBackend
	}
	if c.Neo4j.URI != "" {
		return BackendNeo4j
	}
	return BackendMemory
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
