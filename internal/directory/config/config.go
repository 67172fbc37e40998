// Package config loads the directory service settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	e "github.com/gartstein/directory/internal/directory/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the service looks for its configuration.
const DefaultPath = "internal/directory/config/config.yaml"

// Config struct for YAML configuration
type Config struct {
	GRPCPort       int      `yaml:"GRPC_PORT"`
	HTTPPort       int      `yaml:"HTTP_PORT"`
	LogLevel       string   `yaml:"LOG_LEVEL"`
	DBDriver       string   `yaml:"DB_DRIVER"`
	DBPath         string   `yaml:"DB_PATH"`
	DBHost         string   `yaml:"DB_HOST"`
	DBPort         int      `yaml:"DB_PORT"`
	DBUser         string   `yaml:"DB_USER"`
	DBPassword     string   `yaml:"DB_PASSWORD"`
	DBName         string   `yaml:"DB_NAME"`
	DBSSLMode      string   `yaml:"DB_SSLMODE"`
	SeedCatalog    bool     `yaml:"SEED_CATALOG"`
	KafkaBrokers   []string `yaml:"KAFKA_BROKERS"`
	Topic          string   `yaml:"TOPIC"`
	GroupID        string   `yaml:"GROUP_ID"`
	JWTSecret      string   `yaml:"JWT_SECRET"`
	PageSize       int      `yaml:"PAGE_SIZE"`
	FetchDelayMS   int      `yaml:"FETCH_DELAY_MS"`
	FetchTimeoutMS int      `yaml:"FETCH_TIMEOUT_MS"`
}

// Default returns the settings used when a key is absent from the file.
func Default() Config {
	return Config{
		GRPCPort:       50051,
		HTTPPort:       8080,
		LogLevel:       "info",
		DBDriver:       "sqlite",
		DBPath:         "directory.db",
		DBSSLMode:      "disable",
		SeedCatalog:    true,
		Topic:          "directory.events",
		GroupID:        "directory-events-tail",
		PageSize:       6,
		FetchDelayMS:   800,
		FetchTimeoutMS: 10000,
	}
}

// Load reads the YAML file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: PAGE_SIZE must be positive, got %d", e.ErrInvalidInput, c.PageSize)
	}
	if c.FetchDelayMS < 0 || c.FetchTimeoutMS < 0 {
		return fmt.Errorf("%w: fetch delay and timeout must not be negative", e.ErrInvalidInput)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown DB_DRIVER %q", e.ErrInvalidInput, c.DBDriver)
	}
	return nil
}

// FetchDelay is the artificial latency of catalog loads.
func (c *Config) FetchDelay() time.Duration {
	return time.Duration(c.FetchDelayMS) * time.Millisecond
}

// FetchTimeout bounds a single catalog load. Zero disables the timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// EventsEnabled reports whether Kafka brokers are configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
