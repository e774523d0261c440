package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Schema store selection values.
const (
	SchemaStoreRelational = "relational"
	SchemaStoreDocument   = "document"
)

// Config holds all configuration for the brewlog server.
// Configuration can come from YAML file (config.yaml) or environment
// variables; environment variables override YAML values. Secrets
// (passwords, signing keys) must only come from environment variables.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`

	// MigrationsPath is the directory golang-migrate reads at startup.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// AuthConfig holds token and password hashing configuration.
type AuthConfig struct {
	// JWTSecret signs HS256 access tokens. Server fails to start without it.
	JWTSecret string `yaml:"-" env:"JWT_SECRET"`

	// SessionKey authenticates the browser session cookie.
	SessionKey string `yaml:"-" env:"SESSION_KEY"`

	TokenTTL time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"24h"`

	// BcryptCost for password hashing. 0 selects the library default.
	BcryptCost int `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST" env-default:"0"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"brewlog"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"brewlog"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
}

// RedisConfig holds the optional Redis connection used for token
// revocation. An empty host disables Redis entirely.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// StorageConfig selects the schema store adapter.
type StorageConfig struct {
	// SchemaStore is "relational" (fields/schemas/schema_fields join
	// model) or "document" (one JSONB document per schema).
	SchemaStore string `yaml:"schema_store" env:"SCHEMA_STORE" env-default:"relational"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Auth.SessionKey == "" {
		return fmt.Errorf("SESSION_KEY must be set")
	}
	switch c.Storage.SchemaStore {
	case SchemaStoreRelational, SchemaStoreDocument:
	default:
		return fmt.Errorf("invalid storage.schema_store %q", c.Storage.SchemaStore)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
